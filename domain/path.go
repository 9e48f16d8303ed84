// Package domain contains core concepts of the chat synchronization model.
// This file defines Path, the ordered key sequence addressing a location
// in the external store. Segments alternate collection/document, starting
// with a top-level collection.
package domain

import "strings"

// Path is an immutable sequence of non-empty segments. A Path always has
// at least one segment.
type Path struct {
	segments []string
}

func NewPath(first string, rest ...string) Path {
	segments := make([]string, 0, 1+len(rest))
	segments = append(segments, first)
	segments = append(segments, rest...)
	return Path{segments: segments}
}

func (p Path) First() string {
	return p.segments[0]
}

func (p Path) Last() string {
	return p.segments[len(p.segments)-1]
}

func (p Path) Size() int {
	return len(p.segments)
}

func (p Path) Get(i int) string {
	return p.segments[i]
}

// Child returns a new Path with the given segments appended. The receiver
// is left untouched.
func (p Path) Child(segments ...string) Path {
	combined := make([]string, 0, len(p.segments)+len(segments))
	combined = append(combined, p.segments...)
	combined = append(combined, segments...)
	return Path{segments: combined}
}

// Parent returns the Path with the last segment removed. The parent of a
// single-segment Path is the Path itself.
func (p Path) Parent() Path {
	if len(p.segments) <= 1 {
		return p
	}
	parent := make([]string, len(p.segments)-1)
	copy(parent, p.segments)
	return Path{segments: parent}
}

func (p Path) Equal(other Path) bool {
	if len(p.segments) != len(other.segments) {
		return false
	}
	for i, segment := range p.segments {
		if segment != other.segments[i] {
			return false
		}
	}
	return true
}

func (p Path) String() string {
	return strings.Join(p.segments, "/")
}
