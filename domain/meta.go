package domain

import (
	"reflect"
	"time"
)

// Meta is the chat-level descriptive state. The authoritative copy lives
// in the backend; in-memory snapshots are only ever updated from backend
// change notifications, never optimistically.
type Meta struct {
	Name     string
	ImageURL string
	Created  time.Time
	Data     map[string]any
}

func (m Meta) Equal(other Meta) bool {
	return m.Name == other.Name &&
		m.ImageURL == other.ImageURL &&
		m.Created.Equal(other.Created) &&
		m.DataEqual(other.Data)
}

// DataEqual compares the custom data mapping by value, including nested
// structures.
func (m Meta) DataEqual(data map[string]any) bool {
	if len(m.Data) == 0 && len(data) == 0 {
		return true
	}
	return reflect.DeepEqual(m.Data, data)
}

// Fields returns the wire form of the metadata document. The created
// timestamp is carried as unix milliseconds.
func (m Meta) Fields() map[string]any {
	fields := map[string]any{}
	if m.Name != "" {
		fields[KeyName] = m.Name
	}
	if m.ImageURL != "" {
		fields[KeyImageURL] = m.ImageURL
	}
	if !m.Created.IsZero() {
		fields[KeyCreated] = m.Created.UnixMilli()
	}
	if m.Data != nil {
		fields[KeyData] = m.Data
	}
	return fields
}

// MetaFromFields rebuilds a Meta snapshot from the metadata document.
// Fields with an unexpected shape are skipped so one malformed value
// cannot abort reconciliation of the rest.
func MetaFromFields(fields map[string]any) Meta {
	var meta Meta
	if name, ok := asString(fields[KeyName]); ok {
		meta.Name = name
	}
	if imageURL, ok := asString(fields[KeyImageURL]); ok {
		meta.ImageURL = imageURL
	}
	if created, ok := asInt64(fields[KeyCreated]); ok {
		meta.Created = time.UnixMilli(created).UTC()
	}
	if data, ok := asMap(fields[KeyData]); ok {
		meta.Data = data
	}
	return meta
}
