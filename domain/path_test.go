package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPath_Composition(t *testing.T) {
	req := require.New(t)

	// Given a chat path
	path := ChatPath("c1")
	req.Equal("chats/c1", path.String())
	req.Equal("chats", path.First())
	req.Equal("c1", path.Last())
	req.Equal(2, path.Size())

	// When a child is derived
	child := path.Child(CollectionUsers, "u1")

	// Then the parent path is untouched
	req.Equal("chats/c1", path.String())
	req.Equal("chats/c1/users/u1", child.String())
	req.Equal("chats/c1/users", child.Parent().String())
}

func TestPath_Equality(t *testing.T) {
	req := require.New(t)

	req.True(ChatUserPath("c1", "u1").Equal(ChatUsersPath("c1").Child("u1")))
	req.False(ChatUserPath("c1", "u1").Equal(ChatUserPath("c1", "u2")))
	req.False(ChatPath("c1").Equal(ChatUsersPath("c1")))
}

func TestPath_ParentOfRoot(t *testing.T) {
	req := require.New(t)

	root := NewPath(CollectionChats)
	req.Equal(root, root.Parent())
}

func TestPath_Conventions(t *testing.T) {
	req := require.New(t)

	// Path layouts are wire contracts shared with existing deployments.
	req.Equal("chats/c1/meta", ChatMetaPath("c1").String())
	req.Equal("chats/c1/messages/m1", ChatMessagePath("c1", "m1").String())
	req.Equal("users/u1/messages", UserInboxPath("u1").String())
}
