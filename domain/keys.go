package domain

// Reserved wire keys and collection names. These must stay identical to the
// values used by existing deployments, so never rename them.
const (
	KeyFrom      = "from"
	KeyType      = "type"
	KeyDate      = "date"
	KeyBody      = "body"
	KeyName      = "name"
	KeyImageURL  = "image-url"
	KeyCreated   = "created"
	KeyData      = "data"
	KeyRole      = "role"
	KeyStatus    = "status"
	KeyMessageID = "messageId"
	KeyAction    = "action"
	KeyID        = "id"
)

const (
	CollectionChats    = "chats"
	CollectionUsers    = "users"
	CollectionMessages = "messages"
	DocumentMeta       = "meta"
)

func ChatPath(chatID string) Path {
	return NewPath(CollectionChats, chatID)
}

func ChatMetaPath(chatID string) Path {
	return ChatPath(chatID).Child(DocumentMeta)
}

func ChatUsersPath(chatID string) Path {
	return ChatPath(chatID).Child(CollectionUsers)
}

func ChatUserPath(chatID, userID string) Path {
	return ChatUsersPath(chatID).Child(userID)
}

func ChatMessagesPath(chatID string) Path {
	return ChatPath(chatID).Child(CollectionMessages)
}

func ChatMessagePath(chatID, messageID string) Path {
	return ChatMessagesPath(chatID).Child(messageID)
}

// UserInboxPath addresses the per-user inbox where invitations and other
// direct sendables are appended.
func UserInboxPath(userID string) Path {
	return NewPath(CollectionUsers, userID, CollectionMessages)
}
