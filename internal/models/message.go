package models

// Message is a group chat message. Append-only.
type Message struct {
	ID        string
	GroupID   string
	SenderID  string
	Sender    UserRef
	Content   string
	CreatedAt int64
}
