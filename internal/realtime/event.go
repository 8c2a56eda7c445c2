// Package realtime fans out group and personal events to connected clients.
//
// The Broker is an explicit in-memory map from topic to subscribers, reset on
// restart. Delivery is at-most-once: a subscriber that is not subscribed at
// publish time, or whose queue is full, never sees the event and must refetch
// through the RPC read path.
package realtime

import "time"

// EventType names the kind of payload an Event carries.
type EventType string

const (
	EventMessage    EventType = "message"
	EventInvitation EventType = "invitation"
	EventAction     EventType = "action"

	// Control replies to client frames.
	EventSubscribed   EventType = "subscribed"
	EventUnsubscribed EventType = "unsubscribed"
	EventError        EventType = "error"
)

// Event is one realtime delivery. GroupID or UserID is the routing key.
type Event struct {
	Type    EventType `json:"type"`
	GroupID string    `json:"groupId,omitempty"`
	UserID  string    `json:"userId,omitempty"`
	Payload any       `json:"payload,omitempty"`
	SentAt  int64     `json:"sentAt"`
}

// NewGroupEvent builds an event routed to a group topic.
func NewGroupEvent(t EventType, groupID string, payload any) Event {
	return Event{Type: t, GroupID: groupID, Payload: payload, SentAt: time.Now().Unix()}
}

// NewUserEvent builds an event routed to a personal topic.
func NewUserEvent(t EventType, userID string, payload any) Event {
	return Event{Type: t, UserID: userID, Payload: payload, SentAt: time.Now().Unix()}
}

// GroupTopic is the topic every viewer of a group subscribes to.
func GroupTopic(groupID string) string { return "group:" + groupID }

// UserTopic is a user's personal topic (invitations).
func UserTopic(userID string) string { return "user:" + userID }

// Topic returns the topic an event is routed to.
func (e Event) Topic() string {
	if e.GroupID != "" {
		return GroupTopic(e.GroupID)
	}
	return UserTopic(e.UserID)
}
