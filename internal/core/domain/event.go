package domain

import "time"

// AuthEventType classifies an audit record.
type AuthEventType string

const (
	EventSignup         AuthEventType = "signup"
	EventLogin          AuthEventType = "login"
	EventLoginFailed    AuthEventType = "login_failed"
	EventAccountDeleted AuthEventType = "account_deleted"
)

// AuthEvent is an append-only audit record of an authentication action.
type AuthEvent struct {
	ID         string        `json:"id" bson:"_id"`
	Type       AuthEventType `json:"type" bson:"type"`
	Email      string        `json:"email,omitempty" bson:"email,omitempty"`
	UserID     string        `json:"userId,omitempty" bson:"user_id,omitempty"`
	ActorID    string        `json:"actorId,omitempty" bson:"actor_id,omitempty"`
	Reason     string        `json:"reason,omitempty" bson:"reason,omitempty"`
	OccurredAt time.Time     `json:"occurredAt" bson:"occurred_at"`
}

// ShardKey picks the value that keeps one account's events ordered.
func (e AuthEvent) ShardKey() string {
	if e.Email != "" {
		return e.Email
	}
	return e.UserID
}
