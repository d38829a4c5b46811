package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/mpavic/ripple/internal/domain"
)

// Event types - Client → Server
const (
	EventTypePing = "ping"
)

// Event types - Server → Client
const (
	EventTypePostCreated  = "post.created"
	EventTypePostLiked    = "post.liked"
	EventTypeCommentAdded = "comment.added"
	EventTypePong         = "pong"
	EventTypeError        = "error"
)

// Event is the base envelope for all WebSocket messages.
type Event struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"ts,omitempty"`
}

// --- Server → Client payloads ---

type PostPayload struct {
	domain.Post
}

type LikePayload struct {
	PostID  uuid.UUID      `json:"post_id"`
	ActorID uuid.UUID      `json:"actor_id"`
	Likes   domain.LikeSet `json:"likes"`
}

type CommentPayload struct {
	PostID  uuid.UUID      `json:"post_id"`
	Comment domain.Comment `json:"comment"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewEvent creates a server→client event with the current timestamp.
func NewEvent(eventType string, payload any) (*Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Event{
		Type:      eventType,
		Payload:   data,
		Timestamp: time.Now().Unix(),
	}, nil
}
