package ws

import (
	"log"

	"github.com/google/uuid"
	"github.com/mpavic/ripple/internal/domain"
)

// FeedNotifier implements service.Notifier using the WebSocket Hub.
type FeedNotifier struct {
	hub *Hub
}

func NewFeedNotifier(hub *Hub) *FeedNotifier {
	return &FeedNotifier{hub: hub}
}

func (n *FeedNotifier) PostCreated(post *domain.Post) {
	evt, err := NewEvent(EventTypePostCreated, PostPayload{Post: *post})
	if err != nil {
		log.Printf("ws notifier: marshal error: %v", err)
		return
	}
	n.hub.Broadcast(evt, nil)
}

func (n *FeedNotifier) PostLiked(post *domain.Post, actorID uuid.UUID) {
	evt, err := NewEvent(EventTypePostLiked, LikePayload{
		PostID:  post.ID,
		ActorID: actorID,
		Likes:   post.Likes,
	})
	if err != nil {
		log.Printf("ws notifier: marshal error: %v", err)
		return
	}
	n.hub.Broadcast(evt, &actorID)
}

func (n *FeedNotifier) CommentAdded(post *domain.Post, comment *domain.Comment) {
	evt, err := NewEvent(EventTypeCommentAdded, CommentPayload{
		PostID:  post.ID,
		Comment: *comment,
	})
	if err != nil {
		log.Printf("ws notifier: marshal error: %v", err)
		return
	}
	n.hub.Broadcast(evt, nil)
}
