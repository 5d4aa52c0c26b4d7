package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/serdchef/coskunyayci-backend/internal/models"
)

// ChatSessionStore is the session storage the chatbot works against.
type ChatSessionStore interface {
	Get(ctx context.Context, id string) (*models.ChatSession, error)
	Save(ctx context.Context, session *models.ChatSession) error
	Delete(ctx context.Context, id string) error
}

// ChatSessionRepository keeps chatbot slot state in Redis; abandoned sessions
// expire with the TTL.
type ChatSessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewChatSessionRepository(client *redis.Client, ttl time.Duration) *ChatSessionRepository {
	return &ChatSessionRepository{client: client, ttl: ttl}
}

func (r *ChatSessionRepository) key(id string) string {
	return "chat:session:" + id
}

func (r *ChatSessionRepository) Get(ctx context.Context, id string) (*models.ChatSession, error) {
	data, err := r.client.Get(ctx, r.key(id)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var session models.ChatSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *ChatSessionRepository) Save(ctx context.Context, session *models.ChatSession) error {
	session.UpdatedAt = time.Now()
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(session.ID), data, r.ttl).Err()
}

func (r *ChatSessionRepository) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, r.key(id)).Err()
}
