package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MrSnakeDoc/personalink/internal/domain"
)

// SaveFeedback pushes a feedback entry onto the feedback list
func (s *Store) SaveFeedback(ctx context.Context, fb domain.Feedback) error {
	data, err := json.Marshal(fb)
	if err != nil {
		return fmt.Errorf("failed to marshal feedback: %w", err)
	}
	if err := s.client.LPush(ctx, KeyFeedback, data).Err(); err != nil {
		return fmt.Errorf("failed to save feedback: %w", err)
	}
	return nil
}

// ListFeedback returns stored feedback, newest first
func (s *Store) ListFeedback(ctx context.Context) ([]domain.Feedback, error) {
	values, err := s.client.LRange(ctx, KeyFeedback, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}

	out := make([]domain.Feedback, 0, len(values))
	for _, v := range values {
		var fb domain.Feedback
		if err := json.Unmarshal([]byte(v), &fb); err != nil {
			continue
		}
		out = append(out, fb)
	}
	return out, nil
}
