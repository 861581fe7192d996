package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/MrSnakeDoc/personalink/internal/domain"
	"github.com/MrSnakeDoc/personalink/internal/httpserver/deps"
	"github.com/MrSnakeDoc/personalink/internal/logger"
)

type fieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

type feedbackCreated struct {
	ID string `json:"id"`
}

// SubmitFeedback serves POST /api/feedback.
func SubmitFeedback(d deps.Deps) http.HandlerFunc {
	now := d.TimeNow
	if now == nil {
		now = time.Now
	}
	newID := d.NewID
	if newID == nil {
		newID = domain.UUIDv7
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var fb domain.Feedback
		if err := decodeJSON(w, r, &fb); err != nil {
			writeError(w, d.Logger, http.StatusBadRequest, "invalid_input", err.Error(), nil)
			return
		}

		fb.Type = strings.TrimSpace(fb.Type)
		fb.AuthorEmail = strings.TrimSpace(fb.AuthorEmail)
		fb.Place = strings.TrimSpace(fb.Place)
		fb.Content = strings.TrimSpace(fb.Content)

		if err := d.Validate.Struct(fb); err != nil {
			writeError(w, d.Logger, http.StatusBadRequest, "invalid_input", "feedback failed validation", fieldErrors(err))
			return
		}

		id, err := newID()
		if err != nil {
			d.Logger.Error("failed to generate feedback id", logger.Error(err))
			writeError(w, d.Logger, http.StatusInternalServerError, "internal_error", "could not store feedback", nil)
			return
		}
		fb.ID = id
		fb.CommentedAt = now().UTC()

		if err := d.Feedback.SaveFeedback(r.Context(), fb); err != nil {
			d.Logger.Error("failed to save feedback", logger.Error(err))
			writeError(w, d.Logger, http.StatusServiceUnavailable, "storage_unavailable", "could not store feedback", nil)
			return
		}

		d.Logger.Info("feedback received",
			logger.String("id", fb.ID),
			logger.String("type", fb.Type))
		writeJSON(w, d.Logger, http.StatusCreated, feedbackCreated{ID: fb.ID})
	}
}

// ListFeedback serves GET /api/feedback, newest first.
func ListFeedback(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := d.Feedback.ListFeedback(r.Context())
		if err != nil {
			d.Logger.Error("failed to list feedback", logger.Error(err))
			writeError(w, d.Logger, http.StatusServiceUnavailable, "storage_unavailable", "could not read feedback", nil)
			return
		}
		if items == nil {
			items = []domain.Feedback{}
		}
		writeJSON(w, d.Logger, http.StatusOK, items)
	}
}

func fieldErrors(err error) []fieldError {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return []fieldError{{Field: "", Rule: err.Error()}}
	}
	out := make([]fieldError, 0, len(ves))
	for _, fe := range ves {
		out = append(out, fieldError{Field: fe.Field(), Rule: fe.Tag()})
	}
	return out
}
