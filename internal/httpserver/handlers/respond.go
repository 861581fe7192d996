package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/MrSnakeDoc/personalink/internal/errx"
	"github.com/MrSnakeDoc/personalink/internal/logger"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, log logger.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug("failed to write response", logger.Error(err))
	}
}

func writeError(w http.ResponseWriter, log logger.Logger, status int, code, message string, details any) {
	writeJSON(w, log, status, errorResponse{Error: code, Message: message, Details: details})
}

// writeKindError maps a pipeline error to its HTTP status and logs it.
func writeKindError(w http.ResponseWriter, log logger.Logger, err error) {
	kind := errx.KindOf(err)
	status := statusForKind(kind)
	if status >= http.StatusInternalServerError {
		log.Error("request failed",
			logger.String("kind", kind.String()),
			logger.String("op", errx.OpOf(err)),
			logger.Error(err))
	}
	writeError(w, log, status, codeForKind(kind), err.Error(), nil)
}

func statusForKind(kind errx.Kind) int {
	switch kind {
	case errx.Validation:
		return http.StatusBadRequest
	case errx.UpstreamContract:
		return http.StatusBadGateway
	case errx.StorageUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func codeForKind(kind errx.Kind) string {
	switch kind {
	case errx.Validation:
		return "invalid_input"
	case errx.UpstreamContract:
		return "upstream_contract"
	case errx.StorageUnavailable:
		return "storage_unavailable"
	case errx.PersistenceFailed:
		return "persistence_failed"
	default:
		return "internal_error"
	}
}

// decodeJSON reads a single JSON object from the request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)

	if err := dec.Decode(v); err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		var maxErr *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxErr):
			return fmt.Errorf("malformed JSON at position %d", syntaxErr.Offset)
		case errors.As(err, &typeErr):
			return fmt.Errorf("invalid value for field %q", typeErr.Field)
		case errors.As(err, &maxErr):
			return fmt.Errorf("request body too large (max %d bytes)", maxBodyBytes)
		case errors.Is(err, io.EOF):
			return errors.New("request body is empty")
		default:
			return fmt.Errorf("failed to decode JSON: %w", err)
		}
	}

	if dec.More() {
		return errors.New("request body contains multiple JSON objects")
	}
	return nil
}
