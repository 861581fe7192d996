package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/personalink/internal/httpserver/deps"
	"github.com/MrSnakeDoc/personalink/internal/logger"
)

// ExpireNewFlags asks the maintenance job to run an expiry pass now.
func ExpireNewFlags(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.ExpireTrigger == nil {
			writeError(w, d.Logger, http.StatusServiceUnavailable, "maintenance_disabled", "new-flag expiry is not running", nil)
			return
		}

		select {
		case d.ExpireTrigger <- struct{}{}:
			d.Logger.Info("manual new-flag expiry triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, d.Logger, http.StatusAccepted, map[string]string{"status": "triggered"})
		default:
			d.Logger.Warn("new-flag expiry already pending",
				logger.String("remote_ip", r.RemoteAddr))
			writeError(w, d.Logger, http.StatusTooManyRequests, "already_pending", "expiry already pending, please wait", nil)
		}
	}
}
