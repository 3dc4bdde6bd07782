package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hugmug/claimkit/pkg/logger"
)

// JSONResponse is the envelope of every JSON body.
type JSONResponse struct {
	Data  any          `json:"data,omitempty"`
	Error *ErrorDetail `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body JSONResponse) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, JSONResponse{Data: data})
}

// writeError logs err and renders its public form. Server-side failures are
// logged at error level, client mistakes at debug.
func writeError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	he := toHTTPError(err)
	level := slog.LevelDebug
	if he.Status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	log.Log(r.Context(), level, "request failed",
		slog.String("code", he.Code),
		slog.Int("status", he.Status),
		logger.Error(err),
	)
	writeJSON(w, he.Status, JSONResponse{Error: &ErrorDetail{Code: he.Code, Message: he.Message}})
}
