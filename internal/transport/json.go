package transport

import (
	"encoding/json"
	"net/http"

	"lezat-lumer/internal/logger"

	"go.uber.org/zap"
)

func WriteJSON(w http.ResponseWriter, r *http.Request, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromCtx(r.Context()).Warn("failed to write response", zap.Error(err))
	}
}

func WriteJSONError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
