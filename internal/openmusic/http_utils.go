package openmusic

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	kind := "fail"
	if status >= http.StatusInternalServerError {
		kind = "error"
	}
	writeJSON(w, status, map[string]string{
		"status":  kind,
		"message": msg,
	})
}

func writeSuccess(w http.ResponseWriter, status int, message string, data any) {
	body := map[string]any{"status": "success"}
	if message != "" {
		body["message"] = message
	}
	if data != nil {
		body["data"] = data
	}
	writeJSON(w, status, body)
}

// writeServiceError maps a classified error to its HTTP status. Unclassified
// errors are logged and reported generically.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	var nf *notFoundError
	if errors.As(err, &nf) {
		writeError(w, http.StatusNotFound, nf.msg)
		return
	}
	var az *authorizationError
	if errors.As(err, &az) {
		writeError(w, http.StatusForbidden, az.msg)
		return
	}
	var inv *invariantError
	if errors.As(err, &inv) {
		writeError(w, http.StatusBadRequest, inv.msg)
		return
	}
	log.Printf("openmusic: %s: %v", op, err)
	writeError(w, http.StatusInternalServerError, "internal server error")
}
