package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"labqms/internal/bootstrap/logging"
	"labqms/internal/errs"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// writeError maps the domain fault kind to a response code. Internal errors
// are logged server-side and returned opaque.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := errs.Kind(err)

	status := http.StatusInternalServerError
	switch kind {
	case "validation":
		status = http.StatusBadRequest
	case "not_found":
		status = http.StatusNotFound
	case "state_transition", "sequence":
		status = http.StatusConflict
	case "not_implemented":
		status = http.StatusNotImplemented
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		logging.Error(r.Context(), "request failed",
			slog.String("path", r.URL.Path),
			slog.Any("err", errs.Loggable(err)),
		)
		message = "internal error"
	}

	writeJSON(w, status, errorBody{Error: message, Kind: kind})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body: " + err.Error(), Kind: "validation"})
		return false
	}
	return true
}
