package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tutorlane/slotengine/internal/model"
	"go.uber.org/zap"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps the domain error taxonomy onto HTTP. A slot-taken
// conflict (409 SLOT_TAKEN) is always distinguishable from a validation
// failure (400) and from an invalid lifecycle transition (409
// INVALID_STATE), so clients can tell "reselect a time" from "fix this
// field".
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var validationErr *model.ValidationError
	var stateErr *model.InvalidStateError

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: validationErr.Error(), Code: "VALIDATION"})
	case errors.Is(err, model.ErrSlotTaken):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "slot taken, please pick another time", Code: "SLOT_TAKEN"})
	case errors.As(err, &stateErr):
		writeJSON(w, http.StatusConflict, errorResponse{Error: stateErr.Error(), Code: "INVALID_STATE"})
	case errors.Is(err, model.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found", Code: "NOT_FOUND"})
	default:
		logger.Error("Request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error", Code: "INTERNAL"})
	}
}
