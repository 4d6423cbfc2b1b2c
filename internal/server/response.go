package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/pawhome/adoption-api/internal/domain"
)

func jsonResponse(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

type errorBody struct {
	Error string `json:"error"`
}

// errorResponse maps domain failures onto the HTTP error taxonomy. Anything
// unrecognized is a server error; details stay in the logs.
func errorResponse(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		jsonResponse(w, http.StatusBadRequest, errorBody{Error: ve.Error()})
	case errors.Is(err, domain.ErrNotFound):
		jsonResponse(w, http.StatusNotFound, errorBody{Error: "not found"})
	case errors.Is(err, domain.ErrPetReserved):
		jsonResponse(w, http.StatusConflict, errorBody{Error: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		jsonResponse(w, http.StatusConflict, errorBody{Error: err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		jsonResponse(w, http.StatusServiceUnavailable, errorBody{Error: "storage timeout"})
	default:
		jsonResponse(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

func urlParamID(r *http.Request, key string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, key), 10, 64)
	if err != nil {
		return 0, domain.NewValidationError(key, "must be an integer id")
	}
	return id, nil
}
