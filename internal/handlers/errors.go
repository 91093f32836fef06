package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"propcare/internal/service"
	"propcare/internal/utils"
)

// writeError maps service errors onto the response envelope. Anything it does
// not recognise is logged and reported as a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		utils.FieldErrors(w, http.StatusBadRequest, "validation failed", ve.Fields)
	case errors.Is(err, utils.ErrInvalidJSON):
		utils.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		utils.Error(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrForbidden):
		utils.Error(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrNotFound):
		utils.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrConflict):
		utils.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidAssignment):
		utils.Error(w, http.StatusUnprocessableEntity, err.Error())
	default:
		hlog.FromRequest(r).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		utils.Error(w, http.StatusInternalServerError, "internal error")
	}
}
