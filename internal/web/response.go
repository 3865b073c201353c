package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"CommunityDirectory/internal/core/domain"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/hlog"
)

// envelope is the body shape every JSON endpoint answers with.
type envelope map[string]any

var validate = newValidator()

// newValidator reports field errors under their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return domain.ValidPhone(fl.Field().String())
	})
	return v
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeOK(w http.ResponseWriter, fields envelope) {
	body := envelope{"success": true}
	for k, v := range fields {
		body[k] = v
	}
	writeJSON(w, http.StatusOK, body)
}

func writeMessage(w http.ResponseWriter, status int, success bool, message string) {
	writeJSON(w, status, envelope{"success": success, "message": message})
}

// writeError maps a service error onto a status and a client-safe message.
// Unknown errors are logged and reported as a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeMessage(w, http.StatusBadRequest, false, verr.Message)
	case errors.Is(err, domain.ErrInvalidOrExpiredCode):
		writeMessage(w, http.StatusBadRequest, false, "Invalid or expired OTP.")
	case errors.Is(err, domain.ErrAccountExists):
		writeMessage(w, http.StatusBadRequest, false, "An account with this email or phone already exists. Please login.")
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeMessage(w, http.StatusUnauthorized, false, "Invalid credentials.")
	case errors.Is(err, domain.ErrNotAuthenticated):
		writeMessage(w, http.StatusUnauthorized, false, "Not authenticated.")
	case errors.Is(err, domain.ErrForbidden):
		writeMessage(w, http.StatusForbidden, false, "Access denied.")
	case errors.Is(err, domain.ErrVerificationRequired):
		writeMessage(w, http.StatusForbidden, false, "Please verify your contact details first.")
	case errors.Is(err, domain.ErrNotFound):
		writeMessage(w, http.StatusNotFound, false, "User not found.")
	case errors.Is(err, domain.ErrRateLimited):
		writeMessage(w, http.StatusTooManyRequests, false, "Too many requests. Please try again later.")
	default:
		hlog.FromRequest(r).Error().Err(err).Msg("Request failed")
		writeMessage(w, http.StatusInternalServerError, false, "Server error.")
	}
}

// decodeJSON reads the body into dst and runs struct validation.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(dst); err != nil {
		return domain.NewValidationError("Invalid request body.")
	}
	if err := validate.Struct(dst); err != nil {
		return validationMessage(err)
	}
	return nil
}

func validationMessage(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return domain.NewValidationError("Invalid request.")
	}
	names := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		names = append(names, fe.Field())
	}
	return domain.NewValidationError("Invalid or missing fields: " + strings.Join(names, ", "))
}
