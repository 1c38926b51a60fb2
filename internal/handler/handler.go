package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/chandan-mishra846/ecommerce-backend/internal/middleware"
	"github.com/chandan-mishra846/ecommerce-backend/internal/model"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// maxBodyBytes bounds request bodies, webhooks included.
const maxBodyBytes = 1 << 20

// envelope is a success payload; writeSuccess adds "success": true.
type envelope map[string]any

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeSuccess(w http.ResponseWriter, status int, payload envelope) {
	if payload == nil {
		payload = envelope{}
	}
	payload["success"] = true
	writeJSON(w, status, payload)
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	logger.Warn().Str("error", message).Str("code", code).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Success: false, Message: message, Code: code})
}

// statusFor maps a domain error kind to an HTTP status.
func statusFor(kind model.ErrorKind) int {
	switch kind {
	case model.KindNotFound:
		return http.StatusNotFound
	case model.KindValidation, model.KindConflict:
		return http.StatusBadRequest
	case model.KindAuthFailure:
		return http.StatusUnauthorized
	case model.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError maps a service error to the response. Domain errors
// keep their message; anything else is reported as a generic 500.
func writeServiceError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		status := statusFor(domainErr.Kind)
		if status >= http.StatusInternalServerError {
			logger.Error().Err(err).Str("code", domainErr.Code).Msg("upstream failure")
		}
		writeError(w, status, domainErr.Code, domainErr.Message, logger)
		return
	}

	logger.Error().Err(err).Msg("internal error")
	writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "Internal server error", logger)
}

var errInvalidBody = model.NewDomainError(model.KindValidation, model.ErrCodeInvalidJSON, "Invalid request body")

// readJSON reads the body into out.
func readJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(out); err != nil {
		return errInvalidBody
	}
	return nil
}

// decodeJSON reads the body into out and validates its struct tags.
func decodeJSON(r *http.Request, out any, v *validatorv10.Validate) error {
	if err := readJSON(r, out); err != nil {
		return err
	}
	if err := v.Struct(out); err != nil {
		return validationError(err)
	}
	return nil
}

// validationError flattens validator output into one message.
func validationError(err error) error {
	var ve validatorv10.ValidationErrors
	if !errors.As(err, &ve) {
		return model.NewDomainError(model.KindValidation, model.ErrCodeValidationFailed, err.Error())
	}
	fields := make([]string, 0, len(ve))
	for _, fe := range ve {
		fields = append(fields, fe.Field()+" failed on "+fe.Tag())
	}
	return model.NewDomainError(model.KindValidation, model.ErrCodeValidationFailed,
		"Invalid request: "+strings.Join(fields, ", "))
}

// newValidator returns a validator that reports JSON field names.
func newValidator() *validatorv10.Validate {
	v := validatorv10.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// principal returns the caller or writes a 401.
func principal(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) (model.Principal, bool) {
	p, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		writeServiceError(w, model.ErrUnauthorised, logger)
	}
	return p, ok
}
