package helpers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"eventhub/internal/domain"
	"eventhub/internal/validation"
)

// maxBodyBytes caps request bodies read by Decode.
const maxBodyBytes = 1 << 20

// Validator is implemented by request DTOs that support validation.
// Validate returns a slice of error messages; nil or empty means valid.
type Validator interface {
	Validate() []string
}

// Decode decodes the request body into dest with DisallowUnknownFields.
// On failure it writes a 400 JSON error and returns false.
func Decode(w http.ResponseWriter, r *http.Request, dest any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		msg := err.Error()
		if errors.Is(err, io.EOF) {
			msg = "request body is empty"
		}
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, msg)
		return false
	}
	return true
}

// DecodeAndValidate decodes like Decode, then checks dest's `validate` struct
// tags and, if dest implements Validator, runs Validate(). On failure it writes
// a 400 JSON error and returns false. Callers should return immediately when
// DecodeAndValidate returns false.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, dest any) bool {
	if !Decode(w, r, dest) {
		return false
	}
	if err := validation.Struct(dest); err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			WriteValidationError(w, verr)
		} else {
			WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		}
		return false
	}
	if v, ok := dest.(Validator); ok {
		if errs := v.Validate(); len(errs) > 0 {
			WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, strings.Join(errs, "; "))
			return false
		}
	}
	return true
}
