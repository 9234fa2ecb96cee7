package helpers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
)

const maxBodyBytes = 1 << 20

// DecodeJSON decodes the request body into dest (with DisallowUnknownFields). On failure it
// writes a 400 JSON error and returns false. Field validation is left to the services.
// Callers should return immediately when DecodeJSON returns false.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dest any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// PathID reads the path value name and checks that it is a UUID. On failure it writes a
// 400 error naming the parameter and returns false.
func PathID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	raw := r.PathValue(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		WriteFieldError(w, name, "must be a valid id")
		return "", false
	}
	return id.String(), true
}
