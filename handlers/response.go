package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/tobibamidele/notekeep/errors"
	"github.com/tobibamidele/notekeep/models"
)

const maxBodyBytes = 1 << 20

const msgInvalidBody = "Invalid request body"

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, models.MessageResponse{Message: message})
}

// writeValidation writes a 400 carrying the message of a ValidationError.
// It reports false when err is not one.
func writeValidation(w http.ResponseWriter, err error) bool {
	var ve errors.ValidationError
	if !errors.As(err, &ve) {
		return false
	}
	writeMessage(w, http.StatusBadRequest, ve.Message)
	return true
}

// decodeJSON reads the request body into dst. An empty body leaves dst as is.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && err != io.EOF {
		writeMessage(w, http.StatusBadRequest, msgInvalidBody)
		return false
	}
	return true
}
