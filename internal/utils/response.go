package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/iam-sarthakdev/MockMate-AI/internal/models"
)

func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// Error writes the standard error envelope used by every endpoint.
func Error(w http.ResponseWriter, statusCode int, code, message string) {
	JSON(w, statusCode, map[string]any{
		"success": false,
		"error":   models.ErrorResponse{Code: code, Message: message},
	})
}

// Failure writes err using the status and code of its failure kind.
func Failure(w http.ResponseWriter, err error) {
	kind := models.FailureKindOf(err)
	Error(w, kind.HTTPStatus(), string(kind), FailureMessage(err))
}

// FailureMessage returns the client facing message of err, without its cause.
func FailureMessage(err error) string {
	var f *models.Failure
	if errors.As(err, &f) {
		return f.Message
	}
	return err.Error()
}
