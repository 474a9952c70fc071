package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sbilibin2017/gw-user-auth/internal/validation"
)

// AuthSuccessResponse is returned by createuser and login on success
// swagger:model AuthSuccessResponse
type AuthSuccessResponse struct {
	// Success flag
	// example: true
	Success bool `json:"success"`

	// Signed auth token
	// example: JWT_TOKEN
	AuthToken string `json:"authtoken"`
}

// AuthErrorResponse is returned for business failures
// swagger:model AuthErrorResponse
type AuthErrorResponse struct {
	// Success flag
	// example: false
	Success bool `json:"success"`

	// Error message
	// example: incorrect credentials
	Error string `json:"error"`
}

// ValidationErrorResponse carries the full ordered list of field failures
// swagger:model ValidationErrorResponse
type ValidationErrorResponse struct {
	// Success flag
	// example: false
	Success bool `json:"success"`

	// Field failures in declaration order
	Errors []validation.FieldError `json:"errors"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, AuthErrorResponse{Success: false, Error: message})
}

func writeValidationErrors(w http.ResponseWriter, errs []validation.FieldError) {
	writeJSON(w, http.StatusBadRequest, ValidationErrorResponse{Success: false, Errors: errs})
}
