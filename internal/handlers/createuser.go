package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sbilibin2017/gw-user-auth/internal/logger"
	"github.com/sbilibin2017/gw-user-auth/internal/services"
	"github.com/sbilibin2017/gw-user-auth/internal/validation"
)

// Registerer defines the interface that the service must implement.
type Registerer interface {
	Register(ctx context.Context, name, email, password string) (string, error)
}

// CreateUserRequest represents the JSON body for user registration
// swagger:model CreateUserRequest
type CreateUserRequest struct {
	// Display name
	// required: true
	// example: John Doe
	Name string `json:"name"`

	// Email
	// required: true
	// example: john@example.com
	Email string `json:"email"`

	// Password
	// required: true
	// example: secret123
	Password string `json:"password"`

	// Password confirmation, must match password
	// required: true
	// example: secret123
	CPassword string `json:"cpassword"`
}

// NewCreateUserHandler returns an HTTP handler for user registration.
// @Summary Register a new user
// @Description Validates the payload, creates a user with a unique email and returns a signed auth token.
// @Tags auth
// @Accept json
// @Produce json
// @Param createUserRequest body handlers.CreateUserRequest true "User registration request"
// @Success 201 {object} handlers.AuthSuccessResponse "User created, token issued"
// @Failure 400 {object} handlers.AuthErrorResponse "Validation failure or duplicate email"
// @Failure 500 {object} handlers.AuthErrorResponse "Internal server error"
// @Router /createuser [post]
func NewCreateUserHandler(svc Registerer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		form := validation.Form{
			"name":      req.Name,
			"email":     req.Email,
			"password":  req.Password,
			"cpassword": req.CPassword,
		}
		errs := validation.Apply(form,
			validation.Length("name", "name must be between 2 and 25 characters", 2, 25),
			validation.Email("email", "enter a valid email"),
			validation.Length("password", "password must be between 5 and 20 characters", 5, 20),
			validation.EqualsField("cpassword", "password", "passwords do not match"),
		)
		if len(errs) > 0 {
			writeValidationErrors(w, errs)
			return
		}

		token, err := svc.Register(r.Context(), req.Name, req.Email, req.Password)
		if err != nil {
			if errors.Is(err, services.ErrEmailAlreadyExists) {
				writeError(w, http.StatusBadRequest, services.ErrEmailAlreadyExists.Error())
				return
			}
			logger.Log.Errorw("internal server error", "err", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(w, http.StatusCreated, AuthSuccessResponse{
			Success:   true,
			AuthToken: token,
		})
	}
}
