package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-user-auth/internal/middlewares"
	"github.com/sbilibin2017/gw-user-auth/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestGetUserHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()

	t.Run("success without password field", func(t *testing.T) {
		mockSvc := NewMockUserGetter(ctrl)
		mockSvc.EXPECT().
			GetUser(gomock.Any(), userID).
			Return(&models.UserDB{
				UserID:       userID,
				Name:         "Al",
				Email:        "a@x.com",
				PasswordHash: "$2a$10$somethingsecret",
				CreatedAt:    time.Now(),
			}, nil)

		handler := NewGetUserHandler(mockSvc)

		req := httptest.NewRequest(http.MethodPost, "/getuser", nil)
		req = req.WithContext(middlewares.ContextWithUserID(req.Context(), userID))
		rr := httptest.NewRecorder()

		handler(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp map[string]any
		err := json.Unmarshal(rr.Body.Bytes(), &resp)
		assert.NoError(t, err)
		assert.Equal(t, userID.String(), resp["id"])
		assert.Equal(t, "Al", resp["name"])
		assert.Equal(t, "a@x.com", resp["email"])
		assert.NotContains(t, rr.Body.String(), "password")
		assert.NotContains(t, rr.Body.String(), "$2a$10$")
	})

	t.Run("user id missing from context", func(t *testing.T) {
		mockSvc := NewMockUserGetter(ctrl)
		handler := NewGetUserHandler(mockSvc)

		req := httptest.NewRequest(http.MethodPost, "/getuser", nil)
		rr := httptest.NewRecorder()

		handler(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("record gone returns empty 200", func(t *testing.T) {
		mockSvc := NewMockUserGetter(ctrl)
		mockSvc.EXPECT().
			GetUser(gomock.Any(), userID).
			Return(nil, nil)

		handler := NewGetUserHandler(mockSvc)

		req := httptest.NewRequest(http.MethodPost, "/getuser", nil)
		req = req.WithContext(middlewares.ContextWithUserID(req.Context(), userID))
		rr := httptest.NewRecorder()

		handler(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Empty(t, rr.Body.Bytes())
	})

	t.Run("internal server error", func(t *testing.T) {
		mockSvc := NewMockUserGetter(ctrl)
		mockSvc.EXPECT().
			GetUser(gomock.Any(), userID).
			Return(nil, errors.New("database failure"))

		handler := NewGetUserHandler(mockSvc)

		req := httptest.NewRequest(http.MethodPost, "/getuser", nil)
		req = req.WithContext(middlewares.ContextWithUserID(req.Context(), userID))
		rr := httptest.NewRecorder()

		handler(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)

		var resp map[string]any
		err := json.Unmarshal(rr.Body.Bytes(), &resp)
		assert.NoError(t, err)
		assert.Equal(t, map[string]any{"success": false, "error": "internal server error"}, resp)
	})
}
