package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/sbilibin2017/gw-user-auth/internal/services"
	"github.com/stretchr/testify/assert"
)

func TestLoginHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name         string
		reqBody      LoginRequest
		mockSetup    func(m *MockLoginer)
		expectedCode int
		expectedBody map[string]any
		rawBody      string
	}{
		{
			name:    "success",
			reqBody: LoginRequest{Email: "a@x.com", Password: "abcde"},
			mockSetup: func(m *MockLoginer) {
				m.EXPECT().
					Login(gomock.Any(), "a@x.com", "abcde").
					Return("token123", nil)
			},
			expectedCode: 200,
			expectedBody: map[string]any{"success": true, "authtoken": "token123"},
		},
		{
			name:    "incorrect credentials",
			reqBody: LoginRequest{Email: "a@x.com", Password: "wrongpass"},
			mockSetup: func(m *MockLoginer) {
				m.EXPECT().
					Login(gomock.Any(), "a@x.com", "wrongpass").
					Return("", services.ErrInvalidCredentials)
			},
			expectedCode: 400,
			expectedBody: map[string]any{"success": false, "error": "incorrect credentials"},
		},
		{
			name:    "internal server error",
			reqBody: LoginRequest{Email: "a@x.com", Password: "abcde"},
			mockSetup: func(m *MockLoginer) {
				m.EXPECT().
					Login(gomock.Any(), "a@x.com", "abcde").
					Return("", errors.New("database failure"))
			},
			expectedCode: 500,
			expectedBody: map[string]any{"success": false, "error": "internal server error"},
		},
		{
			name:         "invalid json",
			rawBody:      "{invalid json}",
			expectedCode: 400,
			expectedBody: map[string]any{"success": false, "error": "invalid request body"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockLoginer(ctrl)
			if tt.mockSetup != nil {
				tt.mockSetup(mockSvc)
			}

			handler := NewLoginHandler(mockSvc)

			var req *http.Request
			if tt.rawBody != "" {
				req = httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(tt.rawBody))
			} else {
				bodyBytes, _ := json.Marshal(tt.reqBody)
				req = httptest.NewRequest(http.MethodPost, "/login", bytes.NewBuffer(bodyBytes))
			}

			rr := httptest.NewRecorder()
			handler(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)

			var resp map[string]any
			err := json.Unmarshal(rr.Body.Bytes(), &resp)
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedBody, resp)
		})
	}
}

func TestLoginHandler_IdenticalBodiesForUnknownEmailAndWrongPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockLoginer(ctrl)
	handler := NewLoginHandler(mockSvc)

	send := func(email, password string) *httptest.ResponseRecorder {
		mockSvc.EXPECT().
			Login(gomock.Any(), email, password).
			Return("", services.ErrInvalidCredentials)

		bodyBytes, _ := json.Marshal(LoginRequest{Email: email, Password: password})
		req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBuffer(bodyBytes))
		rr := httptest.NewRecorder()
		handler(rr, req)
		return rr
	}

	unknownEmail := send("ghost@example.com", "secret")
	wrongPassword := send("real@example.com", "wrongpass")

	assert.Equal(t, http.StatusBadRequest, unknownEmail.Code)
	assert.Equal(t, unknownEmail.Code, wrongPassword.Code)
	assert.Equal(t, unknownEmail.Body.Bytes(), wrongPassword.Body.Bytes())
}

func TestLoginHandler_ValidationFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockLoginer(ctrl)
	handler := NewLoginHandler(mockSvc)

	bodyBytes, _ := json.Marshal(LoginRequest{Email: "not-an-email", Password: ""})
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBuffer(bodyBytes))
	rr := httptest.NewRecorder()

	handler(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var resp ValidationErrorResponse
	err := json.Unmarshal(rr.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.Len(t, resp.Errors, 2)
	assert.Equal(t, "email", resp.Errors[0].Field)
	assert.Equal(t, "password", resp.Errors[1].Field)
	assert.Equal(t, "password cannot be blank", resp.Errors[1].Message)
}
