package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/feirahub/profile-service/internal/api"
	"github.com/feirahub/profile-service/internal/api/auth"
	"github.com/feirahub/profile-service/internal/types"
)

type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*types.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Profile), args.Error(1)
}

func (m *MockProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, params types.UpdateProfileParams) error {
	args := m.Called(ctx, userID, params)
	return args.Error(0)
}

func (m *MockProfileService) UpdateAvatar(ctx context.Context, userID uuid.UUID, link string) error {
	args := m.Called(ctx, userID, link)
	return args.Error(0)
}

func (m *MockProfileService) UpdateCover(ctx context.Context, userID uuid.UUID, link string) error {
	args := m.Called(ctx, userID, link)
	return args.Error(0)
}

func setupProfileHandlerTest() (*HandlerImpl, *MockProfileService) {
	mockService := new(MockProfileService)
	handler := NewHandlerImpl(mockService, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return handler, mockService
}

func authedRequest(method, target string, body string, userID uuid.UUID) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	ctx := context.WithValue(req.Context(), auth.UserIDKey, userID.String())
	return req.WithContext(ctx)
}

func TestHandlerImpl_GetProfile(t *testing.T) {
	userID := uuid.New()

	t.Run("no session yields 401", func(t *testing.T) {
		handler, mockService := setupProfileHandlerTest()
		rec := httptest.NewRecorder()

		handler.GetProfile(rec, httptest.NewRequest(http.MethodGet, "/profile", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		mockService.AssertNotCalled(t, "GetProfile", mock.Anything, mock.Anything)
	})

	t.Run("success", func(t *testing.T) {
		handler, mockService := setupProfileHandlerTest()
		username := "ana"
		mockService.On("GetProfile", mock.Anything, userID).
			Return(&types.Profile{ID: userID, Username: &username}, nil).Once()

		rec := httptest.NewRecorder()
		handler.GetProfile(rec, authedRequest(http.MethodGet, "/profile", "", userID))

		require.Equal(t, http.StatusOK, rec.Code)
		var got types.Profile
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, userID, got.ID)
		mockService.AssertExpectations(t)
	})

	t.Run("missing profile yields 404", func(t *testing.T) {
		handler, mockService := setupProfileHandlerTest()
		mockService.On("GetProfile", mock.Anything, userID).
			Return(nil, fmt.Errorf("profile not found: %w", api.ErrNotFound)).Once()

		rec := httptest.NewRecorder()
		handler.GetProfile(rec, authedRequest(http.MethodGet, "/profile", "", userID))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		mockService.AssertExpectations(t)
	})
}

func TestHandlerImpl_UpdateProfile(t *testing.T) {
	userID := uuid.New()
	body := `{"username":"ana_nova","full_name":"Ana Souza","phone":"+55 11 98888-1111"}`

	t.Run("no session yields 401", func(t *testing.T) {
		handler, mockService := setupProfileHandlerTest()
		req := httptest.NewRequest(http.MethodPut, "/profile", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		rec := httptest.NewRecorder()
		handler.UpdateProfile(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		mockService.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("success", func(t *testing.T) {
		handler, mockService := setupProfileHandlerTest()
		mockService.On("UpdateProfile", mock.Anything, userID, mock.MatchedBy(func(p types.UpdateProfileParams) bool {
			return p.Username == "ana_nova" && p.Phone == "+55 11 98888-1111"
		})).Return(nil).Once()

		rec := httptest.NewRecorder()
		handler.UpdateProfile(rec, authedRequest(http.MethodPut, "/profile", body, userID))

		assert.Equal(t, http.StatusOK, rec.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("cooldown denial yields 409", func(t *testing.T) {
		handler, mockService := setupProfileHandlerTest()
		mockService.On("UpdateProfile", mock.Anything, userID, mock.Anything).
			Return(fmt.Errorf("restricted field update rejected: %w", api.ErrUpdateWindow)).Once()

		rec := httptest.NewRecorder()
		handler.UpdateProfile(rec, authedRequest(http.MethodPut, "/profile", body, userID))

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "30 days")
		mockService.AssertExpectations(t)
	})

	t.Run("malformed body yields 400", func(t *testing.T) {
		handler, mockService := setupProfileHandlerTest()

		rec := httptest.NewRecorder()
		handler.UpdateProfile(rec, authedRequest(http.MethodPut, "/profile", `{"username":`, userID))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockService.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestHandlerImpl_UpdateAvatar(t *testing.T) {
	userID := uuid.New()

	t.Run("success", func(t *testing.T) {
		handler, mockService := setupProfileHandlerTest()
		mockService.On("UpdateAvatar", mock.Anything, userID, "https://example.com/a.png").Return(nil).Once()

		rec := httptest.NewRecorder()
		handler.UpdateAvatar(rec, authedRequest(http.MethodPatch, "/profile/avatar",
			`{"url":"https://example.com/a.png"}`, userID))

		assert.Equal(t, http.StatusOK, rec.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("no session yields 401", func(t *testing.T) {
		handler, mockService := setupProfileHandlerTest()

		req := httptest.NewRequest(http.MethodPatch, "/profile/avatar", strings.NewReader(`{"url":"x"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		handler.UpdateAvatar(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		mockService.AssertNotCalled(t, "UpdateAvatar", mock.Anything, mock.Anything, mock.Anything)
	})
}
