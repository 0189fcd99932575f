package assign

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/vpn-dashboard/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) AssignOne(ctx context.Context, userID int64) (*models.Link, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Link), args.Error(1)
}

func (m *MockService) AssignMany(ctx context.Context, userID int64, count int) ([]*models.Link, error) {
	args := m.Called(ctx, userID, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Link), args.Error(1)
}

type envelope struct {
	Status string `json:"status"`
	Error  string `json:"error"`
	Data   Result `json:"data"`
}

func TestAssignHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	owner := int64(42)
	one := &models.Link{ID: 1, LinkAddress: "vless://a", UserID: &owner}
	two := &models.Link{ID: 2, LinkAddress: "vless://b", UserID: &owner}

	tests := []struct {
		name           string
		userID         string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedError  string
		assigned       bool
		links          int
	}{
		{
			name:   "без тела выдаётся одна ссылка",
			userID: "42",
			setupMock: func(m *MockService) {
				m.On("AssignOne", mock.Anything, int64(42)).Return(one, nil).Once()
			},
			expectedStatus: http.StatusOK,
			assigned:       true,
			links:          1,
		},
		{
			name:   "пустой объект выдаёт одну ссылку",
			userID: "42",
			body:   `{}`,
			setupMock: func(m *MockService) {
				m.On("AssignOne", mock.Anything, int64(42)).Return(one, nil).Once()
			},
			expectedStatus: http.StatusOK,
			assigned:       true,
			links:          1,
		},
		{
			name:   "выдача нескольких ссылок",
			userID: "42",
			body:   `{"count":2}`,
			setupMock: func(m *MockService) {
				m.On("AssignMany", mock.Anything, int64(42), 2).Return([]*models.Link{one, two}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			assigned:       true,
			links:          2,
		},
		{
			name:   "свободных ссылок нет",
			userID: "42",
			setupMock: func(m *MockService) {
				m.On("AssignOne", mock.Anything, int64(42)).Return(nil, nil).Once()
			},
			expectedStatus: http.StatusOK,
			assigned:       false,
		},
		{
			name:   "свободных ссылок меньше запрошенного",
			userID: "42",
			body:   `{"count":5}`,
			setupMock: func(m *MockService) {
				m.On("AssignMany", mock.Anything, int64(42), 5).Return(nil, nil).Once()
			},
			expectedStatus: http.StatusOK,
			assigned:       false,
		},
		{
			name:           "count вне диапазона",
			userID:         "42",
			body:           `{"count":0}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "field Count must be at least 1",
		},
		{
			name:           "некорректный user_id",
			userID:         "abc",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "invalid user_id",
		},
		{
			name:   "неизвестный пользователь",
			userID: "7",
			setupMock: func(m *MockService) {
				m.On("AssignOne", mock.Anything, int64(7)).Return(nil, models.ErrUnknownUser).Once()
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "unknown user",
		},
		{
			name:   "ошибка хранилища",
			userID: "42",
			body:   `{"count":3}`,
			setupMock: func(m *MockService) {
				m.On("AssignMany", mock.Anything, int64(42), 3).Return(nil, errors.New("db down")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "internal error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)
			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/vpn/users/"+tt.userID+"/links", bytes.NewBufferString(tt.body))
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("user_id", tt.userID)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			require.Equal(t, tt.expectedStatus, w.Code)
			var resp envelope
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			if tt.expectedError != "" {
				assert.Contains(t, resp.Error, tt.expectedError)
			} else {
				assert.Equal(t, tt.assigned, resp.Data.Assigned)
				assert.Len(t, resp.Data.Links, tt.links)
			}
			mockService.AssertExpectations(t)
		})
	}
}
