package notification_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/fundsio/funds/internal/auth"
	notificationhttp "github.com/fundsio/funds/internal/http/notification"
	"github.com/fundsio/funds/internal/notification"
	"github.com/fundsio/funds/internal/user"
)

func serve(t *testing.T, setupMock func(repo *notification.MockRepository), owner uuid.UUID, method, target string) *httptest.ResponseRecorder {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := notification.NewMockRepository(ctrl)

	if setupMock != nil {
		setupMock(repo)
	}

	h := notificationhttp.NewHandler(notification.NewService(repo, notification.NopPublisher{}))

	router := chi.NewRouter()
	router.Route("/notifications", h.Routes)

	req := httptest.NewRequest(method, target, nil)
	req = req.WithContext(auth.WithPrincipal(req.Context(), auth.Principal{UserID: owner, Role: user.RoleUser}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func TestHandler_List(t *testing.T) {
	owner := uuid.New()
	related := uuid.New()
	now := time.Now().UTC().Truncate(time.Second)

	rec := serve(t, func(repo *notification.MockRepository) {
		repo.EXPECT().ListNotifications(gomock.Any(), owner).Return([]*notification.Notification{
			{ID: uuid.New(), OwnerID: owner, Message: "Budget exceeded", Type: notification.TypeBudget, RelatedID: &related, CreatedAt: now},
			{ID: uuid.New(), OwnerID: owner, Message: "older", Type: notification.TypeGeneral, Read: true, CreatedAt: now.Add(-time.Hour)},
		}, nil)
	}, owner, http.MethodGet, "/notifications")

	require.Equal(t, http.StatusOK, rec.Code)

	var got []notification.Payload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)

	assert.Equal(t, "Budget exceeded", got[0].Message)
	assert.Equal(t, owner, got[0].UserID)
	assert.Equal(t, &related, got[0].RelatedID)
	assert.False(t, got[0].Read)
	assert.True(t, got[1].Read)
}

func TestHandler_MarkRead(t *testing.T) {
	owner := uuid.New()
	id := uuid.New()

	tests := []struct {
		name       string
		target     string
		setupMock  func(repo *notification.MockRepository)
		wantStatus int
	}{
		{
			name:   "Success",
			target: "/notifications/" + id.String() + "/read",
			setupMock: func(repo *notification.MockRepository) {
				repo.EXPECT().MarkRead(gomock.Any(), owner, id).Return(&notification.Notification{ID: id, OwnerID: owner, Read: true}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "NotFound",
			target: "/notifications/" + id.String() + "/read",
			setupMock: func(repo *notification.MockRepository) {
				repo.EXPECT().MarkRead(gomock.Any(), owner, id).Return(nil, notification.ErrNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:   "StoreError",
			target: "/notifications/" + id.String() + "/read",
			setupMock: func(repo *notification.MockRepository) {
				repo.EXPECT().MarkRead(gomock.Any(), owner, id).Return(nil, errors.New("timeout"))
			},
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "BadID",
			target:     "/notifications/abc/read",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, tt.setupMock, owner, http.MethodPut, tt.target)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
