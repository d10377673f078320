package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fundsio/funds/internal/auth"
	"github.com/fundsio/funds/internal/user"
)

func TestIssuer_RoundTrip(t *testing.T) {
	issuer := auth.NewIssuer("test-secret", time.Hour)
	u := &user.User{ID: uuid.New(), Role: user.RoleAdmin}

	token, err := issuer.Issue(u)
	require.NoError(t, err)

	p, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, p.UserID)
	assert.True(t, p.IsAdmin())
}

func TestIssuer_Parse_Rejects(t *testing.T) {
	issuer := auth.NewIssuer("test-secret", time.Hour)
	u := &user.User{ID: uuid.New(), Role: user.RoleUser}

	otherSecret, err := auth.NewIssuer("other", time.Hour).Issue(u)
	require.NoError(t, err)

	expired, err := auth.NewIssuer("test-secret", -time.Minute).Issue(u)
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   u.ID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "WrongSecret", token: otherSecret},
		{name: "Expired", token: expired},
		{name: "NoneAlgorithm", token: none},
		{name: "Garbage", token: "not-a-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := issuer.Parse(tt.token)
			assert.ErrorIs(t, err, auth.ErrInvalidToken)
		})
	}
}

func TestMiddleware(t *testing.T) {
	issuer := auth.NewIssuer("test-secret", time.Hour)
	u := &user.User{ID: uuid.New(), Role: user.RoleUser}

	token, err := issuer.Issue(u)
	require.NoError(t, err)

	var seen uuid.UUID

	handler := issuer.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = auth.OwnerID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{name: "Valid", header: "Bearer " + token, wantStatus: http.StatusOK},
		{name: "Missing", wantStatus: http.StatusUnauthorized, wantBody: "No token, authorization denied"},
		{name: "Invalid", header: "Bearer nope", wantStatus: http.StatusUnauthorized, wantBody: "Token is not valid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = uuid.Nil

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantBody != "" {
				assert.JSONEq(t, `{"message":"`+tt.wantBody+`"}`, rec.Body.String())
				assert.Equal(t, uuid.Nil, seen)

				return
			}

			assert.Equal(t, u.ID, seen)
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	handler := auth.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req.WithContext(auth.WithPrincipal(req.Context(), auth.Principal{UserID: uuid.New(), Role: user.RoleUser})))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req.WithContext(auth.WithPrincipal(req.Context(), auth.Principal{UserID: uuid.New(), Role: user.RoleAdmin})))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestIssuer_Authenticate(t *testing.T) {
	issuer := auth.NewIssuer("test-secret", time.Hour)
	u := &user.User{ID: uuid.New(), Role: user.RoleUser}

	token, err := issuer.Issue(u)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/ws?token="+token, nil)
	got, err := issuer.Authenticate(req)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got)

	_, err = issuer.Authenticate(httptest.NewRequest(http.MethodGet, "/ws", nil))
	assert.Error(t, err)
}
