package router

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/travel-diary-api/internal/api/auth"
	"github.com/FACorreiaa/travel-diary-api/internal/api/entry"
	"github.com/FACorreiaa/travel-diary-api/internal/types"
)

type stubVerifier struct {
	mock.Mock
}

func (s *stubVerifier) VerifyToken(ctx context.Context, authHeader string) (*types.Claims, error) {
	args := s.Called(ctx, authHeader)
	claims, _ := args.Get(0).(*types.Claims)
	return claims, args.Error(1)
}

type stubEntryService struct {
	entry.EntryService
}

func (stubEntryService) Create(ctx context.Context, actorID int64, req types.EntryRequest) (int64, error) {
	return 0, types.ErrBadRequest
}

func (stubEntryService) Get(ctx context.Context, actorID, entryID int64) (*types.Entry, error) {
	return nil, types.ErrNotFound
}

func (stubEntryService) ListByUser(ctx context.Context, actorID, ownerID int64) ([]types.Entry, error) {
	return []types.Entry{}, nil
}

func newTestRouter(t *testing.T, verifier *stubVerifier, origins ...string) http.Handler {
	t.Helper()
	verifier.On("VerifyToken", mock.Anything, "").Return(nil, types.ErrMissingToken).Maybe()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return SetupRouter(&Config{
		AuthHandler:            auth.NewAuthHandler(nil, logger),
		EntryHandler:           entry.NewEntryHandler(stubEntryService{}, logger),
		AuthenticateMiddleware: auth.Authenticate(logger, verifier),
		AllowedOrigins:         origins,
	})
}

func TestSetupRouter_Ping(t *testing.T) {
	h := newTestRouter(t, &stubVerifier{})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "pong", rr.Body.String())
}

func TestSetupRouter_ProtectedRoutesRequireToken(t *testing.T) {
	h := newTestRouter(t, &stubVerifier{})
	routes := []struct{ method, path string }{
		{http.MethodGet, "/entries"},
		{http.MethodGet, "/entries/1"},
		{http.MethodGet, "/entries_by_user/1"},
		{http.MethodPost, "/diary_entries"},
		{http.MethodPut, "/update_entry/1"},
		{http.MethodDelete, "/delete_entry/1"},
		{http.MethodPut, "/update_profile/1"},
	}
	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(rt.method, rt.path, nil))
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.Contains(t, rr.Body.String(), "Missing JWT token")
		})
	}
}

func TestSetupRouter_TrailingSlash(t *testing.T) {
	verifier := &stubVerifier{}
	verifier.On("VerifyToken", mock.Anything, "Bearer good").
		Return(&types.Claims{UserID: 3, Username: "carol"}, nil)
	h := newTestRouter(t, verifier)

	for _, path := range []string{"/entries", "/entries/"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer good")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code, path)
		assert.JSONEq(t, `[]`, rr.Body.String())
	}
	verifier.AssertNumberOfCalls(t, "VerifyToken", 2)
}

func TestSetupRouter_UnknownRoute(t *testing.T) {
	h := newTestRouter(t, &stubVerifier{})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func preflight(h http.Handler, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodOptions, "/login", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestSetupRouter_CORSUsesConfiguredOrigins(t *testing.T) {
	h := newTestRouter(t, &stubVerifier{}, "https://diary.example.org")

	rr := preflight(h, "https://diary.example.org")
	assert.Equal(t, "https://diary.example.org", rr.Header().Get("Access-Control-Allow-Origin"))

	rr = preflight(h, "http://localhost:5173")
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestSetupRouter_CORSWithoutOriginsDeniesCrossOrigin(t *testing.T) {
	h := newTestRouter(t, &stubVerifier{})

	rr := preflight(h, "http://localhost:5173")
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}
