package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/coachly/backend-auth/internal/domain"
)

// stubApprovalService approves from a fixed trainer set.
type stubApprovalService struct {
	trainers map[string]*domain.Account // keyed by id
	byEmail  map[string]*domain.Account
	pending  []*domain.Account
	err      error
}

func (s *stubApprovalService) ApproveByID(ctx context.Context, id string) (*domain.Account, error) {
	if s.err != nil {
		return nil, s.err
	}
	account, ok := s.trainers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	account.IsApproved = true
	return account, nil
}

func (s *stubApprovalService) ApproveByEmail(ctx context.Context, email string) (*domain.Account, error) {
	if s.err != nil {
		return nil, s.err
	}
	account, ok := s.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	account.IsApproved = true
	return account, nil
}

func (s *stubApprovalService) ListPending(ctx context.Context) ([]*domain.Account, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.pending, nil
}

func newAdminRouter(svc *stubApprovalService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAdminHandler(svc)
	router := gin.New()
	router.GET("/admin/trainers/pending", h.ListPendingTrainers)
	router.POST("/admin/trainers/approve", h.ApproveTrainerByEmail)
	router.POST("/admin/trainers/:id/approve", h.ApproveTrainer)
	return router
}

func TestAdminHandler_ApproveTrainer(t *testing.T) {
	trainer := &domain.Account{
		ID:    "trainer-1",
		Email: "t1@example.com",
		Role:  domain.RoleTrainer,
	}
	svc := &stubApprovalService{
		trainers: map[string]*domain.Account{"trainer-1": trainer},
		byEmail:  map[string]*domain.Account{"t1@example.com": trainer},
	}
	router := newAdminRouter(svc)

	t.Run("approve by id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/admin/trainers/trainer-1/approve", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, w.Body.String(), `"is_approved":true`)
	})

	t.Run("unknown id is 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/admin/trainers/missing/approve", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("approve by email", func(t *testing.T) {
		body := strings.NewReader(`{"email":"t1@example.com"}`)
		req := httptest.NewRequest(http.MethodPost, "/admin/trainers/approve", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("malformed email is 400", func(t *testing.T) {
		body := strings.NewReader(`{"email":"not-an-email"}`)
		req := httptest.NewRequest(http.MethodPost, "/admin/trainers/approve", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("store failure is 503", func(t *testing.T) {
		broken := newAdminRouter(&stubApprovalService{err: domain.ErrStoreUnavailable})
		req := httptest.NewRequest(http.MethodPost, "/admin/trainers/trainer-1/approve", nil)
		w := httptest.NewRecorder()
		broken.ServeHTTP(w, req)
		require.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestAdminHandler_ListPendingTrainers(t *testing.T) {
	svc := &stubApprovalService{
		pending: []*domain.Account{
			{ID: "trainer-1", Email: "t1@example.com", Role: domain.RoleTrainer},
			{ID: "trainer-2", Email: "t2@example.com", Role: domain.RoleTrainer},
		},
	}
	router := newAdminRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/admin/trainers/pending", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"count":2`)
	require.Contains(t, w.Body.String(), "trainer-1")
	require.NotContains(t, w.Body.String(), "password")
}
