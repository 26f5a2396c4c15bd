package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/coachly/backend-auth/internal/domain"
	"github.com/coachly/backend-auth/internal/dto"
	"github.com/coachly/backend-auth/internal/middleware"
)

// stubProfileService serves the profile handler with canned profiles.
type stubProfileService struct {
	byAccount map[string]*domain.TrainerProfile
	updateErr error
}

func (s *stubProfileService) Get(ctx context.Context, id string, viewer *domain.Identity) (*domain.TrainerProfile, error) {
	return nil, domain.ErrNotFound
}

func (s *stubProfileService) GetOwn(ctx context.Context, accountID string) (*domain.TrainerProfile, error) {
	profile, ok := s.byAccount[accountID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return profile, nil
}

func (s *stubProfileService) OwnerOf(ctx context.Context, id string) (string, error) {
	return "", domain.ErrNotFound
}

func (s *stubProfileService) Update(ctx context.Context, id string, identity domain.Identity, req *dto.UpdateTrainerProfileRequest) (*domain.TrainerProfile, error) {
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	return &domain.TrainerProfile{
		ID:          id,
		AccountID:   identity.AccountID,
		IsPublished: req.IsPublished != nil && *req.IsPublished,
		UpdatedAt:   time.Now(),
	}, nil
}

func withIdentity(identity domain.Identity) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextKeyIdentity, identity)
		c.Next()
	}
}

func TestProfileHandler_MyProfile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &stubProfileService{
		byAccount: map[string]*domain.TrainerProfile{
			"trainer-1": {ID: "prof-1", AccountID: "trainer-1", Headline: "Draft"},
		},
	}
	h := NewProfileHandler(svc)

	router := gin.New()
	router.GET("/trainers/me",
		withIdentity(domain.Identity{AccountID: "trainer-1", Role: domain.RoleTrainer}),
		h.MyProfile,
	)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/trainers/me", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "prof-1")
}

func TestProfileHandler_MyProfileWithoutProfile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewProfileHandler(&stubProfileService{byAccount: map[string]*domain.TrainerProfile{}})

	router := gin.New()
	router.GET("/trainers/me",
		withIdentity(domain.Identity{AccountID: "member-1", Role: domain.RoleMember}),
		h.MyProfile,
	)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/trainers/me", nil))
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestProfileHandler_PublishProfile(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("publishes the profile", func(t *testing.T) {
		h := NewProfileHandler(&stubProfileService{})
		router := gin.New()
		router.POST("/trainers/:id/publish",
			withIdentity(domain.Identity{AccountID: "trainer-1", Role: domain.RoleTrainer, Approved: true}),
			h.PublishProfile,
		)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/trainers/prof-1/publish", nil))
		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, w.Body.String(), `"is_published":true`)
	})

	t.Run("pending trainer maps to 403", func(t *testing.T) {
		h := NewProfileHandler(&stubProfileService{updateErr: domain.ErrTrainerNotApproved})
		router := gin.New()
		router.POST("/trainers/:id/publish",
			withIdentity(domain.Identity{AccountID: "trainer-1", Role: domain.RoleTrainer}),
			h.PublishProfile,
		)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/trainers/prof-1/publish", nil))
		require.Equal(t, http.StatusForbidden, w.Code)
		require.Contains(t, w.Body.String(), "TRAINER_NOT_APPROVED")
	})
}
