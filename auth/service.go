// Package auth issues and verifies session tokens and implements the storefront
// login policy: any password of at least six characters is accepted for a known
// email with the matching role, and a novel email is signed up on the spot.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/junaidrashid-git/commerce-api/metrics"
	"github.com/junaidrashid-git/commerce-api/models"
	"github.com/junaidrashid-git/commerce-api/repository"
	"github.com/junaidrashid-git/commerce-api/session"
	"github.com/junaidrashid-git/commerce-api/validation"
)

const MinPasswordLength = 6

// Guest cart merge outcomes reported on login.
const (
	MergeNone   = "no-guest-cart"
	MergeDone   = "merged-success"
	MergeEmpty  = "guest-cart-empty"
	MergeFailed = "merge-failed"
)

// CartMerger folds a guest cart into a user cart.
type CartMerger interface {
	Merge(ctx context.Context, guestOwner, userOwner string) (bool, error)
}

type LoginInput struct {
	Email      string `json:"email" binding:"required"`
	Password   string `json:"password" binding:"required"`
	Role       string `json:"role" binding:"required"`
	GuestToken string `json:"guestToken"`
}

type RegisterInput struct {
	Name            string `json:"name" validate:"required,min=2"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8,strongpw"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	BusinessName    string `json:"businessName" validate:"required,min=2"`
	PhoneNumber     string `json:"phoneNumber" validate:"required,phone"`
}

// ProfileInput changes only the non-empty fields.
type ProfileInput struct {
	Name         string `json:"name" validate:"omitempty,min=2"`
	BusinessName string `json:"businessName" validate:"omitempty,min=2"`
	PhoneNumber  string `json:"phoneNumber" validate:"omitempty,phone"`
}

// Result mirrors the storefront's auth state.
type Result struct {
	User            *models.User `json:"user"`
	Token           string       `json:"token"`
	IsAuthenticated bool         `json:"isAuthenticated"`
	ExpiresAt       time.Time    `json:"expiresAt"`
	MergeStatus     string       `json:"mergeStatus,omitempty"`
}

type GuestResult struct {
	GuestID   string    `json:"guestId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type Config struct {
	Secret   string
	TokenTTL time.Duration
}

type Service struct {
	users   repository.UserRepository
	store   session.Store
	carts   CartMerger
	metrics *metrics.Metrics

	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewService(users repository.UserRepository, store session.Store, carts CartMerger, m *metrics.Metrics, cfg Config) *Service {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{
		users:   users,
		store:   store,
		carts:   carts,
		metrics: m,
		secret:  []byte(cfg.Secret),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *Service) countLogin(result string) {
	if s.metrics != nil {
		s.metrics.LoginsTotal.WithLabelValues(result).Inc()
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) Login(ctx context.Context, in LoginInput) (*Result, error) {
	role, err := models.ParseRole(in.Role)
	if err != nil {
		return nil, err
	}
	email := normalizeEmail(in.Email)
	if err := validation.Var("email", email, "required,email"); err != nil {
		return nil, err
	}
	if len(in.Password) < MinPasswordLength {
		s.countLogin("failure")
		return nil, fmt.Errorf("%w: password too short", models.ErrInvalidCredentials)
	}

	user, err := s.users.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, models.ErrNotFound):
		user = &models.User{
			ID:        uuid.NewString(),
			Email:     email,
			Name:      strings.SplitN(email, "@", 2)[0],
			Role:      role,
			CreatedAt: s.now(),
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, err
		}
		s.countLogin("created")
		slog.InfoContext(ctx, "user created on first login", "user_id", user.ID, "role", role)
	case err != nil:
		return nil, err
	case user.Role != role:
		s.countLogin("failure")
		return nil, fmt.Errorf("%w: role mismatch", models.ErrInvalidCredentials)
	default:
		s.countLogin("success")
	}

	res, err := s.start(ctx, user)
	if err != nil {
		return nil, err
	}
	res.MergeStatus = s.mergeGuest(ctx, in.GuestToken, user.ID)
	return res, nil
}

// mergeGuest moves a guest's cart to the user and ends the guest session.
// Failures are reported in the status, never as a login error.
func (s *Service) mergeGuest(ctx context.Context, guestToken, userID string) string {
	if guestToken == "" || s.carts == nil {
		return MergeNone
	}
	claims, err := s.Verify(ctx, guestToken)
	if err != nil || !claims.IsGuest() {
		return MergeNone
	}
	merged, err := s.carts.Merge(ctx, claims.UserID, userID)
	if err != nil {
		slog.WarnContext(ctx, "guest cart merge failed", "guest", claims.UserID, "error", err)
		return MergeFailed
	}
	if err := s.endSession(ctx, claims.SessionID); err != nil {
		slog.WarnContext(ctx, "guest session cleanup failed", "guest", claims.UserID, "error", err)
	}
	if !merged {
		return MergeEmpty
	}
	return MergeDone
}

func (s *Service) start(ctx context.Context, user *models.User) (*Result, error) {
	token, exp, err := s.issueJWT(ctx, user.ID, user.Email, user.Name, user.Role)
	if err != nil {
		return nil, err
	}
	return &Result{User: user, Token: token, IsAuthenticated: true, ExpiresAt: exp}, nil
}

// Register signs up a store owner.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Result, error) {
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        in.Email,
		Name:         in.Name,
		Role:         models.RoleStoreOwner,
		BusinessName: strings.TrimSpace(in.BusinessName),
		PhoneNumber:  in.PhoneNumber,
		CreatedAt:    s.now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "user registered", "user_id", user.ID)
	return s.start(ctx, user)
}

// Guest opens an anonymous session that can hold a cart.
func (s *Service) Guest(ctx context.Context) (*GuestResult, error) {
	id := "guest_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	token, exp, err := s.issueJWT(ctx, id, "", "", models.RoleGuest)
	if err != nil {
		return nil, err
	}
	return &GuestResult{GuestID: id, Token: token, ExpiresAt: exp}, nil
}

func (s *Service) Logout(ctx context.Context, claims *Claims) error {
	if err := s.endSession(ctx, claims.SessionID); err != nil {
		return err
	}
	slog.InfoContext(ctx, "logged out", "user_id", claims.UserID)
	return nil
}

func (s *Service) Me(ctx context.Context, claims *Claims) (*models.User, error) {
	if claims.IsGuest() {
		return nil, fmt.Errorf("%w: guest sessions have no profile", models.ErrNotFound)
	}
	return s.users.Get(ctx, claims.UserID)
}

func (s *Service) UpdateProfile(ctx context.Context, claims *Claims, in ProfileInput) (*models.User, error) {
	if claims.IsGuest() {
		return nil, fmt.Errorf("%w: guest sessions have no profile", models.ErrNotFound)
	}
	in.Name = strings.TrimSpace(in.Name)
	in.BusinessName = strings.TrimSpace(in.BusinessName)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	return s.users.Update(ctx, claims.UserID, func(u *models.User) error {
		if in.Name != "" {
			u.Name = in.Name
		}
		if in.BusinessName != "" {
			u.BusinessName = in.BusinessName
		}
		if in.PhoneNumber != "" {
			u.PhoneNumber = in.PhoneNumber
		}
		return nil
	})
}

// ForgotPassword never reveals whether the email is registered.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if err := validation.Var("email", email, "required,email"); err != nil {
		return err
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		slog.InfoContext(ctx, "password reset requested", "email", email)
	}
	return nil
}

func (s *Service) ListUsers(ctx context.Context, page, limit int) (models.Page[models.User], error) {
	page, limit = models.NormalizePage(page, limit, 20)
	return s.users.List(ctx, page, limit)
}
