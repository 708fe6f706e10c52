package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/junaidrashid-git/commerce-api/models"
	"github.com/junaidrashid-git/commerce-api/session"
)

const issuer = "commerce-api"

// Claims is the token payload. SessionID points at the auth-storage record
// that must still exist for the token to be accepted.
type Claims struct {
	UserID    string      `json:"user_id"`
	Email     string      `json:"email,omitempty"`
	Name      string      `json:"name,omitempty"`
	Role      models.Role `json:"role"`
	SessionID string      `json:"sid"`
	jwt.RegisteredClaims
}

func (c *Claims) IsGuest() bool { return c.Role == models.RoleGuest }

// Session is the server side half of a login.
type Session struct {
	ID        string      `json:"id"`
	UserID    string      `json:"userId"`
	Role      models.Role `json:"role"`
	CreatedAt time.Time   `json:"createdAt"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

// issueJWT stores a fresh session and signs a token bound to it.
func (s *Service) issueJWT(ctx context.Context, userID, email, name string, role models.Role) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.ttl)
	sess := Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Role:      role,
		CreatedAt: now,
		ExpiresAt: exp,
	}
	if err := session.SetJSON(ctx, s.store, session.AuthKey(sess.ID), sess, s.ttl); err != nil {
		return "", time.Time{}, err
	}

	claims := Claims{
		UserID:    userID,
		Email:     email,
		Name:      name,
		Role:      role,
		SessionID: sess.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Verify checks the signature, expiry and the backing session.
func (s *Service) Verify(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidCredentials, err)
	}
	if claims.SessionID == "" {
		return nil, fmt.Errorf("%w: token has no session", models.ErrInvalidCredentials)
	}

	var sess Session
	found, err := session.GetJSON(ctx, s.store, session.AuthKey(claims.SessionID), &sess)
	if err != nil {
		return nil, err
	}
	if !found || sess.UserID != claims.UserID {
		return nil, fmt.Errorf("%w: session ended", models.ErrInvalidCredentials)
	}
	// the role comes from the session, never from the token alone
	if sess.Role != claims.Role {
		return nil, fmt.Errorf("%w: role does not match session", models.ErrInvalidCredentials)
	}
	return claims, nil
}

func (s *Service) endSession(ctx context.Context, sessionID string) error {
	return s.store.Delete(ctx, session.AuthKey(sessionID))
}
