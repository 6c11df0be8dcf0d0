package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"storefront/internal/domain"
	tokenrepo "storefront/internal/repository/token"
	userrepo "storefront/internal/repository/user"
)

// ErrInvalidToken indicates the provided session token could not be
// validated.
var ErrInvalidToken = errors.New("invalid token")

const tokenKind = "session"

// Identity is a resolved session: the opaque token doubles as the session
// key, User is nil for anonymous shoppers.
type Identity struct {
	Token string
	User  *domain.User
}

// SessionID returns the key anonymous customers and carts are stored under.
func (i *Identity) SessionID() string { return i.Token }

// UserID returns the authenticated user id or the empty string.
func (i *Identity) UserID() string {
	if i.User == nil {
		return ""
	}
	return i.User.ID
}

// Service issues and resolves opaque session tokens persisted in the tokens
// table. Tokens start anonymous; login attaches the user.
type Service struct {
	tokens tokenrepo.Repository
	users  userrepo.Repository
	ttl    time.Duration
}

func New(tokens tokenrepo.Repository, users userrepo.Repository) *Service {
	return &Service{tokens: tokens, users: users, ttl: 30 * 24 * time.Hour}
}

// Begin issues a fresh anonymous session token.
func (s *Service) Begin(ctx context.Context) (string, error) {
	expiresAt := time.Now().Add(s.ttl)
	for i := 0; i < 5; i++ {
		token, err := randomToken()
		if err != nil {
			return "", err
		}
		err = s.tokens.Create(ctx, tokenrepo.Token{
			Token:     token,
			Kind:      tokenKind,
			ExpiresAt: expiresAt,
		})
		if err == nil {
			return token, nil
		}
		if errors.Is(err, domain.ErrAlreadyExists) {
			continue
		}
		return "", err
	}
	return "", errors.New("token collision")
}

// Resolve validates a token and loads the attached user, if any. Expired
// tokens are removed and rejected.
func (s *Service) Resolve(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	t, err := s.tokens.Get(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if t.Kind != tokenKind {
		return nil, ErrInvalidToken
	}
	if time.Now().After(t.ExpiresAt) {
		_ = s.tokens.Delete(ctx, token)
		return nil, ErrInvalidToken
	}

	ident := &Identity{Token: token}
	if t.UserID != nil {
		u, err := s.users.GetByID(ctx, *t.UserID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		ident.User = u
	}
	return ident, nil
}

// Attach binds a user to the session token, turning it authenticated.
func (s *Service) Attach(ctx context.Context, token, userID string) error {
	return s.tokens.AttachUser(ctx, token, userID)
}

// End deletes the session token.
func (s *Service) End(ctx context.Context, token string) error {
	err := s.tokens.Delete(ctx, token)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	return err
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
