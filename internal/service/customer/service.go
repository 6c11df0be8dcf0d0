package customer

import (
	"context"
	"errors"

	"storefront/internal/domain"
	customerrepo "storefront/internal/repository/customer"
	"storefront/internal/service/session"
)

// Service resolves the checkout customer for a session, creating it lazily on
// the first checkout interaction.
type Service struct {
	repo customerrepo.Repository
}

func New(repo customerrepo.Repository) *Service {
	return &Service{repo: repo}
}

// For returns the caller's customer, creating an empty one if it does not
// exist yet. Authenticated callers are keyed by user, anonymous by session.
func (s *Service) For(ctx context.Context, ident *session.Identity) (*domain.Customer, error) {
	if ident.User != nil {
		c, err := s.repo.GetByUser(ctx, ident.User.ID)
		if err == nil || !errors.Is(err, domain.ErrNotFound) {
			return c, err
		}
		uid := ident.User.ID
		return s.repo.Create(ctx, domain.Customer{UserID: &uid})
	}

	sid := ident.SessionID()
	c, err := s.repo.GetBySession(ctx, sid)
	if err == nil || !errors.Is(err, domain.ErrNotFound) {
		return c, err
	}
	return s.repo.Create(ctx, domain.Customer{SessionID: &sid})
}

// Peek is For without the lazy create.
func (s *Service) Peek(ctx context.Context, ident *session.Identity) (*domain.Customer, error) {
	if ident.User != nil {
		return s.repo.GetByUser(ctx, ident.User.ID)
	}
	return s.repo.GetBySession(ctx, ident.SessionID())
}

// Migrate moves the anonymous session customer onto the user after login.
// When the user already has a customer the session one is dropped; its
// checkout state belongs to the pre-login session and is not merged.
// Returns the customer that survives.
func (s *Service) Migrate(ctx context.Context, sessionID, userID string) (*domain.Customer, error) {
	anon, anonErr := s.repo.GetBySession(ctx, sessionID)
	if anonErr != nil && !errors.Is(anonErr, domain.ErrNotFound) {
		return nil, anonErr
	}

	existing, err := s.repo.GetByUser(ctx, userID)
	switch {
	case err == nil:
		if anon != nil {
			if derr := s.repo.Delete(ctx, anon.ID); derr != nil && !errors.Is(derr, domain.ErrNotFound) {
				return nil, derr
			}
		}
		return existing, nil
	case errors.Is(err, domain.ErrNotFound):
		if anon == nil {
			return s.repo.Create(ctx, domain.Customer{UserID: &userID})
		}
		if err := s.repo.AttachUser(ctx, anon.ID, userID); err != nil {
			return nil, err
		}
		return s.repo.GetByUser(ctx, userID)
	default:
		return nil, err
	}
}
