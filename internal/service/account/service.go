package account

import (
	"context"
	"errors"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"storefront/internal/domain"
	orderrepo "storefront/internal/repository/order"
	userrepo "storefront/internal/repository/user"
	cartsvc "storefront/internal/service/cart"
	customersvc "storefront/internal/service/customer"
	"storefront/internal/service/session"
)

var (
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken is returned when registering an email that exists.
	ErrEmailTaken = errors.New("email already registered")
	// ErrWrongPassword is returned when the current password check fails.
	ErrWrongPassword = errors.New("wrong password")
)

// Notifier receives account lifecycle events.
type Notifier interface {
	CustomerAdded(ctx context.Context, u domain.User)
}

// LogNotifier writes account events to a logger. The default Notifier.
type LogNotifier struct {
	Log *log.Logger
}

func (n LogNotifier) CustomerAdded(_ context.Context, u domain.User) {
	if n.Log != nil {
		n.Log.Printf("customer added: %s", u.Email)
	}
}

// Service handles registration, login and account management. Login turns
// the anonymous session into an authenticated one and migrates the session's
// customer and cart onto the user.
type Service struct {
	users       userrepo.Repository
	orders      orderrepo.Repository
	sessions    *session.Service
	customers   *customersvc.Service
	carts       *cartsvc.Service
	notifier    Notifier
	passwordMin int
}

func New(users userrepo.Repository, orders orderrepo.Repository, sessions *session.Service, customers *customersvc.Service, carts *cartsvc.Service, notifier Notifier) *Service {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &Service{
		users:       users,
		orders:      orders,
		sessions:    sessions,
		customers:   customers,
		carts:       carts,
		notifier:    notifier,
		passwordMin: 8,
	}
}

// Login validates credentials, attaches the user to the session token and
// migrates the anonymous customer and cart.
func (s *Service) Login(ctx context.Context, ident *session.Identity, email, password string) (*domain.User, error) {
	u, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := s.adopt(ctx, ident, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Register creates the user (username = email), logs the session in and
// emits the customer-added notification.
func (s *Service) Register(ctx context.Context, ident *session.Identity, email, password string) (*domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, errors.New("email required")
	}
	if len(strings.TrimSpace(password)) < s.passwordMin {
		return nil, errors.New("password too short")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u, err := s.users.Create(ctx, domain.User{Email: email, PasswordHash: string(hashed)})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	if err := s.adopt(ctx, ident, u); err != nil {
		return nil, err
	}
	s.notifier.CustomerAdded(ctx, *u)
	return u, nil
}

// adopt binds the user to the session and moves anonymous state over.
func (s *Service) adopt(ctx context.Context, ident *session.Identity, u *domain.User) error {
	if err := s.sessions.Attach(ctx, ident.Token, u.ID); err != nil {
		return err
	}
	c, err := s.customers.Migrate(ctx, ident.SessionID(), u.ID)
	if err != nil {
		return err
	}
	if err := s.carts.Migrate(ctx, ident.SessionID(), c.ID); err != nil {
		return err
	}
	ident.User = u
	return nil
}

// Logout deletes the session token.
func (s *Service) Logout(ctx context.Context, ident *session.Identity) error {
	return s.sessions.End(ctx, ident.Token)
}

// Orders lists the user's orders, newest first.
func (s *Service) Orders(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

// Order returns one order; not-found covers orders owned by someone else.
func (s *Service) Order(ctx context.Context, id, userID string) (*domain.Order, error) {
	return s.orders.GetByIDForUser(ctx, id, userID)
}

// ChangeEmail updates the login email after re-checking the password.
func (s *Service) ChangeEmail(ctx context.Context, u *domain.User, password, email string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return ErrWrongPassword
	}
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return errors.New("email required")
	}
	err := s.users.UpdateEmail(ctx, u.ID, email)
	if errors.Is(err, domain.ErrAlreadyExists) {
		return ErrEmailTaken
	}
	return err
}

// ChangePassword replaces the password after re-checking the old one.
func (s *Service) ChangePassword(ctx context.Context, u *domain.User, oldPassword, newPassword string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrWrongPassword
	}
	if len(strings.TrimSpace(newPassword)) < s.passwordMin {
		return errors.New("password too short")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, u.ID, string(hashed))
}

// SafeNext guards redirect targets taken from the request. Values containing
// "//" or a space could leave the site; those fall back to the home page.
func SafeNext(next, fallback string) string {
	next = strings.TrimSpace(next)
	if next == "" || strings.Contains(next, "//") || strings.Contains(next, " ") {
		return fallback
	}
	if !strings.HasPrefix(next, "/") {
		return fallback
	}
	return next
}
