package customer

import (
	"context"

	"storefront/internal/domain"
)

// Repository persists customers together with their owned addresses and bank
// accounts. Loads hydrate the selected address slots.
type Repository interface {
	GetBySession(ctx context.Context, sessionID string) (*domain.Customer, error)
	GetByUser(ctx context.Context, userID string) (*domain.Customer, error)
	Create(ctx context.Context, c domain.Customer) (*domain.Customer, error)
	Save(ctx context.Context, c *domain.Customer) error
	AttachUser(ctx context.Context, customerID, userID string) error
	Delete(ctx context.Context, customerID string) error

	GetOrCreatePostal(ctx context.Context, p domain.PostalAddress) (*domain.PostalAddress, error)
	SaveAddress(ctx context.Context, a domain.Address) (*domain.Address, error)
	GetAddress(ctx context.Context, id string) (*domain.Address, error)

	CreateBankAccount(ctx context.Context, b domain.BankAccount) (*domain.BankAccount, error)
	GetBankAccount(ctx context.Context, id string) (*domain.BankAccount, error)
}
