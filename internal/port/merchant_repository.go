package port

import (
	"context"

	"invoicefin/internal/domain"
)

// MerchantRepository reads merchant credentials and settings.
type MerchantRepository interface {
	GetByKey(ctx context.Context, merchantKey string) (*domain.Merchant, error)
	GetByID(ctx context.Context, id int64) (*domain.Merchant, error)
	GetByHubUniqueID(ctx context.Context, hubID int64, uniqueID string) (*domain.Merchant, error)
}

// HubRepository reads hub credentials.
type HubRepository interface {
	GetByKey(ctx context.Context, hubKey string) (*domain.Hub, error)
}
