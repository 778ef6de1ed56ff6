package remote

import (
	"context"

	"rapidstor-backend/internal/domain"
)

// InventoryClient abstracts the RapidStor storage-unit inventory API.
//
// Saves are full-document overwrites with no concurrency token, so two
// concurrent writers to the same descriptor race last-write-wins. That is the
// remote API's contract; callers must not assume isolation across requests.
type InventoryClient interface {
	FetchDescriptors(ctx context.Context, locationID string) ([]domain.Descriptor, error)
	FetchUnitTypes(ctx context.Context, locationID string) ([]domain.UnitType, error)
	FetchDeals(ctx context.Context, locationID string) ([]domain.Deal, error)
	FetchInsurance(ctx context.Context, locationID string) ([]domain.InsuranceCoverage, error)
	SaveDescriptor(ctx context.Context, d domain.Descriptor, locationID string) error
	DeleteDescriptor(ctx context.Context, d domain.Descriptor, locationID string) error
	BatchUpdate(ctx context.Context, operation string, ds []domain.Descriptor, locationID string) error
}
