package descriptors

import (
	"context"
	"time"

	"rapidstor-backend/internal/domain"
	"rapidstor-backend/internal/mutation"
	"rapidstor-backend/internal/remote"
	"rapidstor-backend/internal/viewmodel"
)

// Service is the read side of the descriptor manager: it fetches the four
// remote catalogs fresh per request and derives the view model. All state is
// request-scoped; nothing is cached between calls.
type Service struct {
	Client      remote.InventoryClient
	Builder     *viewmodel.Builder
	Coordinator *mutation.Coordinator
}

// NewService wires a service around one remote client.
func NewService(client remote.InventoryClient, coordinator *mutation.Coordinator) *Service {
	return &Service{
		Client:      client,
		Builder:     viewmodel.NewBuilder(),
		Coordinator: coordinator,
	}
}

// ViewModel fetches descriptors, unit types, deals, and insurance and builds
// the full UI payload.
func (s *Service) ViewModel(ctx context.Context, locationID string, p viewmodel.Params) (*viewmodel.ViewModel, error) {
	descriptors, err := s.Client.FetchDescriptors(ctx, locationID)
	if err != nil {
		return nil, err
	}
	unitTypes, err := s.Client.FetchUnitTypes(ctx, locationID)
	if err != nil {
		return nil, err
	}
	deals, err := s.Client.FetchDeals(ctx, locationID)
	if err != nil {
		return nil, err
	}
	insurance, err := s.Client.FetchInsurance(ctx, locationID)
	if err != nil {
		return nil, err
	}
	return s.Builder.Build(descriptors, unitTypes, deals, insurance, p), nil
}

// Get returns one descriptor with its inventory block attached.
func (s *Service) Get(ctx context.Context, locationID, descriptorID string) (*viewmodel.DescriptorView, error) {
	vm, err := s.ViewModel(ctx, locationID, viewmodel.Params{})
	if err != nil {
		return nil, err
	}
	for _, v := range vm.Views {
		if v.ID == descriptorID {
			return &v, nil
		}
	}
	return nil, remote.ErrNotFound
}

// ExportDocument is the portable dump produced by export_descriptors.
type ExportDocument struct {
	ExportedAt  time.Time           `json:"exportedAt"`
	LocationID  string              `json:"locationId"`
	Count       int                 `json:"count"`
	Descriptors []domain.Descriptor `json:"descriptors"`
}

// Export returns all descriptors for a location, optionally narrowed by the
// same search semantics as the table view.
func (s *Service) Export(ctx context.Context, locationID, search string) (*ExportDocument, error) {
	vm, err := s.ViewModel(ctx, locationID, viewmodel.Params{Search: search})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Descriptor, 0, len(vm.Views))
	for _, v := range vm.Views {
		out = append(out, v.Descriptor)
	}
	return &ExportDocument{
		ExportedAt:  time.Now().UTC(),
		LocationID:  locationID,
		Count:       len(out),
		Descriptors: out,
	}, nil
}
