package mutation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"rapidstor-backend/internal/audit"
	"rapidstor-backend/internal/domain"
	"rapidstor-backend/internal/inventory"
	"rapidstor-backend/internal/matching"
	"rapidstor-backend/internal/remote"
	"rapidstor-backend/internal/suggest"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	ErrUnknownToggleField = errors.New("Unknown toggle field")
	ErrNoItemsSelected    = errors.New("No descriptors selected")
	ErrGroupNameRequired  = errors.New("Group name is required")
)

// Coordinator applies one logical change to one or many descriptors against
// the remote save API. Semantics are best-effort and non-transactional: each
// item is attempted independently, failures are collected, and siblings are
// never aborted. An interrupted batch leaves completed items persisted;
// re-running completes it (operations set fields, they don't increment).
type Coordinator struct {
	Client  remote.InventoryClient
	Matcher *matching.Matcher
	Engine  suggest.Engine
	Audit   *audit.Store // optional
}

// NewCoordinator wires the production matcher into a coordinator.
func NewCoordinator(client remote.InventoryClient, store *audit.Store) *Coordinator {
	return &Coordinator{Client: client, Matcher: matching.NewMatcher(), Audit: store}
}

// QuickToggle fetches the current descriptor, sets one boolean field, and
// re-saves the whole document (the remote API has no partial update).
func (c *Coordinator) QuickToggle(ctx context.Context, locationID, descriptorID, field string, value bool) (*domain.Descriptor, error) {
	var update domain.FieldUpdate
	switch field {
	case "enabled":
		update = domain.SetEnabled{Value: value}
	case "hidden":
		update = domain.SetHidden{Value: value}
	case "useForCarousel":
		update = domain.SetCarousel{Value: value}
	default:
		return nil, ErrUnknownToggleField
	}

	descriptors, err := c.Client.FetchDescriptors(ctx, locationID)
	if err != nil {
		return nil, err
	}
	d, ok := findDescriptor(descriptors, descriptorID)
	if !ok {
		return nil, remote.ErrNotFound
	}
	update.Apply(&d)
	if err := c.Client.SaveDescriptor(ctx, d, locationID); err != nil {
		return nil, err
	}
	return &d, nil
}

// Reorder assigns ordinalPosition = index+1 following the given id order and
// submits the changed documents in one batch call. Ids missing from the
// catalog are stale client state and are skipped without error.
func (c *Coordinator) Reorder(ctx context.Context, locationID string, orderedIDs []string) (*domain.BatchOperationResult, error) {
	if len(orderedIDs) == 0 {
		return nil, ErrNoItemsSelected
	}
	descriptors, err := c.Client.FetchDescriptors(ctx, locationID)
	if err != nil {
		return nil, err
	}

	var changed []domain.Descriptor
	changedIDs := map[string]bool{}
	present := []string{}
	for i, id := range orderedIDs {
		d, ok := findDescriptor(descriptors, id)
		if !ok {
			continue // stale id
		}
		present = append(present, id)
		if d.OrdinalPosition != i+1 {
			d.OrdinalPosition = i + 1
			changed = append(changed, d)
			changedIDs[id] = true
		}
	}

	var batchErr error
	if len(changed) > 0 {
		batchErr = c.Client.BatchUpdate(ctx, "reorder", changed, locationID)
	}

	res := &domain.BatchOperationResult{Operation: "reorder_descriptors"}
	for _, id := range present {
		if batchErr != nil && changedIDs[id] {
			res.AddFailure(id, batchErr)
		} else {
			res.AddSuccess(id)
		}
	}
	c.recordAudit(ctx, locationID, res.Finish())
	return res, nil
}

// GroupDescriptors stamps a group label on the selected descriptors. The
// remote API has no group entity; the label is client-side bookkeeping
// persisted through the normal save path and interpreted by nothing else.
func (c *Coordinator) GroupDescriptors(ctx context.Context, locationID string, ids []string, groupName string) (*domain.BatchOperationResult, error) {
	if len(ids) == 0 {
		return nil, ErrNoItemsSelected
	}
	if strings.TrimSpace(groupName) == "" {
		return nil, ErrGroupNameRequired
	}
	return c.applyToAll(ctx, locationID, "group_descriptors", ids, domain.SetGroupLabel{Label: groupName})
}

// BatchApply runs one FieldUpdate over every selected descriptor. Every item
// is attempted; one failure never blocks the rest, and there is no rollback.
func (c *Coordinator) BatchApply(ctx context.Context, locationID string, ids []string, update domain.FieldUpdate) (*domain.BatchOperationResult, error) {
	if len(ids) == 0 {
		return nil, ErrNoItemsSelected
	}
	return c.applyToAll(ctx, locationID, "batch_apply", ids, update)
}

func (c *Coordinator) applyToAll(ctx context.Context, locationID, operation string, ids []string, update domain.FieldUpdate) (*domain.BatchOperationResult, error) {
	descriptors, err := c.Client.FetchDescriptors(ctx, locationID)
	if err != nil {
		return nil, err
	}

	res := &domain.BatchOperationResult{Operation: operation}
	for _, id := range ids {
		d, ok := findDescriptor(descriptors, id)
		if !ok {
			res.AddFailure(id, remote.ErrNotFound)
			continue
		}
		update.Apply(&d)
		if err := c.Client.SaveDescriptor(ctx, d, locationID); err != nil {
			log.Warn().Str("descriptor_id", id).Str("field", update.Field()).Err(err).Msg("batch item save failed")
			res.AddFailure(id, err)
			continue
		}
		res.AddSuccess(id)
	}
	c.recordAudit(ctx, locationID, res.Finish())
	return res, nil
}

// BatchSave validates and saves full descriptor documents in one remote batch
// call (the batch_update action).
func (c *Coordinator) BatchSave(ctx context.Context, locationID string, descriptors []domain.Descriptor) (*domain.BatchOperationResult, error) {
	if len(descriptors) == 0 {
		return nil, ErrNoItemsSelected
	}
	res := &domain.BatchOperationResult{Operation: "batch_update"}
	if err := c.Client.BatchUpdate(ctx, "update", descriptors, locationID); err != nil {
		for _, d := range descriptors {
			res.AddFailure(d.ID, err)
		}
	} else {
		for _, d := range descriptors {
			res.AddSuccess(d.ID)
		}
	}
	c.recordAudit(ctx, locationID, res.Finish())
	return res, nil
}

// Delete removes one descriptor after confirming it still exists.
func (c *Coordinator) Delete(ctx context.Context, locationID, descriptorID string) error {
	descriptors, err := c.Client.FetchDescriptors(ctx, locationID)
	if err != nil {
		return err
	}
	d, ok := findDescriptor(descriptors, descriptorID)
	if !ok {
		return remote.ErrNotFound
	}
	return c.Client.DeleteDescriptor(ctx, d, locationID)
}

// Duplicate deep-copies a descriptor under a new id: "(Copy)" name suffix,
// disabled so it never goes live unreviewed, ordered right after the source.
func (c *Coordinator) Duplicate(ctx context.Context, locationID, descriptorID string) (*domain.Descriptor, error) {
	descriptors, err := c.Client.FetchDescriptors(ctx, locationID)
	if err != nil {
		return nil, err
	}
	src, ok := findDescriptor(descriptors, descriptorID)
	if !ok {
		return nil, remote.ErrNotFound
	}
	dup := src.Clone()
	dup.ID = uuid.New().String()
	dup.Name = src.Name + " (Copy)"
	dup.Enabled = false
	dup.OrdinalPosition = src.OrdinalPosition + 1
	if err := c.Client.SaveDescriptor(ctx, dup, locationID); err != nil {
		return nil, err
	}
	return &dup, nil
}

// AutoGenerateUpsells proposes upgradesTo entries for one descriptor from
// current availability numbers. Advisory only: nothing is saved here.
func (c *Coordinator) AutoGenerateUpsells(ctx context.Context, locationID, descriptorID string) ([]domain.UpgradeTarget, error) {
	descriptors, err := c.Client.FetchDescriptors(ctx, locationID)
	if err != nil {
		return nil, err
	}
	unitTypes, err := c.Client.FetchUnitTypes(ctx, locationID)
	if err != nil {
		return nil, err
	}
	current, ok := findDescriptor(descriptors, descriptorID)
	if !ok {
		return nil, remote.ErrNotFound
	}

	candidates := make([]suggest.Candidate, 0, len(descriptors))
	for _, d := range descriptors {
		if d.ID == descriptorID {
			continue
		}
		matched, _ := c.Matcher.Match(d, unitTypes)
		candidates = append(candidates, suggest.Candidate{
			Descriptor:   d,
			Availability: inventory.Aggregate(matched).Availability,
		})
	}
	return c.Engine.Suggest(current, candidates), nil
}

// CarouselAction reports one smart-carousel decision.
type CarouselAction struct {
	ID                  string  `json:"id"`
	Name                string  `json:"name"`
	OccupancyAtDecision float64 `json:"occupancyAtDecision"`
	Action              string  `json:"action"` // turned_on | turned_off
}

// SmartCarouselToggle turns the carousel off for fully occupied descriptors
// and back on otherwise, writing only where the desired value differs from
// the current one. Running it twice without occupancy changes yields an
// empty action list the second time.
func (c *Coordinator) SmartCarouselToggle(ctx context.Context, locationID string) ([]CarouselAction, *domain.BatchOperationResult, error) {
	descriptors, err := c.Client.FetchDescriptors(ctx, locationID)
	if err != nil {
		return nil, nil, err
	}
	unitTypes, err := c.Client.FetchUnitTypes(ctx, locationID)
	if err != nil {
		return nil, nil, err
	}

	res := &domain.BatchOperationResult{Operation: "smart_carousel_off"}
	var actions []CarouselAction
	for _, d := range descriptors {
		if !d.Enabled {
			continue
		}
		matched, _ := c.Matcher.Match(d, unitTypes)
		occupancy := inventory.Aggregate(matched).Occupancy
		desired := occupancy < 100
		if desired == d.UseForCarousel {
			continue
		}
		d.UseForCarousel = desired
		if err := c.Client.SaveDescriptor(ctx, d, locationID); err != nil {
			res.AddFailure(d.ID, err)
			continue
		}
		res.AddSuccess(d.ID)
		action := "turned_off"
		if desired {
			action = "turned_on"
		}
		actions = append(actions, CarouselAction{
			ID:                  d.ID,
			Name:                d.Name,
			OccupancyAtDecision: occupancy,
			Action:              action,
		})
	}
	c.recordAudit(ctx, locationID, res.Finish())
	return actions, res, nil
}

func (c *Coordinator) recordAudit(ctx context.Context, locationID string, res *domain.BatchOperationResult) {
	if c.Audit == nil {
		return
	}
	if err := c.Audit.RecordBatch(ctx, locationID, res); err != nil {
		// the audit trail must never fail the mutation it describes
		log.Warn().Str("operation", res.Operation).Err(err).Msg("audit write failed")
	}
}

func findDescriptor(descriptors []domain.Descriptor, id string) (domain.Descriptor, bool) {
	for _, d := range descriptors {
		if d.ID == id {
			return d.Clone(), true
		}
	}
	return domain.Descriptor{}, false
}

// DecodeFieldUpdate maps a wire {field, ...} payload onto the closed set of
// legal batch mutations.
func DecodeFieldUpdate(field string, value bool, dealID, coverageID, label string, targets []domain.UpgradeTarget) (domain.FieldUpdate, error) {
	switch field {
	case "enabled":
		return domain.SetEnabled{Value: value}, nil
	case "hidden":
		return domain.SetHidden{Value: value}, nil
	case "useForCarousel":
		return domain.SetCarousel{Value: value}, nil
	case "addDeal":
		return domain.AddDeal{DealID: dealID}, nil
	case "removeDeal":
		return domain.RemoveDeal{DealID: dealID}, nil
	case "insurance":
		return domain.SetInsurance{CoverageID: coverageID}, nil
	case "upsells":
		return domain.SetUpsells{Targets: targets}, nil
	case "groupLabel":
		return domain.SetGroupLabel{Label: label}, nil
	default:
		return nil, fmt.Errorf("Unknown batch field %q", field)
	}
}
