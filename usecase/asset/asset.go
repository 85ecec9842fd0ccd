package asset

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/stockroom/backend/domain"
	"github.com/stockroom/backend/pkg/patch"
	"github.com/stockroom/backend/repository"
)

// EventRecorder abstracts the audit recorder so the service stays
// storage-agnostic and testable.
type EventRecorder interface {
	Record(ctx context.Context, asset *domain.Asset, action domain.EventAction, actorID string, meta domain.EventMeta) (*domain.AssetEvent, error)
}

// Service owns every asset mutation. Each mutation is followed by exactly one
// event record; the event write happens after the asset write, and its
// failure propagates even though the asset mutation already committed.
type Service struct {
	assets   repository.AssetRepository
	events   repository.EventRepository
	users    repository.UserRepository
	recorder EventRecorder
	logger   *zap.Logger
}

func New(
	assets repository.AssetRepository,
	events repository.EventRepository,
	users repository.UserRepository,
	recorder EventRecorder,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		assets:   assets,
		events:   events,
		users:    users,
		recorder: recorder,
		logger:   logger,
	}
}

// CreateInput carries the fields for a new asset.
type CreateInput struct {
	Tag          string             `json:"tag"`
	Name         string             `json:"name"`
	Type         string             `json:"type"`
	Status       domain.AssetStatus `json:"status"`
	OwnerID      *string            `json:"ownerId"`
	PurchaseCost float64            `json:"purchaseCost"`
	Location     string             `json:"location"`
	Notes        string             `json:"notes"`
}

// Patch carries a partial update. Each field is tri-state: absent fields are
// left untouched, an explicit null for OwnerID clears ownership.
type Patch struct {
	Tag          patch.Field[string]             `json:"tag"`
	Name         patch.Field[string]             `json:"name"`
	Type         patch.Field[string]             `json:"type"`
	Status       patch.Field[domain.AssetStatus] `json:"status"`
	OwnerID      patch.Field[string]             `json:"ownerId"`
	PurchaseCost patch.Field[float64]            `json:"purchaseCost"`
	Location     patch.Field[string]             `json:"location"`
	Notes        patch.Field[string]             `json:"notes"`
}

// Create makes a new asset, defaulting status to ACTIVE, and emits
// ASSET_CREATED.
func (s *Service) Create(ctx context.Context, actorID string, input CreateInput) (*domain.Asset, error) {
	input.Tag = strings.TrimSpace(input.Tag)
	input.Name = strings.TrimSpace(input.Name)
	input.Type = strings.TrimSpace(input.Type)
	if input.Tag == "" || input.Name == "" || input.Type == "" {
		return nil, domain.NewError(domain.ErrCodeValidation, "tag, name and type are required")
	}
	if input.Status == "" {
		input.Status = domain.StatusActive
	}
	if !input.Status.Valid() {
		return nil, domain.NewError(domain.ErrCodeValidation, "invalid asset status")
	}
	if input.PurchaseCost < 0 {
		return nil, domain.NewError(domain.ErrCodeValidation, "purchaseCost must not be negative")
	}

	asset := &domain.Asset{
		Tag:          input.Tag,
		Name:         input.Name,
		Type:         input.Type,
		Status:       input.Status,
		OwnerID:      input.OwnerID,
		PurchaseCost: input.PurchaseCost,
		Location:     input.Location,
		Notes:        input.Notes,
	}

	created, err := s.assets.Create(ctx, asset)
	if err != nil {
		return nil, err
	}

	var meta domain.EventMeta
	if input.OwnerID != nil {
		meta = domain.CreatedMeta{OwnerID: input.OwnerID}
	}
	if _, err := s.recorder.Record(ctx, created, domain.ActionAssetCreated, actorID, meta); err != nil {
		return nil, err
	}

	return created, nil
}

// Update applies the fields present in the patch and emits ASSET_UPDATED
// carrying the changed-field map.
func (s *Service) Update(ctx context.Context, actorID, id string, p Patch) (*domain.Asset, error) {
	existing, err := s.assets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := make(map[string]any)

	if p.Tag.Present {
		tag, ok := p.Tag.Get()
		tag = strings.TrimSpace(tag)
		if !ok || tag == "" {
			return nil, domain.NewError(domain.ErrCodeValidation, "tag must not be empty")
		}
		existing.Tag = tag
		changes["tag"] = tag
	}
	if p.Name.Present {
		name, ok := p.Name.Get()
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, domain.NewError(domain.ErrCodeValidation, "name must not be empty")
		}
		existing.Name = name
		changes["name"] = name
	}
	if p.Type.Present {
		typ, ok := p.Type.Get()
		typ = strings.TrimSpace(typ)
		if !ok || typ == "" {
			return nil, domain.NewError(domain.ErrCodeValidation, "type must not be empty")
		}
		existing.Type = typ
		changes["type"] = typ
	}
	if p.Status.Present {
		status, ok := p.Status.Get()
		if !ok || !status.Valid() {
			return nil, domain.NewError(domain.ErrCodeValidation, "invalid asset status")
		}
		existing.Status = status
		changes["status"] = status
	}
	if p.OwnerID.Present {
		// Explicit null clears ownership; absent leaves it untouched.
		if owner, ok := p.OwnerID.Get(); ok {
			existing.OwnerID = &owner
			changes["ownerId"] = owner
		} else {
			existing.OwnerID = nil
			changes["ownerId"] = nil
		}
	}
	if p.PurchaseCost.Present {
		cost, ok := p.PurchaseCost.Get()
		if !ok || cost < 0 {
			return nil, domain.NewError(domain.ErrCodeValidation, "purchaseCost must not be negative")
		}
		existing.PurchaseCost = cost
		changes["purchaseCost"] = cost
	}
	if p.Location.Present {
		loc, _ := p.Location.Get()
		existing.Location = loc
		changes["location"] = loc
	}
	if p.Notes.Present {
		notes, _ := p.Notes.Get()
		existing.Notes = notes
		changes["notes"] = notes
	}

	if err := s.assets.Update(ctx, existing); err != nil {
		return nil, err
	}

	if _, err := s.recorder.Record(ctx, existing, domain.ActionAssetUpdated, actorID, domain.UpdatedMeta{Fields: changes}); err != nil {
		return nil, err
	}

	return existing, nil
}

// AssignOwner sets or clears the asset's owner. A nil ownerID unassigns and
// still emits an event even when the asset had no owner to begin with.
func (s *Service) AssignOwner(ctx context.Context, actorID, id string, ownerID *string) (*domain.Asset, error) {
	existing, err := s.assets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if ownerID != nil {
		if _, err := s.users.GetByID(ctx, *ownerID); err != nil {
			if domain.IsDomainError(err, domain.ErrCodeNotFound) {
				return nil, domain.ErrInvalidOwner
			}
			return nil, err
		}
	}

	existing.OwnerID = ownerID
	existing.Owner = nil
	if err := s.assets.Update(ctx, existing); err != nil {
		return nil, err
	}

	action := domain.ActionAssetAssigned
	if ownerID == nil {
		action = domain.ActionAssetUnassigned
	}
	if _, err := s.recorder.Record(ctx, existing, action, actorID, domain.AssignMeta{OwnerID: ownerID}); err != nil {
		return nil, err
	}

	return existing, nil
}

// SetStatus transitions the asset's lifecycle status. A no-op transition
// (same status twice) is deliberate and still audited.
func (s *Service) SetStatus(ctx context.Context, actorID, id string, status domain.AssetStatus) (*domain.Asset, error) {
	if !status.Valid() {
		return nil, domain.NewError(domain.ErrCodeValidation, "invalid asset status")
	}

	existing, err := s.assets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	from := existing.Status
	existing.Status = status
	if err := s.assets.Update(ctx, existing); err != nil {
		return nil, err
	}

	meta := domain.StatusChangeMeta{From: from, To: status}
	if _, err := s.recorder.Record(ctx, existing, domain.ActionAssetStatusChanged, actorID, meta); err != nil {
		return nil, err
	}

	return existing, nil
}

// Delete records ASSET_DELETED with the asset's final snapshot and then
// removes the row. The event is written first so a concurrent reader of the
// stream always sees a terminal event for a deleted asset.
func (s *Service) Delete(ctx context.Context, actorID, id string) error {
	existing, err := s.assets.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if _, err := s.recorder.Record(ctx, existing, domain.ActionAssetDeleted, actorID, nil); err != nil {
		return err
	}

	return s.assets.Delete(ctx, id)
}

// Get returns the asset plus its most recent events, newest first.
func (s *Service) Get(ctx context.Context, id string) (*domain.Asset, []domain.AssetEvent, error) {
	asset, err := s.assets.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	events, _, err := s.events.List(ctx, repository.EventFilter{AssetID: id, Limit: 100})
	if err != nil {
		return nil, nil, err
	}

	return asset, events, nil
}

// List returns one page of assets plus the total matching the filter.
func (s *Service) List(ctx context.Context, filter repository.AssetFilter) ([]domain.Asset, int, error) {
	return s.assets.List(ctx, filter)
}
