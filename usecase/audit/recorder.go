package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stockroom/backend/domain"
	"github.com/stockroom/backend/repository"
)

// Journal receives events whose primary insert failed so a reconciler can
// replay them later. Spilling is best-effort.
type Journal interface {
	Spill(event *domain.AssetEvent) error
}

// Recorder appends immutable audit rows for asset mutations. Inputs are
// trusted: the lifecycle service constructs them, so there is no validation
// here and only infrastructure failures propagate.
type Recorder struct {
	events  repository.EventRepository
	journal Journal
	logger  *zap.Logger
}

func New(events repository.EventRepository, journal Journal, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{
		events:  events,
		journal: journal,
		logger:  logger,
	}
}

// Record appends one event capturing the asset's state at this moment plus
// the action taken and the actor. On append failure the event is spilled to
// the journal for later replay, but the failure still propagates: the caller
// must surface that the audit trail is currently behind the asset store.
func (r *Recorder) Record(ctx context.Context, asset *domain.Asset, action domain.EventAction, actorID string, meta domain.EventMeta) (*domain.AssetEvent, error) {
	raw, err := domain.EncodeMeta(meta)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "failed to encode event metadata", err)
	}

	event := &domain.AssetEvent{
		ID:          uuid.NewString(),
		AssetID:     asset.ID,
		AssetTag:    asset.Tag,
		AssetName:   asset.Name,
		AssetType:   asset.Type,
		AssetStatus: asset.Status,
		Action:      action,
		CreatedBy:   actorID,
		Meta:        raw,
		CreatedAt:   time.Now(),
	}

	if err := r.events.Append(ctx, event); err != nil {
		r.spill(event, err)
		return nil, domain.WrapError(domain.ErrCodeInternal, "failed to record asset event", err)
	}
	return event, nil
}

func (r *Recorder) spill(event *domain.AssetEvent, cause error) {
	if r.journal == nil {
		return
	}
	if err := r.journal.Spill(event); err != nil {
		r.logger.Error("event lost: append and journal spill both failed",
			zap.String("event_id", event.ID),
			zap.String("asset_id", event.AssetID),
			zap.NamedError("append_error", cause),
			zap.Error(err))
		return
	}
	r.logger.Warn("asset event journaled for later replay",
		zap.String("event_id", event.ID),
		zap.String("asset_id", event.AssetID),
		zap.String("action", string(event.Action)),
		zap.Error(cause))
}
