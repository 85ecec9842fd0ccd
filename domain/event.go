package domain

import (
	"encoding/json"
	"time"
)

// EventAction tags the mutation an AssetEvent records.
type EventAction string

const (
	ActionAssetCreated       EventAction = "ASSET_CREATED"
	ActionAssetUpdated       EventAction = "ASSET_UPDATED"
	ActionAssetAssigned      EventAction = "ASSET_ASSIGNED"
	ActionAssetUnassigned    EventAction = "ASSET_UNASSIGNED"
	ActionAssetStatusChanged EventAction = "ASSET_STATUS_CHANGED"
	ActionAssetDeleted       EventAction = "ASSET_DELETED"
)

// AssetEvent is an immutable audit record of one asset mutation. The snapshot
// fields are stored redundantly so history survives renames and deletion.
type AssetEvent struct {
	ID          string          `json:"id"`
	AssetID     string          `json:"assetId"`
	AssetTag    string          `json:"assetTag"`
	AssetName   string          `json:"assetName"`
	AssetType   string          `json:"assetType"`
	AssetStatus AssetStatus     `json:"assetStatus"`
	Action      EventAction     `json:"action"`
	CreatedBy   string          `json:"createdBy"`
	Actor       *UserRef        `json:"actor,omitempty"`
	Meta        json.RawMessage `json:"meta,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// EventMeta is the closed set of per-action metadata payloads. Each action has
// its own variant so consumers never have to guess the shape of the blob.
type EventMeta interface {
	Action() EventAction
}

// CreatedMeta accompanies ASSET_CREATED when an owner was supplied at creation.
type CreatedMeta struct {
	OwnerID *string `json:"ownerId,omitempty"`
}

func (CreatedMeta) Action() EventAction { return ActionAssetCreated }

// UpdatedMeta carries the fields a partial update actually changed. A nil map
// value records an explicit clear.
type UpdatedMeta struct {
	Fields map[string]any `json:"fields"`
}

func (UpdatedMeta) Action() EventAction { return ActionAssetUpdated }

// AssignMeta accompanies ASSET_ASSIGNED and ASSET_UNASSIGNED. OwnerID is null
// for an unassignment.
type AssignMeta struct {
	OwnerID *string `json:"ownerId"`
}

func (AssignMeta) Action() EventAction { return ActionAssetAssigned }

// StatusChangeMeta records the transition, including no-op transitions where
// from equals to.
type StatusChangeMeta struct {
	From AssetStatus `json:"from"`
	To   AssetStatus `json:"to"`
}

func (StatusChangeMeta) Action() EventAction { return ActionAssetStatusChanged }

// EncodeMeta serializes a metadata variant for storage. A nil meta yields nil.
func EncodeMeta(meta EventMeta) (json.RawMessage, error) {
	if meta == nil {
		return nil, nil
	}
	return json.Marshal(meta)
}

// DecodeMeta parses a stored metadata blob back into its typed variant based
// on the event action. Actions without metadata return nil.
func DecodeMeta(action EventAction, raw json.RawMessage) (EventMeta, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	switch action {
	case ActionAssetCreated:
		var m CreatedMeta
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, err
		}
		return m, nil
	case ActionAssetUpdated:
		var m UpdatedMeta
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, err
		}
		return m, nil
	case ActionAssetAssigned, ActionAssetUnassigned:
		var m AssignMeta
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, err
		}
		return m, nil
	case ActionAssetStatusChanged:
		var m StatusChangeMeta
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, nil
	}
}
