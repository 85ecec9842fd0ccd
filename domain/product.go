package domain

import "time"

// ProductKind distinguishes trackable assets from bulk consumables.
type ProductKind string

const (
	KindAsset      ProductKind = "ASSET"
	KindConsumable ProductKind = "CONSUMABLE"
)

func (k ProductKind) Valid() bool {
	return k == KindAsset || k == KindConsumable
}

// Product is a catalog entry assets and consumable stock refer to.
type Product struct {
	ID           string      `json:"id"`
	SKU          string      `json:"sku"`
	Name         string      `json:"name"`
	Kind         ProductKind `json:"kind"`
	DefaultCost  float64     `json:"defaultCost"`
	ReorderLevel int         `json:"reorderLevel"`
	Category     string      `json:"category,omitempty"`
	Description  string      `json:"description,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// ConsumableStock tracks the on-hand quantity of a consumable product.
type ConsumableStock struct {
	ID       string   `json:"id"`
	ProductID string  `json:"productId"`
	Product  *Product `json:"product,omitempty"`
	Quantity int      `json:"quantity"`
	UnitCost float64  `json:"unitCost"`
	Location string   `json:"location,omitempty"`
}

// IsLow reports whether quantity has fallen to or below the product's
// reorder level. Without a product reference there is no threshold.
func (s *ConsumableStock) IsLow() bool {
	return s != nil && s.Product != nil && s.Quantity <= s.Product.ReorderLevel
}

// MovementType tags a stock movement.
type MovementType string

const (
	MovementReceive MovementType = "RECEIVE"
	MovementIssue   MovementType = "ISSUE"
	MovementAdjust  MovementType = "ADJUST"
)

func (t MovementType) Valid() bool {
	return t == MovementReceive || t == MovementIssue || t == MovementAdjust
}

// StockMovement is an append-only record of one stock quantity change,
// capturing the before/after quantities the same way asset events snapshot
// asset state.
type StockMovement struct {
	ID               string       `json:"id"`
	ProductID        string       `json:"productId"`
	Type             MovementType `json:"type"`
	Quantity         int          `json:"quantity"`
	PreviousQuantity int          `json:"previousQuantity"`
	NewQuantity      int          `json:"newQuantity"`
	Note             string       `json:"note,omitempty"`
	PerformedBy      string       `json:"performedBy"`
	PerformedAt      time.Time    `json:"performedAt"`
}
