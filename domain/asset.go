package domain

import "time"

// AssetStatus is the lifecycle state of a tracked asset.
type AssetStatus string

const (
	StatusActive   AssetStatus = "ACTIVE"
	StatusInRepair AssetStatus = "IN_REPAIR"
	StatusRetired  AssetStatus = "RETIRED"
	StatusLost     AssetStatus = "LOST"
	StatusScrapped AssetStatus = "SCRAPPED"
)

// AssetStatuses lists every valid status, in display order.
var AssetStatuses = []AssetStatus{
	StatusActive,
	StatusInRepair,
	StatusRetired,
	StatusLost,
	StatusScrapped,
}

// StatusMultipliers weight an asset's purchase cost by how usable it still is.
// Condition-based depreciation, not time-based.
var StatusMultipliers = map[AssetStatus]float64{
	StatusActive:   1.0,
	StatusInRepair: 0.5,
	StatusRetired:  0.0,
	StatusLost:     0.0,
	StatusScrapped: 0.0,
}

func (s AssetStatus) Valid() bool {
	_, ok := StatusMultipliers[s]
	return ok
}

// Asset represents a physical, trackable item.
type Asset struct {
	ID           string      `json:"id"`
	Tag          string      `json:"tag"`
	Name         string      `json:"name"`
	Type         string      `json:"type"`
	Status       AssetStatus `json:"status"`
	PurchaseCost float64     `json:"purchaseCost"`
	OwnerID      *string     `json:"ownerId"`
	Owner        *UserRef    `json:"owner,omitempty"`
	Location     string      `json:"location,omitempty"`
	Notes        string      `json:"notes,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

func (a *Asset) Touch() {
	if a == nil {
		return
	}
	a.UpdatedAt = time.Now()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = a.UpdatedAt
	}
}

// CurrentValue is the status-weighted valuation of this asset.
func (a *Asset) CurrentValue() float64 {
	if a == nil {
		return 0
	}
	return a.PurchaseCost * StatusMultipliers[a.Status]
}
