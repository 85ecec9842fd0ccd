package domain

import "time"

// ServiceTicket tracks a repair/service issue raised against an asset.
type ServiceTicket struct {
	ID         string     `json:"id"`
	AssetID    string     `json:"assetId"`
	Issue      string     `json:"issue"`
	Vendor     string     `json:"vendor,omitempty"`
	OpenedBy   string     `json:"openedBy"`
	OpenedAt   time.Time  `json:"openedAt"`
	ClosedAt   *time.Time `json:"closedAt"`
	Resolution string     `json:"resolution,omitempty"`
	Cost       *float64   `json:"cost,omitempty"`
}

func (t *ServiceTicket) IsOpen() bool {
	return t != nil && t.ClosedAt == nil
}
