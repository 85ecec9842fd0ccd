package transport

import "github.com/stockroom/backend/domain"

// AssignRequest sets or clears an asset's owner. A JSON null ownerId
// unassigns.
type AssignRequest struct {
	OwnerID *string `json:"ownerId"`
}

// StatusRequest transitions an asset's lifecycle status.
type StatusRequest struct {
	Status domain.AssetStatus `json:"status"`
}

// RoleRequest grants or revokes the admin role.
type RoleRequest struct {
	Role domain.Role `json:"role"`
}
