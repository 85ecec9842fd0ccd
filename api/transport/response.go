package transport

import "github.com/stockroom/backend/domain"

// ErrorBody is the uniform error response: a human-readable message plus a
// machine-readable code.
type ErrorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// AuthResponse pairs the authenticated user with the issued token. The token
// is also set as a cookie; it appears in the body for non-browser clients.
type AuthResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

// AssetDetail is an asset plus its recent event history.
type AssetDetail struct {
	Asset  *domain.Asset       `json:"asset"`
	Events []domain.AssetEvent `json:"events"`
}

// MovementResult returns the stock row after a movement together with the
// appended log entry.
type MovementResult struct {
	Stock    *domain.ConsumableStock `json:"stock"`
	Movement *domain.StockMovement   `json:"movement"`
}
