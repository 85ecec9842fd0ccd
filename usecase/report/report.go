package report

import (
	"context"

	"go.uber.org/zap"

	"github.com/stockroom/backend/domain"
	"github.com/stockroom/backend/repository"
)

// Service computes read-only aggregations over the live asset and stock
// tables. Reports are recomputed on demand, never cached.
type Service struct {
	assets  repository.AssetRepository
	stock   repository.StockRepository
	tickets repository.TicketRepository
	logger  *zap.Logger
}

func New(
	assets repository.AssetRepository,
	stock repository.StockRepository,
	tickets repository.TicketRepository,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		assets:  assets,
		stock:   stock,
		tickets: tickets,
		logger:  logger,
	}
}

// StatusSlice is one status bucket of the valuation report.
type StatusSlice struct {
	Count int     `json:"count"`
	Value float64 `json:"value"`
}

// Valuation is the full valuation report: a per-status breakdown and the
// multiplier-weighted total.
type Valuation struct {
	TotalAssets int                                `json:"totalAssets"`
	TotalValue  float64                            `json:"totalValue"`
	ByStatus    map[domain.AssetStatus]StatusSlice `json:"byStatus"`
}

// Summary is the dashboard roll-up.
type Summary struct {
	TotalAssets     int                        `json:"totalAssets"`
	TotalValue      float64                    `json:"totalValue"`
	StatusCounts    map[domain.AssetStatus]int `json:"statusCounts"`
	LowStockCount   int                        `json:"lowStockCount"`
	OpenTicketCount int                        `json:"openTicketCount"`
}

// StatusCounts returns the number of assets per lifecycle status. Every
// status appears in the map, zero-valued when no asset holds it.
func (s *Service) StatusCounts(ctx context.Context) (map[domain.AssetStatus]int, error) {
	counts, err := s.assets.StatusCounts(ctx)
	if err != nil {
		return nil, err
	}

	full := make(map[domain.AssetStatus]int, len(domain.AssetStatuses))
	for _, status := range domain.AssetStatuses {
		full[status] = counts[status]
	}
	return full, nil
}

// Valuation weights each status bucket's purchase-cost sum by the status
// multiplier. Retired, lost and scrapped assets contribute nothing.
func (s *Service) Valuation(ctx context.Context) (*Valuation, error) {
	counts, err := s.assets.StatusCounts(ctx)
	if err != nil {
		return nil, err
	}
	costs, err := s.assets.CostByStatus(ctx)
	if err != nil {
		return nil, err
	}

	report := &Valuation{
		ByStatus: make(map[domain.AssetStatus]StatusSlice, len(domain.AssetStatuses)),
	}
	for _, status := range domain.AssetStatuses {
		slice := StatusSlice{
			Count: counts[status],
			Value: costs[status] * domain.StatusMultipliers[status],
		}
		report.ByStatus[status] = slice
		report.TotalAssets += slice.Count
		report.TotalValue += slice.Value
	}
	return report, nil
}

// LowStock returns every consumable stock record at or below its product's
// reorder level, most depleted first.
func (s *Service) LowStock(ctx context.Context) ([]domain.ConsumableStock, error) {
	return s.stock.LowStock(ctx)
}

// Summary assembles the dashboard view: asset counts and value, low-stock
// records and open service tickets.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	valuation, err := s.Valuation(ctx)
	if err != nil {
		return nil, err
	}

	low, err := s.stock.LowStock(ctx)
	if err != nil {
		return nil, err
	}

	_, openTickets, err := s.tickets.List(ctx, repository.TicketFilter{OpenOnly: true, Limit: 1})
	if err != nil {
		return nil, err
	}

	counts := make(map[domain.AssetStatus]int, len(valuation.ByStatus))
	for status, slice := range valuation.ByStatus {
		counts[status] = slice.Count
	}

	return &Summary{
		TotalAssets:     valuation.TotalAssets,
		TotalValue:      valuation.TotalValue,
		StatusCounts:    counts,
		LowStockCount:   len(low),
		OpenTicketCount: openTickets,
	}, nil
}
