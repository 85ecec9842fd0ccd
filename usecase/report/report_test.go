package report

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stockroom/backend/domain"
	"github.com/stockroom/backend/repository"
)

type stubAssetRepo struct {
	counts map[domain.AssetStatus]int
	costs  map[domain.AssetStatus]float64
}

func (r *stubAssetRepo) GetByID(context.Context, string) (*domain.Asset, error) {
	return nil, domain.ErrAssetNotFound
}

func (r *stubAssetRepo) List(context.Context, repository.AssetFilter) ([]domain.Asset, int, error) {
	return nil, 0, nil
}

func (r *stubAssetRepo) Create(_ context.Context, a *domain.Asset) (*domain.Asset, error) {
	return a, nil
}

func (r *stubAssetRepo) Update(context.Context, *domain.Asset) error { return nil }

func (r *stubAssetRepo) Delete(context.Context, string) error { return nil }

func (r *stubAssetRepo) StatusCounts(context.Context) (map[domain.AssetStatus]int, error) {
	return r.counts, nil
}

func (r *stubAssetRepo) CostByStatus(context.Context) (map[domain.AssetStatus]float64, error) {
	return r.costs, nil
}

type stubStockRepo struct {
	low []domain.ConsumableStock
}

func (r *stubStockRepo) GetByProduct(context.Context, string) (*domain.ConsumableStock, error) {
	return nil, domain.ErrStockNotFound
}

func (r *stubStockRepo) List(context.Context, repository.StockFilter) ([]domain.ConsumableStock, int, error) {
	return nil, 0, nil
}

func (r *stubStockRepo) Upsert(context.Context, *domain.ConsumableStock) error { return nil }

func (r *stubStockRepo) LowStock(context.Context) ([]domain.ConsumableStock, error) {
	return r.low, nil
}

func (r *stubStockRepo) AppendMovement(context.Context, *domain.StockMovement) error { return nil }

func (r *stubStockRepo) ListMovements(context.Context, string, int, int) ([]domain.StockMovement, int, error) {
	return nil, 0, nil
}

type stubTicketRepo struct {
	open int
}

func (r *stubTicketRepo) GetByID(context.Context, string) (*domain.ServiceTicket, error) {
	return nil, domain.ErrTicketNotFound
}

func (r *stubTicketRepo) List(_ context.Context, filter repository.TicketFilter) ([]domain.ServiceTicket, int, error) {
	if filter.OpenOnly {
		return nil, r.open, nil
	}
	return nil, 0, nil
}

func (r *stubTicketRepo) Create(_ context.Context, t *domain.ServiceTicket) (*domain.ServiceTicket, error) {
	return t, nil
}

func (r *stubTicketRepo) Update(context.Context, *domain.ServiceTicket) error { return nil }

func TestStatusCountsFillsEveryStatus(t *testing.T) {
	svc := New(&stubAssetRepo{
		counts: map[domain.AssetStatus]int{domain.StatusActive: 3, domain.StatusLost: 1},
	}, &stubStockRepo{}, &stubTicketRepo{}, nil)

	counts, err := svc.StatusCounts(context.Background())
	require.NoError(t, err)
	require.Len(t, counts, len(domain.AssetStatuses))
	require.Equal(t, 3, counts[domain.StatusActive])
	require.Equal(t, 1, counts[domain.StatusLost])
	require.Equal(t, 0, counts[domain.StatusRetired])
	require.Equal(t, 0, counts[domain.StatusInRepair])
	require.Equal(t, 0, counts[domain.StatusScrapped])
}

func TestValuationWeightsByMultiplier(t *testing.T) {
	svc := New(&stubAssetRepo{
		counts: map[domain.AssetStatus]int{
			domain.StatusActive:   2,
			domain.StatusInRepair: 1,
			domain.StatusRetired:  1,
			domain.StatusLost:     1,
		},
		costs: map[domain.AssetStatus]float64{
			domain.StatusActive:   1000,
			domain.StatusInRepair: 400,
			domain.StatusRetired:  900,
			domain.StatusLost:     250,
		},
	}, &stubStockRepo{}, &stubTicketRepo{}, nil)

	valuation, err := svc.Valuation(context.Background())
	require.NoError(t, err)

	// 1000*1.0 + 400*0.5; retired and lost contribute nothing
	require.InDelta(t, 1200.0, valuation.TotalValue, 1e-9)
	require.Equal(t, 5, valuation.TotalAssets)
	require.InDelta(t, 1000.0, valuation.ByStatus[domain.StatusActive].Value, 1e-9)
	require.InDelta(t, 200.0, valuation.ByStatus[domain.StatusInRepair].Value, 1e-9)
	require.InDelta(t, 0.0, valuation.ByStatus[domain.StatusRetired].Value, 1e-9)
	require.InDelta(t, 0.0, valuation.ByStatus[domain.StatusScrapped].Value, 1e-9)
}

func TestValuationEmptyInventory(t *testing.T) {
	svc := New(&stubAssetRepo{}, &stubStockRepo{}, &stubTicketRepo{}, nil)

	valuation, err := svc.Valuation(context.Background())
	require.NoError(t, err)
	require.Zero(t, valuation.TotalAssets)
	require.Zero(t, valuation.TotalValue)
	require.Len(t, valuation.ByStatus, len(domain.AssetStatuses))
}

func TestSummary(t *testing.T) {
	reorder := domain.Product{ID: "p1", ReorderLevel: 10}
	svc := New(
		&stubAssetRepo{
			counts: map[domain.AssetStatus]int{domain.StatusActive: 4},
			costs:  map[domain.AssetStatus]float64{domain.StatusActive: 2000},
		},
		&stubStockRepo{low: []domain.ConsumableStock{
			{ID: "s1", ProductID: "p1", Product: &reorder, Quantity: 2},
		}},
		&stubTicketRepo{open: 3},
		nil,
	)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	require.Equal(t, 4, summary.TotalAssets)
	require.InDelta(t, 2000.0, summary.TotalValue, 1e-9)
	require.Equal(t, 1, summary.LowStockCount)
	require.Equal(t, 3, summary.OpenTicketCount)
	require.Equal(t, 4, summary.StatusCounts[domain.StatusActive])
}
