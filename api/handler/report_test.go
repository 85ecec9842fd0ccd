package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/stockroom/backend/domain"
	"github.com/stockroom/backend/repository"
	reportUC "github.com/stockroom/backend/usecase/report"
)

type countsOnlyAssetRepo struct {
	repository.AssetRepository
	counts map[domain.AssetStatus]int
}

func (r countsOnlyAssetRepo) StatusCounts(context.Context) (map[domain.AssetStatus]int, error) {
	return r.counts, nil
}

func TestStatusCountsEndpoint(t *testing.T) {
	svc := reportUC.New(countsOnlyAssetRepo{
		counts: map[domain.AssetStatus]int{domain.StatusActive: 7, domain.StatusInRepair: 2},
	}, nil, nil, nil)
	h := NewReportHandler(svc, nil, nil)

	var ctx fasthttp.RequestCtx
	h.StatusCounts(&ctx)

	require.Equal(t, http.StatusOK, ctx.Response.StatusCode())

	var counts map[domain.AssetStatus]int
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &counts))
	require.Len(t, counts, len(domain.AssetStatuses))
	require.Equal(t, 7, counts[domain.StatusActive])
	require.Equal(t, 2, counts[domain.StatusInRepair])
	require.Equal(t, 0, counts[domain.StatusScrapped])
}
