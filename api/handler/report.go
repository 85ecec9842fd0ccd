package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/stockroom/backend/domain"
	"github.com/stockroom/backend/pkg/httpcontext"
	reportUC "github.com/stockroom/backend/usecase/report"
)

type ReportHandler struct {
	baseHandler
	uc *reportUC.Service
}

func NewReportHandler(uc *reportUC.Service, adapter *httpcontext.Adapter, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Dashboard summary
// @Tags reports
// @Router /api/v1/reports/summary [get]
func (h *ReportHandler) Summary(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	summary, err := h.uc.Summary(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, summary)
}

// @Summary Assets per lifecycle status
// @Tags reports
// @Router /api/v1/reports/status-counts [get]
func (h *ReportHandler) StatusCounts(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	counts, err := h.uc.StatusCounts(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, counts)
}

// @Summary Asset valuation report
// @Tags reports
// @Router /api/v1/reports/valuation [get]
func (h *ReportHandler) Valuation(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	valuation, err := h.uc.Valuation(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, valuation)
}

// @Summary Low stock report
// @Tags reports
// @Router /api/v1/stock/low [get]
func (h *ReportHandler) LowStock(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	low, err := h.uc.LowStock(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	if low == nil {
		low = []domain.ConsumableStock{}
	}
	h.respondJSON(ctx, http.StatusOK, low)
}
