package handlers

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/quanghm/coindex/internal/services"
)

// PortfolioHandler serves the aggregated cross-wallet views.
type PortfolioHandler struct {
	portfolio services.PortfolioService
	prices    services.PriceService
	logger    *zap.Logger
}

func NewPortfolioHandler(portfolio services.PortfolioService, prices services.PriceService, logger *zap.Logger) *PortfolioHandler {
	return &PortfolioHandler{portfolio: portfolio, prices: prices, logger: logger}
}

// HandleSummary responds with per-asset totals and the portfolio value.
// @Summary Aggregated portfolio summary
// @Tags portfolio
// @Produce json
// @Success 200 {object} models.PortfolioSummary
// @Router /portfolio/summary [get]
func (h *PortfolioHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	wallets, err := h.portfolio.Wallets(r.Context(), OwnerFrom(r.Context()))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, services.Summarize(wallets, h.prices))
}

// HandleExport streams the portfolio as an xlsx workbook.
// @Summary Export portfolio workbook
// @Tags portfolio
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Router /portfolio/export [get]
func (h *PortfolioHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	wallets, err := h.portfolio.Wallets(r.Context(), OwnerFrom(r.Context()))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	summary := services.Summarize(wallets, h.prices)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", services.ExportFileName))

	if err := services.WriteWorkbook(w, services.BuildSummaryTable(summary), services.BuildDetailTable(wallets)); err != nil {
		h.logger.Error("Failed to write export workbook", zap.Error(err))
	}
}
