package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/quanghm/coindex/internal/services"
)

// PriceHandler exposes the price cache and on-demand fetches.
type PriceHandler struct {
	prices services.PriceService
	logger *zap.Logger
}

func NewPriceHandler(prices services.PriceService, logger *zap.Logger) *PriceHandler {
	return &PriceHandler{prices: prices, logger: logger}
}

// HandleList responds with every cached price entry.
// @Summary List cached prices
// @Tags prices
// @Produce json
// @Success 200 {array} models.AssetPrice
// @Router /prices [get]
func (h *PriceHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.prices.Entries())
}

// HandleFetch triggers a live lookup for one asset and returns the fetched
// unit price. Concurrent fetches for the same asset share one upstream call.
// @Summary Fetch a live price
// @Tags prices
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {string} string "Unknown asset id"
// @Failure 502 {string} string "Upstream failure"
// @Router /prices/{name}/fetch [post]
func (h *PriceHandler) HandleFetch(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	price, err := h.prices.FetchPrice(r.Context(), name)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"name":     name,
		"priceUsd": price,
	})
}
