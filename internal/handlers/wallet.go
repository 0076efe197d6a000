package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/quanghm/coindex/internal/services"
)

// WalletHandler exposes wallet and asset mutations over HTTP.
type WalletHandler struct {
	portfolio services.PortfolioService
	logger    *zap.Logger
}

func NewWalletHandler(portfolio services.PortfolioService, logger *zap.Logger) *WalletHandler {
	return &WalletHandler{portfolio: portfolio, logger: logger}
}

// HandleList responds with the full wallet collection.
// @Summary List wallets
// @Tags wallets
// @Produce json
// @Success 200 {array} models.Wallet
// @Router /wallets [get]
func (h *WalletHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	wallets, err := h.portfolio.Wallets(r.Context(), OwnerFrom(r.Context()))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, wallets)
}

// HandleCreate adds a wallet.
// @Summary Create a wallet
// @Tags wallets
// @Accept json
// @Produce json
// @Success 201 {object} models.Wallet
// @Failure 400 {string} string "Invalid request"
// @Router /wallets [post]
func (h *WalletHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	wallet, err := h.portfolio.AddWallet(r.Context(), OwnerFrom(r.Context()), body.Name)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, wallet)
}

// HandleDelete removes a wallet and all of its assets.
// @Summary Delete a wallet
// @Tags wallets
// @Produce json
// @Success 204
// @Router /wallets/{id} [delete]
func (h *WalletHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	walletID := mux.Vars(r)["id"]
	if err := h.portfolio.DeleteWallet(r.Context(), OwnerFrom(r.Context()), walletID); err != nil {
		respondError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleCreateAsset adds an asset to a wallet. The amount arrives as text
// and is validated before any backend call.
// @Summary Add an asset to a wallet
// @Tags wallets
// @Accept json
// @Produce json
// @Success 201 {object} models.Asset
// @Failure 400 {string} string "Invalid request"
// @Router /wallets/{id}/assets [post]
func (h *WalletHandler) HandleCreateAsset(w http.ResponseWriter, r *http.Request) {
	walletID := mux.Vars(r)["id"]

	var body struct {
		Name   string `json:"name"`
		Amount string `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	asset, err := h.portfolio.AddAsset(r.Context(), OwnerFrom(r.Context()), walletID, body.Name, body.Amount)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, asset)
}

// HandleDeleteAsset removes one asset from a wallet.
// @Summary Delete an asset
// @Tags wallets
// @Produce json
// @Success 204
// @Router /wallets/{id}/assets/{assetId} [delete]
func (h *WalletHandler) HandleDeleteAsset(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.portfolio.DeleteAsset(r.Context(), OwnerFrom(r.Context()), vars["id"], vars["assetId"]); err != nil {
		respondError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
