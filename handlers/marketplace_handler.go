package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ferreirogomes/pedacim/services"
)

// MarketplaceHandler lida com compras e transferências de cotas.
type MarketplaceHandler struct {
	Service *services.MarketplaceService
}

// NewMarketplaceHandler cria uma nova instância do handler de marketplace.
func NewMarketplaceHandler(s *services.MarketplaceService) *MarketplaceHandler {
	return &MarketplaceHandler{Service: s}
}

// BuyShares compra cotas de uma propriedade para o principal chamador,
// condicionado ao depósito já confirmado no serviço de token.
// POST /properties/{id}/buy
func (h *MarketplaceHandler) BuyShares(w http.ResponseWriter, r *http.Request) {
	buyer := callerPrincipal(r)
	if buyer == "" {
		http.Error(w, "Principal não informado", http.StatusUnauthorized)
		return
	}

	propertyID, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "ID de propriedade inválido", http.StatusBadRequest)
		return
	}

	var requestBody struct {
		Shares uint64 `json:"shares"`
	}
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	bought, err := h.Service.BuyShares(r.Context(), buyer, propertyID, requestBody.Shares)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]uint64{"shares_bought": bought})
}

// TransferShares transfere cotas do principal chamador para outro dono.
// Não passa pelo serviço de token: transferência move posse existente, não
// cria cotas.
// POST /properties/{id}/transfer
func (h *MarketplaceHandler) TransferShares(w http.ResponseWriter, r *http.Request) {
	from := callerPrincipal(r)
	if from == "" {
		http.Error(w, "Principal não informado", http.StatusUnauthorized)
		return
	}

	propertyID, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "ID de propriedade inválido", http.StatusBadRequest)
		return
	}

	var requestBody struct {
		To     string `json:"to"`
		Shares uint64 `json:"shares"`
	}
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if requestBody.To == "" {
		http.Error(w, "Destinatário é obrigatório", http.StatusBadRequest)
		return
	}

	if err := h.Service.Ledger.Transfer(propertyID, from, requestBody.To, requestBody.Shares); err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
