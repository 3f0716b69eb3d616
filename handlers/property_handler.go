package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ferreirogomes/pedacim/ledger"
)

// PropertyHandler lida com requisições HTTP relacionadas a propriedades.
type PropertyHandler struct {
	Ledger *ledger.Ledger
}

// NewPropertyHandler cria uma nova instância do handler de propriedades.
func NewPropertyHandler(l *ledger.Ledger) *PropertyHandler {
	return &PropertyHandler{Ledger: l}
}

// CreateProperty cadastra uma nova propriedade fracionada.
// POST /properties
func (h *PropertyHandler) CreateProperty(w http.ResponseWriter, r *http.Request) {
	var requestBody struct {
		Name          string `json:"name"`
		Description   string `json:"description"`
		ThumbnailURL  string `json:"thumbnail_url"`
		TotalShares   uint64 `json:"total_shares"`
		PricePerShare uint64 `json:"price_per_share"`
	}

	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if requestBody.Name == "" || requestBody.TotalShares == 0 {
		http.Error(w, "Nome e total de cotas são obrigatórios", http.StatusBadRequest)
		return
	}

	id, err := h.Ledger.CreateProperty(
		requestBody.Name,
		requestBody.Description,
		requestBody.ThumbnailURL,
		requestBody.TotalShares,
		requestBody.PricePerShare,
	)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]uint64{"id": id})
}

// GetProperty obtém a view de uma propriedade pelo ID.
// GET /properties/{id}
func (h *PropertyHandler) GetProperty(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "ID de propriedade inválido", http.StatusBadRequest)
		return
	}

	view, err := h.Ledger.GetProperty(id)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(view)
}

// ListProperties lista todas as propriedades. Estado vazio devolve lista
// vazia, nunca erro.
// GET /properties
func (h *PropertyHandler) ListProperties(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.Ledger.ListProperties())
}
