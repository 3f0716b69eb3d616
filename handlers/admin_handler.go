package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ferreirogomes/pedacim/ledger"
)

// SnapshotStore é o destino durável dos snapshots do ledger.
type SnapshotStore interface {
	SaveSnapshot(data []byte) error
}

// AdminHandler lida com operações administrativas: configuração do serviço
// de token e snapshot sob demanda.
type AdminHandler struct {
	Ledger *ledger.Ledger
	Store  SnapshotStore
}

// NewAdminHandler cria uma nova instância do handler administrativo.
func NewAdminHandler(l *ledger.Ledger, store SnapshotStore) *AdminHandler {
	return &AdminHandler{Ledger: l, Store: store}
}

// SetTokenService configura o principal do serviço de token usado na
// verificação de depósitos. Nenhuma checagem de alcançabilidade é feita.
// PUT /config/token-service
func (h *AdminHandler) SetTokenService(w http.ResponseWriter, r *http.Request) {
	var requestBody struct {
		Principal string `json:"principal"`
	}
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if requestBody.Principal == "" {
		http.Error(w, "Principal do serviço de token é obrigatório", http.StatusBadRequest)
		return
	}

	h.Ledger.SetTokenService(requestBody.Principal)
	w.WriteHeader(http.StatusNoContent)
}

// TakeSnapshot serializa o estado atual e o grava no armazenamento durável.
// Útil antes de um deploy; o desligamento controlado também grava um.
// POST /admin/snapshot
func (h *AdminHandler) TakeSnapshot(w http.ResponseWriter, r *http.Request) {
	data, err := h.Ledger.Snapshot()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := h.Store.SaveSnapshot(data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Healthz responde à sonda de liveness.
// GET /healthz
func (h *AdminHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
