package services

import (
	"context"
	"fmt"

	"github.com/ferreirogomes/pedacim/ledger"
	"github.com/ferreirogomes/pedacim/models"
)

// TokenHistoryProvider abstrai a única chamada feita ao serviço de token
// externo: o histórico completo de transações envolvendo a tesouraria.
// Falhas da chamada são repassadas ao chamador sem retentativa.
type TokenHistoryProvider interface {
	GetAllTransactions(ctx context.Context, tokenService string) ([]models.TokenTransaction, error)
}

// MarketplaceService orquestra compras de cotas: cotação contra o estado
// atual, verificação de depósito contra o serviço de token (com o ledger
// destravado) e commit condicional revalidado.
type MarketplaceService struct {
	Ledger   *ledger.Ledger
	Provider TokenHistoryProvider
	Treasury string // identidade de pagamento deste serviço (destino dos depósitos)
}

// NewMarketplaceService cria uma nova instância do serviço de marketplace.
func NewMarketplaceService(l *ledger.Ledger, provider TokenHistoryProvider, treasury string) *MarketplaceService {
	return &MarketplaceService{Ledger: l, Provider: provider, Treasury: treasury}
}

// UnconsumedDeposit recalcula, a partir do histórico completo do serviço de
// token, quanto depósito confirmado do pagador ainda não foi aplicado em
// compras. Recomputar do histórico a cada chamada evita manter um segundo
// ledger de depósitos que poderia divergir; o contador de consumo é o único
// estado persistido necessário contra re-gasto.
func (s *MarketplaceService) UnconsumedDeposit(ctx context.Context, payer string) (uint64, error) {
	tokenService, ok := s.Ledger.TokenService()
	if !ok {
		return 0, models.ErrTokenServiceNotSet
	}

	txs, err := s.Provider.GetAllTransactions(ctx, tokenService)
	if err != nil {
		return 0, fmt.Errorf("falha ao consultar histórico do serviço de token: %w", err)
	}

	var total uint64
	for _, tx := range txs {
		if tx.From == payer && tx.To == s.Treasury && tx.Type == models.TxTypeSend {
			total = ledger.SatAdd(total, tx.Amount)
		}
	}
	return ledger.SatSub(total, s.Ledger.ConsumedBy(payer)), nil
}

// BuyShares executa o protocolo de compra em duas fases para o principal
// chamador. O preço é fixado na cotação; durante a verificação do depósito
// o ledger fica livre para outras operações, e por isso a disponibilidade é
// reverificada no commit. Devolve a quantidade de cotas compradas.
func (s *MarketplaceService) BuyShares(ctx context.Context, buyer string, propertyID, shares uint64) (uint64, error) {
	required, err := s.Ledger.Quote(propertyID, shares)
	if err != nil {
		return 0, err
	}

	available, err := s.UnconsumedDeposit(ctx, buyer)
	if err != nil {
		return 0, err
	}
	if available < required {
		return 0, models.ErrNotEnoughShares
	}

	// O estado pode ter mudado durante a chamada externa; o commit revalida
	// e aplica posse + consumo atomicamente.
	if err := s.Ledger.CommitPurchase(propertyID, buyer, shares, required); err != nil {
		return 0, err
	}
	return shares, nil
}
