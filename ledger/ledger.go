package ledger

import (
	"sort"
	"sync"

	"github.com/ferreirogomes/pedacim/models"
)

// state é o agregado raiz do ledger: propriedades, contador de IDs, o
// serviço de token configurado e os contadores de depósito já consumido.
// Os campos são exportados apenas para a serialização do snapshot.
type state struct {
	Properties     map[uint64]*models.Property `json:"properties"`
	NextPropertyID uint64                      `json:"next_property_id"`
	TokenService   string                      `json:"token_service,omitempty"`
	ConsumedByUser map[string]uint64           `json:"consumed_by_user"`
}

func newState() state {
	return state{
		Properties:     make(map[uint64]*models.Property),
		ConsumedByUser: make(map[string]uint64),
	}
}

// Ledger é a fonte de verdade em memória. Um único mutex protege todo o
// estado; nenhuma seção crítica faz chamada externa, então o lock nunca é
// mantido através de uma espera.
type Ledger struct {
	mu    sync.Mutex
	state state
}

// New cria um ledger vazio.
func New() *Ledger {
	return &Ledger{state: newState()}
}

// CreateProperty registra uma nova propriedade com todas as cotas à venda e
// devolve o ID alocado. IDs são monotônicos e nunca reutilizados; encontrar
// o ID já ocupado é violação de invariante interna.
func (l *Ledger) CreateProperty(name, description, thumbnailURL string, totalShares, pricePerShare uint64) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := l.state.NextPropertyID
	if _, exists := l.state.Properties[id]; exists {
		return 0, models.ErrAlreadyExists
	}

	l.state.Properties[id] = &models.Property{
		ID:              id,
		Name:            name,
		Description:     description,
		ThumbnailURL:    thumbnailURL,
		PricePerShare:   pricePerShare,
		TotalShares:     totalShares,
		AvailableShares: totalShares,
		Owners:          make(map[string]uint64),
	}
	l.state.NextPropertyID++
	return id, nil
}

// GetProperty devolve a view de uma propriedade.
func (l *Ledger) GetProperty(id uint64) (models.PropertyView, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, ok := l.state.Properties[id]
	if !ok {
		return models.PropertyView{}, models.ErrPropertyNotFound
	}
	return viewOf(p), nil
}

// ListProperties devolve a view de todas as propriedades, ordenadas por ID.
func (l *Ledger) ListProperties() []models.PropertyView {
	l.mu.Lock()
	defer l.mu.Unlock()

	views := make([]models.PropertyView, 0, len(l.state.Properties))
	ids := make([]uint64, 0, len(l.state.Properties))
	for id := range l.state.Properties {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		views = append(views, viewOf(l.state.Properties[id]))
	}
	return views
}

// Transfer move cotas entre donos sem alterar total nem disponibilidade.
// Exige que from possua alguma participação (ErrNotAuthorized) e cotas
// suficientes (ErrNotEnoughShares); entradas zeradas são removidas.
func (l *Ledger) Transfer(propertyID uint64, from, to string, shares uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, ok := l.state.Properties[propertyID]
	if !ok {
		return models.ErrPropertyNotFound
	}

	held, ok := p.Owners[from]
	if !ok {
		return models.ErrNotAuthorized
	}
	if held < shares {
		return models.ErrNotEnoughShares
	}

	held -= shares
	if held == 0 {
		delete(p.Owners, from)
	} else {
		p.Owners[from] = held
	}
	if shares > 0 {
		p.Owners[to] += shares
	}
	return nil
}

// Quote lê o preço por cota no estado atual e devolve o custo total da
// compra (multiplicação saturada). O preço cotado aqui vale para a compra
// inteira, mesmo que o preço mude durante a verificação do depósito.
func (l *Ledger) Quote(propertyID uint64, shares uint64) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, ok := l.state.Properties[propertyID]
	if !ok {
		return 0, models.ErrPropertyNotFound
	}
	return SatMul(p.PricePerShare, shares), nil
}

// CommitPurchase revalida a disponibilidade contra o estado atual e aplica,
// em uma única seção crítica, a mudança de posse e o incremento do contador
// de consumo do comprador. Se a revalidação falha nada é alterado e o
// depósito do comprador continua não consumido.
func (l *Ledger) CommitPurchase(propertyID uint64, buyer string, shares, consumed uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, ok := l.state.Properties[propertyID]
	if !ok {
		return models.ErrPropertyNotFound
	}
	if shares > p.AvailableShares {
		return models.ErrNotEnoughShares
	}

	if shares > 0 {
		p.Owners[buyer] += shares
		p.AvailableShares -= shares
	}
	l.state.ConsumedByUser[buyer] = SatAdd(l.state.ConsumedByUser[buyer], consumed)
	return nil
}

// SetTokenService registra o principal do serviço de token usado na
// reconciliação de depósitos. Nenhuma verificação de alcançabilidade é
// feita aqui.
func (l *Ledger) SetTokenService(principal string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state.TokenService = principal
}

// TokenService devolve o serviço de token configurado, se houver.
func (l *Ledger) TokenService() (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.TokenService, l.state.TokenService != ""
}

// ConsumedBy devolve o total de depósito do pagador já aplicado em compras.
// O contador nunca diminui ao longo da vida do sistema.
func (l *Ledger) ConsumedBy(payer string) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.ConsumedByUser[payer]
}

// viewOf materializa uma view imutável; o chamador deve segurar o mutex.
func viewOf(p *models.Property) models.PropertyView {
	owners := make([]models.OwnerShare, 0, len(p.Owners))
	for owner, shares := range p.Owners {
		owners = append(owners, models.OwnerShare{Owner: owner, Shares: shares})
	}
	sort.Slice(owners, func(i, j int) bool { return owners[i].Owner < owners[j].Owner })

	return models.PropertyView{
		ID:              p.ID,
		Name:            p.Name,
		Description:     p.Description,
		ThumbnailURL:    p.ThumbnailURL,
		PricePerShare:   p.PricePerShare,
		TotalShares:     p.TotalShares,
		AvailableShares: p.AvailableShares,
		Owners:          owners,
	}
}
