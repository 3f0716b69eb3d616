package models

// Property representa um imóvel cuja posse é fracionada em cotas inteiras.
// Owners mapeia o principal de cada dono para a quantidade de cotas; entradas
// zeradas são removidas, então todo valor presente é estritamente positivo.
type Property struct {
	ID              uint64            `json:"id"`
	Name            string            `json:"name"`
	Description     string            `json:"description"`
	ThumbnailURL    string            `json:"thumbnail_url"`
	PricePerShare   uint64            `json:"price_per_share"`
	TotalShares     uint64            `json:"total_shares"`
	AvailableShares uint64            `json:"available_shares"`
	Owners          map[string]uint64 `json:"owners"`
}

// OwnerShare é um par (dono, cotas) materializado em uma view.
type OwnerShare struct {
	Owner  string `json:"owner"`
	Shares uint64 `json:"shares"`
}

// PropertyView é o snapshot imutável de uma propriedade devolvido aos
// chamadores. Owners vem ordenado por principal para que a mesma leitura
// produza sempre o mesmo resultado.
type PropertyView struct {
	ID              uint64       `json:"id"`
	Name            string       `json:"name"`
	Description     string       `json:"description"`
	ThumbnailURL    string       `json:"thumbnail_url"`
	PricePerShare   uint64       `json:"price_per_share"`
	TotalShares     uint64       `json:"total_shares"`
	AvailableShares uint64       `json:"available_shares"`
	Owners          []OwnerShare `json:"owners"`
}
