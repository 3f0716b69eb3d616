package models

import "errors"

// Erros de domínio do ledger. O conjunto é fechado: handlers e serviços
// comparam com errors.Is para decidir o que devolver ao chamador.
var (
	// ErrNotAuthorized indica que o chamador não possui participação na propriedade.
	ErrNotAuthorized = errors.New("chamador não possui participação nesta propriedade")

	// ErrNotEnoughShares cobre tanto cotas disponíveis quanto depósito insuficientes.
	ErrNotEnoughShares = errors.New("cotas ou depósito insuficientes")

	// ErrPropertyNotFound indica um ID de propriedade desconhecido.
	ErrPropertyNotFound = errors.New("propriedade não encontrada")

	// ErrAlreadyExists sinaliza colisão de ID na criação. Com a alocação
	// monotônica de IDs isso é uma violação de invariante interna, não um
	// resultado esperado de uso.
	ErrAlreadyExists = errors.New("propriedade já existe")

	// ErrTokenServiceNotSet indica que nenhum serviço de token foi configurado
	// para a verificação de depósitos.
	ErrTokenServiceNotSet = errors.New("serviço de token não configurado")
)
