package models

// TxTypeSend é o único tipo de transação do serviço de token que conta como
// depósito; todos os outros tipos são ignorados na reconciliação.
const TxTypeSend = "send"

// TokenTransaction espelha uma transação registrada pelo serviço de token
// externo. From e To podem vir vazios (cunhagem e queima não têm os dois
// lados); Amount está na menor unidade do token.
type TokenTransaction struct {
	From      string `json:"from,omitempty"`
	To        string `json:"to,omitempty"`
	Timestamp int64  `json:"timestamp"`
	Type      string `json:"type"`
	Amount    uint64 `json:"amount"`
}
