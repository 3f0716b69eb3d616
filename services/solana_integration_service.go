package services

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/ferreirogomes/pedacim/models"
)

// Tags das instruções SPL Token relevantes para depósitos.
const (
	splTransfer        = 3
	splTransferChecked = 12
)

// SolanaIntegrationService lê o histórico de depósitos da tesouraria na
// Solana e o achata no formato neutro consumido pela reconciliação. É a
// única fronteira de rede deste serviço além do próprio HTTP.
type SolanaIntegrationService struct {
	RPCClient *rpc.Client
	Treasury  solana.PublicKey // conta de token da tesouraria que recebe os depósitos
}

// NewSolanaIntegrationService cria o cliente RPC e valida a conta da tesouraria.
func NewSolanaIntegrationService(rpcEndpoint, treasuryAccount string) (*SolanaIntegrationService, error) {
	treasury, err := solana.PublicKeyFromBase58(treasuryAccount)
	if err != nil {
		return nil, fmt.Errorf("conta da tesouraria inválida: %w", err)
	}
	return &SolanaIntegrationService{
		RPCClient: rpc.New(rpcEndpoint),
		Treasury:  treasury,
	}, nil
}

// Self devolve a identidade de pagamento deste serviço (a conta da tesouraria).
func (s *SolanaIntegrationService) Self() string {
	return s.Treasury.String()
}

// signatureLister é o recorte do cliente RPC usado pela paginação do
// histórico. *rpc.Client satisfaz a interface; os testes usam um duplo.
type signatureLister interface {
	GetSignaturesForAddressWithOpts(ctx context.Context, account solana.PublicKey, opts *rpc.GetSignaturesForAddressOpts) ([]*rpc.TransactionSignature, error)
}

// listAllSignatures percorre o histórico completo de assinaturas da conta,
// página a página. O RPC limita cada resposta a 1000 assinaturas, então o
// cursor Before avança para a última assinatura de cada página até o RPC
// devolver uma página vazia.
func listAllSignatures(ctx context.Context, client signatureLister, account solana.PublicKey) ([]*rpc.TransactionSignature, error) {
	var all []*rpc.TransactionSignature
	opts := rpc.GetSignaturesForAddressOpts{Commitment: rpc.CommitmentFinalized}
	for {
		page, err := client.GetSignaturesForAddressWithOpts(ctx, account, &opts)
		if err != nil {
			return nil, fmt.Errorf("falha ao listar assinaturas da tesouraria: %w", err)
		}
		if len(page) == 0 {
			return all, nil
		}
		all = append(all, page...)
		opts.Before = page[len(page)-1].Signature
	}
}

// GetAllTransactions busca todas as transações finalizadas que tocam a
// tesouraria e extrai as transferências SPL do mint configurado. A varredura
// é O(histórico inteiro) de propósito: o serviço de token é o sistema de
// registro e não mantemos índice próprio. Qualquer falha de RPC é devolvida
// como está, sem retentativa.
func (s *SolanaIntegrationService) GetAllTransactions(ctx context.Context, tokenService string) ([]models.TokenTransaction, error) {
	mint, err := solana.PublicKeyFromBase58(tokenService)
	if err != nil {
		return nil, fmt.Errorf("principal do serviço de token inválido: %w", err)
	}

	sigs, err := listAllSignatures(ctx, s.RPCClient, s.Treasury)
	if err != nil {
		return nil, err
	}

	// As assinaturas chegam da mais recente para a mais antiga; invertemos
	// para entregar o histórico em ordem cronológica.
	out := make([]models.TokenTransaction, 0, len(sigs))
	for i := len(sigs) - 1; i >= 0; i-- {
		sig := sigs[i]
		if sig.Err != nil {
			// Transações que falharam na chain não movimentaram nada.
			continue
		}

		txRes, err := s.RPCClient.GetTransaction(ctx, sig.Signature, &rpc.GetTransactionOpts{
			Commitment: rpc.CommitmentFinalized,
			Encoding:   solana.EncodingBase64,
		})
		if err != nil {
			return nil, fmt.Errorf("falha ao obter transação %s: %w", sig.Signature, err)
		}
		if txRes == nil || txRes.Transaction == nil {
			continue
		}

		tx, err := txRes.Transaction.GetTransaction()
		if err != nil {
			return nil, fmt.Errorf("falha ao decodificar transação %s: %w", sig.Signature, err)
		}

		var blockTime int64
		if txRes.BlockTime != nil {
			blockTime = int64(*txRes.BlockTime)
		}

		out = append(out, collectTransfers(tx, txRes.Meta, mint, blockTime)...)
	}
	return out, nil
}

// collectTransfers varre as instruções de nível superior e as instruções
// internas (CPI: um programa de carteira repassando ao programa de token) de
// uma transação. Os índices de conta das instruções internas podem apontar
// para os endereços carregados por lookup table, então a lista de chaves é
// estendida com eles na ordem em que o runtime os anexa.
func collectTransfers(tx *solana.Transaction, meta *rpc.TransactionMeta, mint solana.PublicKey, blockTime int64) []models.TokenTransaction {
	keys := tx.Message.AccountKeys
	if meta != nil {
		keys = append(append(append([]solana.PublicKey{}, keys...),
			meta.LoadedAddresses.Writable...), meta.LoadedAddresses.ReadOnly...)
	}

	var out []models.TokenTransaction
	scan := func(ixs []solana.CompiledInstruction) {
		for _, ix := range ixs {
			parsed, ok := parseTokenTransfer(keys, ix, mint)
			if !ok {
				continue
			}
			parsed.Timestamp = blockTime
			out = append(out, parsed)
		}
	}

	scan(tx.Message.Instructions)
	if meta != nil {
		for _, inner := range meta.InnerInstructions {
			scan(inner.Instructions)
		}
	}
	return out
}

// parseTokenTransfer decodifica uma instrução compilada em uma transferência
// SPL, se for uma. Para Transfer o mint é implícito na conta de destino (uma
// conta de token pertence a um único mint); para TransferChecked o mint vem
// na instrução e é conferido. From é a carteira que autorizou o envio, To é
// a conta de token de destino.
func parseTokenTransfer(keys []solana.PublicKey, ix solana.CompiledInstruction, mint solana.PublicKey) (models.TokenTransaction, bool) {
	if int(ix.ProgramIDIndex) >= len(keys) || !keys[ix.ProgramIDIndex].Equals(token.ProgramID) {
		return models.TokenTransaction{}, false
	}

	data := []byte(ix.Data)
	if len(data) < 9 {
		return models.TokenTransaction{}, false
	}

	var dstIdx, authIdx uint16
	switch data[0] {
	case splTransfer: // contas: [origem, destino, autoridade]
		if len(ix.Accounts) < 3 {
			return models.TokenTransaction{}, false
		}
		dstIdx, authIdx = ix.Accounts[1], ix.Accounts[2]
	case splTransferChecked: // contas: [origem, mint, destino, autoridade]
		if len(ix.Accounts) < 4 {
			return models.TokenTransaction{}, false
		}
		mintIdx := ix.Accounts[1]
		if int(mintIdx) >= len(keys) || !keys[mintIdx].Equals(mint) {
			return models.TokenTransaction{}, false
		}
		dstIdx, authIdx = ix.Accounts[2], ix.Accounts[3]
	default:
		return models.TokenTransaction{}, false
	}

	if int(dstIdx) >= len(keys) || int(authIdx) >= len(keys) {
		return models.TokenTransaction{}, false
	}

	return models.TokenTransaction{
		From:   keys[authIdx].String(),
		To:     keys[dstIdx].String(),
		Type:   models.TxTypeSend,
		Amount: binary.LittleEndian.Uint64(data[1:9]),
	}, true
}
