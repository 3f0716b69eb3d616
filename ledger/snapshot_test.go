package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRestoreEstadoVazio(t *testing.T) {
	l := New()

	data, err := l.Snapshot()
	require.NoError(t, err)

	restored := Restore(data)
	assert.Equal(t, l.state, restored.state)
}

func TestSnapshotRestoreEstadoPopulado(t *testing.T) {
	l := New()

	// Propriedade com vários donos.
	id1, err := l.CreateProperty("Ed. Aurora", "Sala comercial no centro", "aurora.jpg", 1000, 5)
	require.NoError(t, err)
	require.NoError(t, l.CommitPurchase(id1, "alice", 6, 30))
	require.NoError(t, l.CommitPurchase(id1, "bob", 10, 50))
	require.NoError(t, l.Transfer(id1, "bob", "carol", 4))

	// Propriedade totalmente vendida.
	id2, err := l.CreateProperty("Vila Mariana 12", "Apartamento de 2 quartos", "vm12.jpg", 8, 100)
	require.NoError(t, err)
	require.NoError(t, l.CommitPurchase(id2, "alice", 8, 800))

	l.SetTokenService("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")

	data, err := l.Snapshot()
	require.NoError(t, err)

	restored := Restore(data)
	assert.Equal(t, l.state, restored.state)

	// O estado restaurado continua operável: as views batem e uma compra
	// nova respeita a numeração de IDs anterior.
	assert.Equal(t, l.ListProperties(), restored.ListProperties())
	id3, err := restored.CreateProperty("Galpão Leste", "", "", 10, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), id3)
}

func TestRestoreSemSnapshotComecaVazio(t *testing.T) {
	assert.Equal(t, New().state, Restore(nil).state)
	assert.Equal(t, New().state, Restore([]byte{}).state)
}

func TestRestoreSnapshotCorrompidoComecaVazio(t *testing.T) {
	restored := Restore([]byte(`{"properties": {"0": {`))
	assert.Equal(t, New().state, restored.state)

	// Nunca um estado parcial: um blob válido porém truncado em conteúdo
	// também precisa resultar em mapas utilizáveis.
	restored = Restore([]byte(`{"next_property_id": 3}`))
	assert.NotNil(t, restored.state.Properties)
	assert.NotNil(t, restored.state.ConsumedByUser)
	assert.Equal(t, uint64(3), restored.state.NextPropertyID)
}

func TestRestoreNormalizaOwnersNulos(t *testing.T) {
	restored := Restore([]byte(`{
		"properties": {"0": {"id": 0, "name": "Ed. Aurora", "total_shares": 10, "available_shares": 10}},
		"next_property_id": 1,
		"consumed_by_user": {}
	}`))

	// Escrever na propriedade restaurada não pode estourar em mapa nulo.
	require.NoError(t, restored.CommitPurchase(0, "alice", 1, 5))
}
