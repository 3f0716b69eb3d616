package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferreirogomes/pedacim/models"
)

// assertInvariantes verifica, para cada propriedade, que a soma das cotas
// dos donos mais as disponíveis é igual ao total e que nenhuma entrada de
// dono é zero.
func assertInvariantes(t *testing.T, l *Ledger) {
	t.Helper()
	for _, view := range l.ListProperties() {
		var owned uint64
		for _, o := range view.Owners {
			assert.NotZero(t, o.Shares, "entrada de dono zerada deveria ter sido removida")
			owned += o.Shares
		}
		assert.Equal(t, view.TotalShares, owned+view.AvailableShares,
			"soma das cotas dos donos + disponíveis difere do total")
	}
}

func TestCreatePropertyAlocaIDsMonotonicos(t *testing.T) {
	l := New()

	id1, err := l.CreateProperty("Ed. Aurora", "Sala comercial no centro", "aurora.jpg", 1000, 5)
	require.NoError(t, err)
	id2, err := l.CreateProperty("Vila Mariana 12", "Apartamento de 2 quartos", "vm12.jpg", 50, 200)
	require.NoError(t, err)

	assert.Equal(t, uint64(0), id1)
	assert.Equal(t, uint64(1), id2)

	view, err := l.GetProperty(id1)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), view.TotalShares)
	assert.Equal(t, uint64(1000), view.AvailableShares)
	assert.Empty(t, view.Owners)
	assertInvariantes(t, l)
}

func TestGetPropertyInexistente(t *testing.T) {
	l := New()

	_, err := l.GetProperty(42)
	assert.ErrorIs(t, err, models.ErrPropertyNotFound)
}

func TestListPropertiesVazioDevolveListaVazia(t *testing.T) {
	l := New()

	views := l.ListProperties()
	assert.NotNil(t, views)
	assert.Empty(t, views)
}

func TestListPropertiesOrdenadoPorID(t *testing.T) {
	l := New()
	for i := 0; i < 5; i++ {
		_, err := l.CreateProperty("Imóvel", "", "", 10, 1)
		require.NoError(t, err)
	}

	views := l.ListProperties()
	require.Len(t, views, 5)
	for i, view := range views {
		assert.Equal(t, uint64(i), view.ID)
	}
}

func TestCommitPurchaseAtualizaPosseEConsumo(t *testing.T) {
	l := New()
	id, err := l.CreateProperty("Ed. Aurora", "", "", 1000, 5)
	require.NoError(t, err)

	require.NoError(t, l.CommitPurchase(id, "alice", 6, 30))

	view, err := l.GetProperty(id)
	require.NoError(t, err)
	assert.Equal(t, uint64(994), view.AvailableShares)
	assert.Equal(t, []models.OwnerShare{{Owner: "alice", Shares: 6}}, view.Owners)
	assert.Equal(t, uint64(30), l.ConsumedBy("alice"))
	assertInvariantes(t, l)

	// Segunda compra acumula na mesma entrada e no mesmo contador.
	require.NoError(t, l.CommitPurchase(id, "alice", 4, 20))
	view, err = l.GetProperty(id)
	require.NoError(t, err)
	assert.Equal(t, []models.OwnerShare{{Owner: "alice", Shares: 10}}, view.Owners)
	assert.Equal(t, uint64(50), l.ConsumedBy("alice"))
	assertInvariantes(t, l)
}

func TestCommitPurchaseRevalidaDisponibilidade(t *testing.T) {
	l := New()
	id, err := l.CreateProperty("Ed. Aurora", "", "", 10, 5)
	require.NoError(t, err)

	err = l.CommitPurchase(id, "alice", 11, 55)
	assert.ErrorIs(t, err, models.ErrNotEnoughShares)

	// Nada mudou: nem posse, nem disponibilidade, nem consumo.
	view, err := l.GetProperty(id)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), view.AvailableShares)
	assert.Empty(t, view.Owners)
	assert.Zero(t, l.ConsumedBy("alice"))
}

func TestCommitPurchasePropriedadeInexistente(t *testing.T) {
	l := New()

	err := l.CommitPurchase(7, "alice", 1, 5)
	assert.ErrorIs(t, err, models.ErrPropertyNotFound)
	assert.Zero(t, l.ConsumedBy("alice"))
}

func TestTransferRemoveEntradaZerada(t *testing.T) {
	l := New()
	id, err := l.CreateProperty("Ed. Aurora", "", "", 100, 5)
	require.NoError(t, err)
	require.NoError(t, l.CommitPurchase(id, "alice", 10, 50))

	require.NoError(t, l.Transfer(id, "alice", "bob", 10))

	view, err := l.GetProperty(id)
	require.NoError(t, err)
	// A entrada de alice some por inteiro; bob nasce com as 10 cotas.
	assert.Equal(t, []models.OwnerShare{{Owner: "bob", Shares: 10}}, view.Owners)
	assert.Equal(t, uint64(100), view.TotalShares)
	assert.Equal(t, uint64(90), view.AvailableShares)
	assertInvariantes(t, l)
}

func TestTransferParcialMantemAsDuasEntradas(t *testing.T) {
	l := New()
	id, err := l.CreateProperty("Ed. Aurora", "", "", 100, 5)
	require.NoError(t, err)
	require.NoError(t, l.CommitPurchase(id, "alice", 10, 50))

	require.NoError(t, l.Transfer(id, "alice", "bob", 3))

	view, err := l.GetProperty(id)
	require.NoError(t, err)
	assert.Equal(t, []models.OwnerShare{
		{Owner: "alice", Shares: 7},
		{Owner: "bob", Shares: 3},
	}, view.Owners)
	assertInvariantes(t, l)
}

func TestTransferSemParticipacao(t *testing.T) {
	l := New()
	id, err := l.CreateProperty("Ed. Aurora", "", "", 100, 5)
	require.NoError(t, err)

	err = l.Transfer(id, "alice", "bob", 1)
	assert.ErrorIs(t, err, models.ErrNotAuthorized)
}

func TestTransferCotasInsuficientes(t *testing.T) {
	l := New()
	id, err := l.CreateProperty("Ed. Aurora", "", "", 100, 5)
	require.NoError(t, err)
	require.NoError(t, l.CommitPurchase(id, "alice", 5, 25))

	err = l.Transfer(id, "alice", "bob", 6)
	assert.ErrorIs(t, err, models.ErrNotEnoughShares)

	// Posse intacta após a falha.
	view, err := l.GetProperty(id)
	require.NoError(t, err)
	assert.Equal(t, []models.OwnerShare{{Owner: "alice", Shares: 5}}, view.Owners)
}

func TestTransferPropriedadeInexistente(t *testing.T) {
	l := New()

	err := l.Transfer(9, "alice", "bob", 1)
	assert.ErrorIs(t, err, models.ErrPropertyNotFound)
}

func TestTransferNaoAlteraDisponibilidade(t *testing.T) {
	l := New()
	id, err := l.CreateProperty("Ed. Aurora", "", "", 100, 5)
	require.NoError(t, err)
	require.NoError(t, l.CommitPurchase(id, "alice", 40, 200))

	before, err := l.GetProperty(id)
	require.NoError(t, err)
	require.NoError(t, l.Transfer(id, "alice", "bob", 15))
	after, err := l.GetProperty(id)
	require.NoError(t, err)

	assert.Equal(t, before.AvailableShares, after.AvailableShares)
	assert.Equal(t, before.TotalShares, after.TotalShares)
	assertInvariantes(t, l)
}

func TestQuoteUsaPrecoAtual(t *testing.T) {
	l := New()
	id, err := l.CreateProperty("Ed. Aurora", "", "", 100, 7)
	require.NoError(t, err)

	required, err := l.Quote(id, 6)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), required)

	_, err = l.Quote(99, 1)
	assert.ErrorIs(t, err, models.ErrPropertyNotFound)
}

func TestViewOwnersOrdenadosPorPrincipal(t *testing.T) {
	l := New()
	id, err := l.CreateProperty("Ed. Aurora", "", "", 100, 1)
	require.NoError(t, err)
	require.NoError(t, l.CommitPurchase(id, "carol", 1, 1))
	require.NoError(t, l.CommitPurchase(id, "alice", 1, 1))
	require.NoError(t, l.CommitPurchase(id, "bob", 1, 1))

	view, err := l.GetProperty(id)
	require.NoError(t, err)
	assert.Equal(t, []models.OwnerShare{
		{Owner: "alice", Shares: 1},
		{Owner: "bob", Shares: 1},
		{Owner: "carol", Shares: 1},
	}, view.Owners)
}

func TestConsumedByNuncaDiminui(t *testing.T) {
	l := New()
	id, err := l.CreateProperty("Ed. Aurora", "", "", 1000, 5)
	require.NoError(t, err)

	var last uint64
	for i := 0; i < 10; i++ {
		require.NoError(t, l.CommitPurchase(id, "alice", 1, 5))
		current := l.ConsumedBy("alice")
		assert.GreaterOrEqual(t, current, last)
		last = current
	}
	// Commits que falham também não mexem no contador.
	_ = l.CommitPurchase(id, "alice", 100000, 1)
	assert.Equal(t, last, l.ConsumedBy("alice"))
}
