package ledger

import (
	"encoding/json"
	"log"

	"github.com/ferreirogomes/pedacim/models"
)

// Snapshot serializa todo o estado do ledger em um único blob JSON, pronto
// para ser gravado em armazenamento durável antes de um desligamento
// controlado.
func (l *Ledger) Snapshot() ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return json.Marshal(l.state)
}

// Restore reconstrói um ledger a partir de um snapshot. Blob ausente ou
// corrompido resulta em estado vazio, nunca em estado parcial: é melhor
// começar vazio do que começar quebrado.
func Restore(data []byte) *Ledger {
	if len(data) == 0 {
		return New()
	}

	st := newState()
	if err := json.Unmarshal(data, &st); err != nil {
		log.Printf("Snapshot corrompido, iniciando com estado vazio: %v", err)
		return New()
	}

	// json.Unmarshal pode deixar mapas nulos; normaliza para que o estado
	// restaurado seja indistinguível de um construído em memória.
	if st.Properties == nil {
		st.Properties = make(map[uint64]*models.Property)
	}
	if st.ConsumedByUser == nil {
		st.ConsumedByUser = make(map[string]uint64)
	}
	for _, p := range st.Properties {
		if p.Owners == nil {
			p.Owners = make(map[string]uint64)
		}
	}

	return &Ledger{state: st}
}
