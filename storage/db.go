package storage

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	migrate "github.com/rubenv/sql-migrate"
)

// DB representa a conexão com o banco de dados PostgreSQL onde os snapshots
// do ledger são guardados.
type DB struct {
	*sqlx.DB
}

// NewDB conecta-se ao PostgreSQL e executa as migrações.
func NewDB(dataSourceName string) (*DB, error) {
	db, err := sqlx.Connect("postgres", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("falha ao conectar ao banco de dados: %w", err)
	}

	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("falha ao pingar o banco de dados: %w", err)
	}
	log.Println("Conexão com PostgreSQL estabelecida com sucesso.")

	if err := runMigrations(db.DB); err != nil {
		return nil, fmt.Errorf("falha ao executar migrações: %w", err)
	}

	return &DB{db}, nil
}

// runMigrations executa as migrações usando sql-migrate.
func runMigrations(db *sql.DB) error {
	migrations := &migrate.FileMigrationSource{
		Dir: "./storage/migrations",
	}

	n, err := migrate.Exec(db, "postgres", migrations, migrate.Up)
	if err != nil {
		return fmt.Errorf("erro ao aplicar migrações: %w", err)
	}
	if n > 0 {
		log.Printf("Aplicadas %d migrações ao banco de dados.", n)
	} else {
		log.Println("Nenhuma migração nova para aplicar.")
	}
	return nil
}

// SaveSnapshot grava um novo snapshot serializado do ledger. Snapshots
// antigos ficam como histórico; a restauração lê apenas o mais recente.
func (d *DB) SaveSnapshot(data []byte) error {
	query := `INSERT INTO snapshots (id, data, created_at) VALUES ($1, $2, $3)`
	if _, err := d.Exec(query, uuid.New().String(), data, time.Now().UTC()); err != nil {
		return fmt.Errorf("falha ao gravar snapshot: %w", err)
	}
	return nil
}

// LoadLatestSnapshot devolve o snapshot mais recente. found=false quando
// nenhum snapshot foi gravado ainda, o que não é um erro.
func (d *DB) LoadLatestSnapshot() (data []byte, found bool, err error) {
	query := `SELECT data FROM snapshots ORDER BY created_at DESC LIMIT 1`
	if err := d.Get(&data, query); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("falha ao carregar snapshot: %w", err)
	}
	return data, true, nil
}
