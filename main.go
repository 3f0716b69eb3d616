package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ferreirogomes/pedacim/handlers"
	"github.com/ferreirogomes/pedacim/ledger"
	"github.com/ferreirogomes/pedacim/services"
	"github.com/ferreirogomes/pedacim/storage"
)

func main() {
	dataSourceName := envOr("DATABASE_URL",
		"host=localhost port=5432 user=pedacim password=pedacim dbname=pedacim sslmode=disable")
	solanaRPCURL := envOr("SOLANA_RPC_URL", "https://api.devnet.solana.com")
	treasuryAccount := os.Getenv("TREASURY_ACCOUNT")
	port := envOr("PORT", "8080")

	if treasuryAccount == "" {
		log.Fatal("TREASURY_ACCOUNT é obrigatório: é a conta que recebe os depósitos dos compradores")
	}

	db, err := storage.NewDB(dataSourceName)
	if err != nil {
		log.Fatalf("Falha fatal ao conectar ao banco de dados e aplicar migrações: %v", err)
	}
	defer db.Close()

	lgr := restoreLedger(db)

	solanaService, err := services.NewSolanaIntegrationService(solanaRPCURL, treasuryAccount)
	if err != nil {
		log.Fatalf("Falha ao inicializar serviço Solana: %v", err)
	}

	marketplaceService := services.NewMarketplaceService(lgr, solanaService, solanaService.Self())

	propertyHandler := handlers.NewPropertyHandler(lgr)
	marketplaceHandler := handlers.NewMarketplaceHandler(marketplaceService)
	adminHandler := handlers.NewAdminHandler(lgr, db)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.URLFormat)

	r.Route("/properties", func(r chi.Router) {
		r.Post("/", propertyHandler.CreateProperty)
		r.Get("/", propertyHandler.ListProperties)
		r.Get("/{id}", propertyHandler.GetProperty)
		r.Post("/{id}/buy", marketplaceHandler.BuyShares)
		r.Post("/{id}/transfer", marketplaceHandler.TransferShares)
	})
	r.Put("/config/token-service", adminHandler.SetTokenService)
	r.Post("/admin/snapshot", adminHandler.TakeSnapshot)
	r.Get("/healthz", adminHandler.Healthz)

	srv := &http.Server{Addr: ":" + port, Handler: r}
	go func() {
		log.Printf("Servidor backend rodando na porta :%s...", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Falha no servidor HTTP: %v", err)
		}
	}()

	// Desligamento controlado: drena as requisições em andamento e só então
	// grava o snapshot, para que o estado serializado seja o final.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Encerrando: drenando requisições e gravando snapshot do ledger...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Falha ao drenar o servidor HTTP: %v", err)
	}

	data, err := lgr.Snapshot()
	if err != nil {
		log.Printf("Falha ao serializar snapshot: %v", err)
		return
	}
	if err := db.SaveSnapshot(data); err != nil {
		log.Printf("Falha ao gravar snapshot no banco: %v", err)
		return
	}
	log.Println("Snapshot gravado com sucesso.")
}

// restoreLedger carrega o snapshot mais recente, se houver. Qualquer
// problema resulta em estado vazio: melhor começar vazio do que quebrado.
func restoreLedger(db *storage.DB) *ledger.Ledger {
	data, found, err := db.LoadLatestSnapshot()
	if err != nil {
		log.Printf("Falha ao carregar snapshot, iniciando com estado vazio: %v", err)
		return ledger.New()
	}
	if !found {
		log.Println("Nenhum snapshot anterior, iniciando com estado vazio.")
		return ledger.New()
	}
	log.Println("Restaurando ledger a partir do snapshot mais recente.")
	return ledger.Restore(data)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
