package main

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/quanghm/coindex/internal/auth"
	"github.com/quanghm/coindex/internal/config"
	"github.com/quanghm/coindex/internal/db"
	"github.com/quanghm/coindex/internal/handlers"
	"github.com/quanghm/coindex/internal/logger"
	"github.com/quanghm/coindex/internal/repositories"
	"github.com/quanghm/coindex/internal/services"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	log, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg := config.New()

	var (
		repo        repositories.PortfolioRepository
		authManager *auth.Manager
	)
	switch cfg.StorageMode {
	case config.StorageModeLocal:
		repo, err = repositories.NewLocalRepository(cfg.DataFile)
		if err != nil {
			log.Fatal("Failed to open local store", zap.String("file", cfg.DataFile), zap.Error(err))
		}
		log.Info("Using local storage", zap.String("file", cfg.DataFile))
	case config.StorageModeRemote:
		if cfg.AuthSecret == "" {
			log.Fatal("AUTH_SECRET is required in remote storage mode")
		}
		database, err := db.Connect(db.NewConfig())
		if err != nil {
			log.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer database.Close()
		if err := database.Health(); err != nil {
			log.Fatal("Database health check failed", zap.Error(err))
		}
		repo, err = repositories.NewRemoteRepository(database.DB)
		if err != nil {
			log.Fatal("Failed to initialize remote store", zap.Error(err))
		}
		authManager = auth.NewManager(cfg.AuthSecret)
		log.Info("Using remote storage")
	default:
		log.Fatal("Unknown storage mode", zap.String("mode", cfg.StorageMode))
	}

	portfolioService := services.NewPortfolioService(repo, log)
	priceService := services.NewPriceService(repo, services.NewCoinGeckoProvider(), log)

	ctx := context.Background()
	if err := priceService.Warm(ctx); err != nil {
		log.Fatal("Failed to warm price cache", zap.Error(err))
	}
	if cfg.StorageMode == config.StorageModeLocal {
		// Local mode serves a single anonymous session, so load it up front.
		// Remote sessions load lazily per principal.
		if err := portfolioService.Load(ctx, ""); err != nil {
			log.Fatal("Failed to load portfolio", zap.Error(err))
		}
	}

	walletHandler := handlers.NewWalletHandler(portfolioService, log)
	priceHandler := handlers.NewPriceHandler(priceService, log)
	portfolioHandler := handlers.NewPortfolioHandler(portfolioService, priceService, log)

	router := mux.NewRouter()

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"status":  "healthy",
			"service": "coindex",
		})
	}).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()
	api.Use(handlers.PrincipalMiddleware(authManager))
	api.HandleFunc("/wallets", walletHandler.HandleList).Methods("GET")
	api.HandleFunc("/wallets", walletHandler.HandleCreate).Methods("POST")
	api.HandleFunc("/wallets/{id}", walletHandler.HandleDelete).Methods("DELETE")
	api.HandleFunc("/wallets/{id}/assets", walletHandler.HandleCreateAsset).Methods("POST")
	api.HandleFunc("/wallets/{id}/assets/{assetId}", walletHandler.HandleDeleteAsset).Methods("DELETE")
	api.HandleFunc("/prices", priceHandler.HandleList).Methods("GET")
	api.HandleFunc("/prices/{name}/fetch", priceHandler.HandleFetch).Methods("POST")
	api.HandleFunc("/portfolio/summary", portfolioHandler.HandleSummary).Methods("GET")
	api.HandleFunc("/portfolio/export", portfolioHandler.HandleExport).Methods("GET")

	log.Info("Server starting", zap.String("addr", cfg.Addr))
	if err := http.ListenAndServe(cfg.Addr, handlers.CORSMiddleware(router)); err != nil {
		log.Fatal("Server stopped", zap.Error(err))
	}
}
