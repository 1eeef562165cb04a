package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	analyticshttp "github.com/himapp/pos/internal/analytics/delivery/http"
	producthttp "github.com/himapp/pos/internal/product/delivery/http"
	productdomain "github.com/himapp/pos/internal/product/domain"
	productrepo "github.com/himapp/pos/internal/product/repository"
	salehttp "github.com/himapp/pos/internal/sale/delivery/http"
	salerepo "github.com/himapp/pos/internal/sale/repository"
	salecommand "github.com/himapp/pos/internal/sale/usecase/command"
	userhttp "github.com/himapp/pos/internal/user/delivery/http"
	userdomain "github.com/himapp/pos/internal/user/domain"
	userrepo "github.com/himapp/pos/internal/user/repository"
	"github.com/himapp/pos/kafka"
	"github.com/himapp/pos/pkg/database"
	"github.com/himapp/pos/pkg/logger"
	"github.com/himapp/pos/pkg/storage"
	"github.com/himapp/pos/pkg/tracing"
)

const serviceName = "himapp-pos"

func main() {
	logger.Init(serviceName, getEnv("APP_ENV", "development") == "development")
	logger.SetLevel(getEnv("LOG_LEVEL", "info"))

	tp, err := tracing.InitTracer(serviceName)
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Tracing disabled")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = tracing.Shutdown(ctx, tp)
		}()
	}

	// The session blob always lives in a key-value storage, even when the
	// product collection sits in Postgres.
	blobStore, err := newBlobStorage()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize storage")
	}

	productRepo, err := newProductRepository(blobStore)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize product repository")
	}

	sessionRepo := userrepo.NewStorageSessionRepository(blobStore)

	verifier, err := userdomain.NewStaticVerifier(
		getEnv("ADMIN_USERNAME", "admin"),
		getEnv("ADMIN_PASSWORD", "admin"),
	)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize credential verifier")
	}

	var publisher *kafka.Publisher
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		publisher, err = kafka.NewPublisher(strings.Split(brokers, ","))
		if err != nil {
			logger.Logger.Warn().Err(err).Msg("Kafka disabled")
			publisher = nil
		} else {
			defer publisher.Close()
		}
	}

	carts := salerepo.NewCartStore()
	checkout := salecommand.NewProcessSaleHandler(productRepo, carts, publisher)

	userHandler := userhttp.NewUserHandler(sessionRepo, verifier)
	productHandler := producthttp.NewProductHandler(productRepo)
	saleHandler := salehttp.NewSaleHandler(productRepo, carts, checkout)
	analyticsHandler := analyticshttp.NewAnalyticsHandler()

	guard := userhttp.AuthMiddleware(sessionRepo)

	router := mux.NewRouter()
	userHandler.RegisterRoutes(router, guard)
	productHandler.RegisterRoutes(router, producthttp.Guard(guard))
	saleHandler.RegisterRoutes(router, salehttp.Guard(guard))
	analyticsHandler.RegisterRoutes(router, analyticshttp.Guard(guard))

	router.Handle("/metrics", promhttp.Handler())
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"message":"himapp-pos is healthy"}`))
	}).Methods("GET")

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	port := getEnv("HTTP_PORT", "8080")
	server := &http.Server{
		Addr:    ":" + port,
		Handler: otelhttp.NewHandler(c.Handler(router), "http.server"),
	}

	go func() {
		logger.Logger.Info().
			Str("port", port).
			Str("backend", getEnv("STORAGE_BACKEND", "file")).
			Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Logger.Error().Err(err).Msg("Forced shutdown")
	}
}

// newBlobStorage builds the key-value storage for the session blob and, with
// the file or redis backends, the product collection as well.
func newBlobStorage() (storage.Storage, error) {
	switch getEnv("STORAGE_BACKEND", "file") {
	case "redis":
		db, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
		return storage.NewRedisStorage(
			getEnv("REDIS_ADDR", "localhost:6379"),
			getEnv("REDIS_PASSWORD", ""),
			db,
		)
	default:
		return storage.NewFileStorage(getEnv("DATA_DIR", "./data"))
	}
}

func newProductRepository(blobStore storage.Storage) (productdomain.ProductRepository, error) {
	switch backend := getEnv("STORAGE_BACKEND", "file"); backend {
	case "postgres":
		db, err := database.NewGormConnection(dbConfig())
		if err != nil {
			return nil, err
		}
		repo := productrepo.NewGormProductRepository(db)
		if err := repo.AutoMigrate(); err != nil {
			return nil, err
		}
		return productrepo.NewTracingProductRepository(repo), nil
	case "postgres-plain":
		db, err := database.NewPostgresConnection(dbConfig())
		if err != nil {
			return nil, err
		}
		repo := productrepo.NewPostgresProductRepository(db)
		if err := repo.Migrate(context.Background()); err != nil {
			return nil, err
		}
		return productrepo.NewTracingProductRepository(repo), nil
	default:
		return productrepo.NewTracingProductRepository(
			productrepo.NewBlobProductRepository(blobStore),
		), nil
	}
}

func dbConfig() database.Config {
	return database.Config{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "himapp"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
