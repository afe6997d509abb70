package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/lifesure/insurance-ai-platform/cmd/mainconfig"
	"github.com/lifesure/insurance-ai-platform/internal/api/router"
	appconfig "github.com/lifesure/insurance-ai-platform/internal/config"
	"github.com/lifesure/insurance-ai-platform/internal/engine"
	"github.com/lifesure/insurance-ai-platform/internal/leads"
	"github.com/lifesure/insurance-ai-platform/internal/observability/metrics"
	"github.com/lifesure/insurance-ai-platform/internal/policies"
	"github.com/lifesure/insurance-ai-platform/internal/session"
	"github.com/lifesure/insurance-ai-platform/pkg/logging"
)

func main() {
	// Load .env when present; real environments set vars directly.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting insurance-ai-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	// Session store.
	redisOpts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	redisClient := redis.NewClient(redisOpts)
	var store session.Store
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable, using in-memory session store", "error", err)
		store = session.NewMemoryStore()
	} else {
		store = session.NewRedisStore(redisClient, cfg.SessionTTL, nil)
	}

	// Lead and policy repositories. Postgres when configured, in-memory otherwise.
	var (
		leadsRepo   leads.Repository
		catalogRepo policies.Repository
	)
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		leadsRepo = leads.NewPostgresRepository(pool)
		catalogRepo = policies.NewPostgresRepository(pool)
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory repositories")
		leadsRepo = leads.NewInMemoryRepository()
		catalogRepo = policies.NewMemoryRepository(policies.SeedCatalog())
	}

	catalog, err := catalogRepo.List(ctx)
	if err != nil {
		logger.Error("failed to load policy catalog", "error", err)
		os.Exit(1)
	}
	logger.Info("policy catalog loaded", "policies", len(catalog))

	// Bedrock clients for generation and embeddings.
	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}
	bedrockClient := bedrockruntime.NewFromConfig(awsCfg)
	llm := engine.NewBedrockLLMClient(bedrockClient)
	embedder := engine.NewBedrockEmbeddingClient(bedrockClient)

	classifier := engine.NewLLMClassifier(llm, cfg.BedrockModelID)
	summarizer := engine.NewLLMSummarizer(llm, cfg.BedrockModelID)

	// Knowledge base: index the policy catalog for semantic retrieval.
	vectorStore := engine.NewMemoryVectorStore(embedder, cfg.BedrockEmbeddingModelID, logger)
	if err := vectorStore.AddDocuments(ctx, catalogDocuments(catalog)); err != nil {
		logger.Warn("failed to index policy catalog, retrieval degraded", "error", err)
	}

	engineMetrics := metrics.NewEngineMetrics(nil)

	eng := engine.New(engine.Options{
		AgentName:              cfg.AgentName,
		CompanyName:            cfg.CompanyName,
		ModelID:                cfg.BedrockModelID,
		NIDCountry:             cfg.NIDCountry,
		RetrievalTopK:          cfg.RetrievalTopK,
		AmbiguityWindow:        cfg.AmbiguityWindow,
		InterestWindow:         cfg.InterestWindow,
		ConfirmationRetryLimit: cfg.ConfirmationRetryLimit,
	}, engine.Deps{
		Store:      store,
		LLM:        llm,
		Classifier: classifier,
		Retriever:  vectorStore,
		Summarizer: summarizer,
		Leads:      leadsRepo,
		Catalog:    catalog,
		Window: engine.NewWindowManager(
			cfg.ContextTokenBudget,
			cfg.KnowledgeDocBudget,
			cfg.KeepVerbatimMessages,
			cfg.MaxContextMessages,
			summarizer,
			logger,
		),
		Retry: engine.NewRetryPolicy().
			WithMaxAttempts(cfg.RetryMaxAttempts).
			WithBaseDelay(cfg.RetryBaseDelay).
			WithMaxDelay(cfg.RetryMaxDelay).
			WithCallTimeout(cfg.ExternalCallTimeout),
		Metrics: engineMetrics,
		Logger:  logger,
	})

	conversationHandler := engine.NewHandler(eng, logger)

	r := router.New(router.Config{
		Conversation: conversationHandler,
		Metrics:      promhttp.Handler(),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// catalogDocuments renders each policy as a retrievable knowledge document.
func catalogDocuments(catalog []policies.Policy) []engine.RetrievedDocument {
	docs := make([]engine.RetrievedDocument, 0, len(catalog))
	for _, p := range catalog {
		exam := "no medical exam required"
		if p.MedicalExam {
			exam = "medical exam required"
		}
		content := fmt.Sprintf(
			"%s by %s: %s coverage of $%d for %d years at $%.2f per month. Eligible ages %d to %d, %s. %s",
			p.Name, p.Provider, p.PolicyType, p.CoverageAmount, p.TermYears,
			p.MonthlyPremium, p.MinAge, p.MaxAge, exam, p.Description,
		)
		docs = append(docs, engine.RetrievedDocument{
			Content:        content,
			PolicyID:       p.ID,
			PolicyName:     p.Name,
			PolicyType:     p.PolicyType,
			CoverageAmount: p.CoverageAmount,
			MinAge:         p.MinAge,
			MaxAge:         p.MaxAge,
			Source:         "policy-catalog",
		})
	}
	return docs
}
