package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/researchmate/rag-backend/internal/api"
	chatapi "github.com/researchmate/rag-backend/internal/api/chat"
	documentapi "github.com/researchmate/rag-backend/internal/api/document"
	"github.com/researchmate/rag-backend/internal/api/health"
	"github.com/researchmate/rag-backend/internal/assembler"
	"github.com/researchmate/rag-backend/internal/chunker"
	"github.com/researchmate/rag-backend/internal/config"
	"github.com/researchmate/rag-backend/internal/conversation"
	"github.com/researchmate/rag-backend/internal/extractor"
	"github.com/researchmate/rag-backend/internal/index"
	"github.com/researchmate/rag-backend/internal/integration/embedding"
	"github.com/researchmate/rag-backend/internal/integration/generation"
	"github.com/researchmate/rag-backend/internal/pkg/formatter"
	"github.com/researchmate/rag-backend/internal/pkg/validator"
	"github.com/researchmate/rag-backend/internal/repository"
	"github.com/researchmate/rag-backend/internal/retriever"
	documentuc "github.com/researchmate/rag-backend/internal/usecase/document"
	"github.com/researchmate/rag-backend/internal/usecase/query"
	"github.com/researchmate/rag-backend/internal/vectorstore/memory"
	"github.com/researchmate/rag-backend/internal/vectorstore/qdrant"
	"go.uber.org/zap"
)

func Build() (*App, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
		zap.String("vector_backend", cfg.VectorBackend),
	)

	// Setup the document registry. Without DATABASE_URL the registry runs
	// in-memory and documents do not survive restarts.
	var db *pgxpool.Pool
	var documentRepo repository.DocumentRepository
	if cfg.DatabaseURL != "" {
		db, err = setupDatabase(ctx, cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("setup database: %w", err)
		}

		logger.Info("Running database migrations")
		if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
			db.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		logger.Info("Database migrations completed successfully")

		documentRepo = repository.NewDocumentPostgres(db)
	} else {
		logger.Info("DATABASE_URL not set, using in-memory document registry")
		documentRepo = repository.NewDocumentMemory()
	}

	// Initialize external capability connectors (with mock support)
	var embedder index.EmbeddingProvider
	var generator query.GenerationProvider

	if cfg.EnableMocks {
		logger.Info("Using mock connectors for external services")
		embedder = embedding.NewMockConnector(cfg.EmbeddingCfg.Dimension, logger)
		generator = generation.NewMockConnector(logger)
	} else {
		logger.Info("Using real connectors for external services")
		embedder = embedding.NewConnector(cfg.EmbeddingCfg, logger)
		generator = generation.NewConnector(cfg.GenerationCfg, logger)
	}

	// Initialize the vector backend
	var backend index.VectorBackend
	switch cfg.VectorBackend {
	case "qdrant":
		backend, err = qdrant.NewStorage(ctx, cfg.QdrantCfg, embedder.Dimension(), logger)
		if err != nil {
			if db != nil {
				db.Close()
			}
			return nil, fmt.Errorf("setup qdrant backend: %w", err)
		}
	default:
		backend, err = memory.NewStorage(embedder.Dimension())
		if err != nil {
			if db != nil {
				db.Close()
			}
			return nil, fmt.Errorf("setup memory backend: %w", err)
		}
	}

	chunkIndex := index.New(embedder, backend, logger)
	logger.Info("Vector index initialized", zap.Int("dimension", embedder.Dimension()))

	// Initialize pipeline components
	passageRetriever := retriever.New(chunkIndex, cfg.RetrievalCfg)
	contextAssembler := assembler.New()
	conversationStore := conversation.NewStore(cfg.ConversationTTL, logger)
	textChunker := chunker.New()
	textExtractor := extractor.New()
	requestValidator := validator.New(cfg.FileUploadCfg)

	// Initialize use cases
	queryUC := query.NewUsecase(
		passageRetriever,
		contextAssembler,
		conversationStore,
		generator,
		requestValidator,
		cfg.GenerationCfg.Timeout,
		logger,
	)

	documentUC := documentuc.NewUsecase(
		documentRepo,
		textExtractor,
		textChunker,
		chunkIndex,
		requestValidator,
		cfg.ChunkingCfg,
		logger,
	)
	logger.Info("Use cases initialized")

	// Setup API handlers
	chatHandler := chatapi.NewHandler(queryUC, formatter.NewFactory())
	documentHandler := documentapi.NewHandler(documentUC, cfg.FileUploadCfg)
	healthHandler := health.NewHandler(documentUC, generator)
	logger.Info("API handlers initialized")

	// The request timeout must outlast the generation deadline, with margin
	// for retrieval and assembly.
	requestTimeout := cfg.GenerationCfg.Timeout + 30*time.Second

	router := api.SetupRouter(chatHandler, documentHandler, healthHandler, requestTimeout, logger)
	logger.Info("HTTP router configured")

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: requestTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server: server,
		db:     db,
		logger: logger,
	}, nil
}
