package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	appanalysis "github.com/bryanwahyu/finsight-ai/internal/application/analysis"
	"github.com/bryanwahyu/finsight-ai/internal/config"
	"github.com/bryanwahyu/finsight-ai/internal/domain/agents"
	domai "github.com/bryanwahyu/finsight-ai/internal/domain/ai"
	domain "github.com/bryanwahyu/finsight-ai/internal/domain/analysis"
	"github.com/bryanwahyu/finsight-ai/internal/infra/ai/offline"
	openaicli "github.com/bryanwahyu/finsight-ai/internal/infra/ai/openai"
	"github.com/bryanwahyu/finsight-ai/internal/infra/crew"
	mysqlp "github.com/bryanwahyu/finsight-ai/internal/infra/db/mysql"
	postgresp "github.com/bryanwahyu/finsight-ai/internal/infra/db/postgres"
	"github.com/bryanwahyu/finsight-ai/internal/infra/extract"
	"github.com/bryanwahyu/finsight-ai/internal/infra/httpserver"
	"github.com/bryanwahyu/finsight-ai/internal/infra/logging"
	minioStore "github.com/bryanwahyu/finsight-ai/internal/infra/storage"
	"github.com/bryanwahyu/finsight-ai/internal/infra/store/fsrepo"
	"github.com/bryanwahyu/finsight-ai/internal/middleware"
)

func main() {
	// .env opsional, untuk dev
	_ = godotenv.Load()

	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format)
	ctx := context.Background()

	// pastikan work dir ada untuk spool upload
	if err := os.MkdirAll(cfg.Storage.WorkDir, 0o755); err != nil {
		logger.Fatal().Err(err).Msg("work dir init error")
	}

	checkers := map[string]middleware.HealthChecker{
		"workdir": &middleware.DirHealthChecker{Path: cfg.Storage.WorkDir},
	}

	// pilih repository sesuai driver
	var repo domain.Repository
	switch cfg.Storage.Driver {
	case "mysql":
		db, err := mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			logger.Fatal().Err(err).Msg("mysql connect error")
		}
		defer db.Close()
		repo = mysqlp.NewRecordRepository(db)
		checkers["database"] = &middleware.DatabaseHealthChecker{DB: db}
	case "postgres":
		db, err := postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			logger.Fatal().Err(err).Msg("postgres connect error")
		}
		defer db.Close()
		repo = postgresp.NewRecordRepository(db)
		checkers["database"] = &middleware.DatabaseHealthChecker{DB: db}
	default:
		fsr, err := fsrepo.New(cfg.Storage.OutputsDir)
		if err != nil {
			logger.Fatal().Err(err).Msg("outputs dir init error")
		}
		repo = fsr
		checkers["outputs"] = &middleware.DirHealthChecker{Path: cfg.Storage.OutputsDir}
	}

	// fault log selalu di filesystem
	faultLog, err := fsrepo.NewFaultLog(cfg.Storage.OutputsDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("fault log init error")
	}

	// LLM client: openai kalau ada key, kalau tidak fallback offline
	var llm domai.Client
	if cfg.AI.APIKey != "" {
		llm = openaicli.NewClient(cfg.AI.APIKey, cfg.AI.Model)
	} else {
		logger.Warn().Msg("no AI api key configured, using offline analyzer")
		llm = offline.NewClient()
	}

	// init pipeline
	runner, err := crew.NewRunner(
		llm,
		extract.NewPDF(cfg.Limits.MaxExtractChars),
		agents.Default(),
		logger,
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("crew init error")
	}

	// init arsip minio (opsional)
	var archive domain.ArchiveStore
	if cfg.Archive.Enabled {
		store, err := minioStore.New(ctx,
			cfg.Archive.Minio.Endpoint,
			cfg.Archive.Minio.Region,
			cfg.Archive.Minio.BucketName,
			cfg.Archive.Minio.AccessKey,
			cfg.Archive.Minio.SecretKey,
			cfg.Archive.Minio.UseSSL,
		)
		if err != nil {
			logger.Fatal().Err(err).Msg("minio init error")
		}
		archive = store
	}

	// init service
	svc := &appanalysis.Service{
		Repo:     repo,
		Pipeline: runner,
		Archive:  archive,
		Faults:   faultLog,
		Clock:    appanalysis.SystemClock{},
		WorkDir:  cfg.Storage.WorkDir,
		Timeout:  cfg.AITimeout(),
		Logger:   logger,
	}

	// init router
	mux := chi.NewRouter()
	mux.Mount("/", httpserver.NewRouter(svc, httpserver.Options{
		MaxUploadBytes: cfg.Limits.MaxUploadBytes,
		APIKey:         cfg.Server.APIKey,
		RateCapacity:   cfg.Limits.RateCapacity,
		RateRefill:     cfg.Limits.RateRefill,
	}, checkers, logger))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  60 * time.Second, // upload bisa lambat
		WriteTimeout: time.Duration(cfg.AI.TimeoutSeconds+30) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		logger.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Info().Msg("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
	}
}
