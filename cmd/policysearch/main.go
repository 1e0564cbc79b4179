package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/securedesk/policysearch/api"
	"github.com/securedesk/policysearch/config"
	"github.com/securedesk/policysearch/internal/cache"
	"github.com/securedesk/policysearch/internal/chat"
	"github.com/securedesk/policysearch/internal/engine"
	"github.com/securedesk/policysearch/internal/events"
	"github.com/securedesk/policysearch/internal/metrics"
	"github.com/securedesk/policysearch/store"
)

func main() {
	var (
		help       = flag.Bool("help", false, "Show help message")
		version    = flag.Bool("version", false, "Show version information")
		configPath = flag.String("config", "", "Path to a YAML config file")
	)

	flag.Parse()

	if *help {
		fmt.Printf("Policy Search - document search and chat service with typo tolerance\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nExamples:\n")
		fmt.Printf("  %s                          # Start with defaults and the seeded in-memory store\n", os.Args[0])
		fmt.Printf("  %s --config config.yaml     # Start with a config file\n", os.Args[0])
		return
	}

	if *version {
		fmt.Printf("Policy Search v1.0.0\n")
		return
	}

	// .env is optional; real environments set variables directly.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := run(cfg); err != nil {
		log.Fatalf("Fatal: %v", err)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	docStore, err := buildStore(ctx, cfg)
	if err != nil {
		return err
	}
	if closer, ok := docStore.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	eng := engine.New(m)
	docs, err := docStore.ActiveDocuments(ctx)
	if err != nil {
		return fmt.Errorf("loading documents: %w", err)
	}
	eng.BuildIndex(docs)
	stats := eng.Stats()
	log.Printf("Indexed %d documents (%d distinct terms)", stats.Documents, stats.VocabularySize)

	var queryCache *cache.QueryCache
	if cfg.Redis.Enabled() {
		queryCache, err = cache.New(cfg.Redis, m)
		if err != nil {
			return fmt.Errorf("connecting query cache: %w", err)
		}
		defer queryCache.Close()
		log.Printf("Query cache enabled (redis %s)", cfg.Redis.Addr)
	}

	if cfg.Kafka.Enabled() {
		consumer := events.NewConsumer(cfg.Kafka, &indexApplier{
			engine: eng,
			store:  docStore,
			cache:  queryCache,
		})
		go func() {
			if err := consumer.Start(ctx); err != nil {
				log.Printf("Document events consumer stopped: %v", err)
			}
		}()
		log.Printf("Document events consumer enabled (topic %s)", cfg.Kafka.DocumentEvents)
	}

	chatService := chat.NewService(eng, nil)

	router := gin.Default()
	apiHandler := api.NewAPI(eng, docStore, queryCache, chatService, m, cfg.Search)
	apiHandler.SetupRoutes(router)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on port %d...", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// buildStore selects the Postgres store when configured and falls back to
// the seeded in-memory store otherwise.
func buildStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	if cfg.Postgres.Enabled() {
		pgStore, err := store.NewPostgresStore(cfg.Postgres)
		if err != nil {
			return nil, fmt.Errorf("connecting postgres: %w", err)
		}
		log.Printf("Using postgres store (%s:%d/%s)", cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.Database)
		return pgStore, nil
	}

	memStore := store.NewMemoryStore()
	if err := memStore.Seed(ctx, store.SeedDocuments()); err != nil {
		return nil, fmt.Errorf("seeding in-memory store: %w", err)
	}
	log.Println("Using seeded in-memory store")
	return memStore, nil
}

// indexApplier applies externally published document events to the live
// index, re-reading the document from the store so the index reflects the
// stored truth rather than the event payload.
type indexApplier struct {
	engine *engine.Engine
	store  store.Store
	cache  *cache.QueryCache
}

func (a *indexApplier) ApplyUpsert(ctx context.Context, id uint) error {
	doc, err := a.store.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("loading document %d: %w", id, err)
	}
	if doc.Active {
		a.engine.Upsert(doc)
	} else {
		a.engine.Remove(id)
	}
	return a.cache.Invalidate(ctx)
}

func (a *indexApplier) ApplyRemove(ctx context.Context, id uint) error {
	a.engine.Remove(id)
	return a.cache.Invalidate(ctx)
}
