package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"noteful-server/internal/config"
	"noteful-server/internal/domain"
	"noteful-server/internal/handler"
	"noteful-server/internal/repository"
	"noteful-server/internal/server"
	"noteful-server/internal/service"
	"noteful-server/internal/websocket"
	"noteful-server/pkg/logger"

	_ "github.com/go-kivik/kivik/v4/couchdb"

	"github.com/go-kivik/kivik/v4"
	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	noteRepo, closer, err := openNoteRepository(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("Failed to open note store")
	}
	defer closer.Close()

	hub := websocket.NewHub(websocket.Options{
		WriteWait:      cfg.WebSocket.WriteWait,
		PongWait:       cfg.WebSocket.PongWait,
		PingPeriod:     cfg.WebSocket.PingPeriod,
		MaxMessageSize: cfg.WebSocket.MaxMessageSize,
		MaxConnections: cfg.WebSocket.MaxConnections,
	}, log)
	go hub.Run(ctx)

	noteService := service.NewNoteService(noteRepo, hub, cfg.Notes.DefaultLimit)

	router := server.NewRouter(server.Dependencies{
		NoteHandler:      handler.NewNoteHandler(noteService, log, cfg.Server.IsDevelopment()),
		WebSocketHandler: handler.NewWebSocketHandler(hub, cfg.WebSocket.ReadBufferSize, cfg.WebSocket.WriteBufferSize, log),
		CORS:             cfg.CORS,
		Logger:           log,
	})

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)

	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", addr).
			Str("env", cfg.Server.Env).
			Str("store", cfg.Store.Driver).
			Msg("Starting Noteful server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	<-ctx.Done()

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		return
	}

	log.Info().Msg("Server stopped gracefully")
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// openNoteRepository builds the store selected by STORE_DRIVER. The returned
// closer releases background resources such as the file watcher.
func openNoteRepository(ctx context.Context, cfg *config.Config, log zerolog.Logger) (repository.NoteRepository, io.Closer, error) {
	var seed []*domain.Note
	if cfg.Store.Seed {
		seed = domain.SeedNotes()
	}

	switch cfg.Store.Driver {
	case config.StoreDriverFile:
		repo, err := repository.NewFileNoteRepository(cfg.Store.Path, seed, log)
		if err != nil {
			return nil, nil, err
		}
		if cfg.Store.Watch {
			if err := repo.Watch(); err != nil {
				return nil, nil, err
			}
		}
		return repo, repo, nil

	case config.StoreDriverCouch:
		client, err := kivik.New("couch", cfg.Database.URL())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to CouchDB: %w", err)
		}

		exists, err := client.DBExists(ctx, cfg.Database.Name)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to check database existence: %w", err)
		}
		if !exists {
			if err := client.CreateDB(ctx, cfg.Database.Name); err != nil {
				return nil, nil, fmt.Errorf("failed to create database: %w", err)
			}
			log.Info().Str("database", cfg.Database.Name).Msg("Created database")
		}

		repo := repository.NewCouchNoteRepository(client, cfg.Database.Name)
		if err := repo.Seed(ctx, seed); err != nil {
			return nil, nil, err
		}
		log.Info().Str("host", cfg.Database.Host).Str("port", cfg.Database.Port).Msg("Connected to CouchDB")
		return repo, client, nil

	default:
		return repository.NewMemoryNoteRepository(seed), nopCloser{}, nil
	}
}
