package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pvlab/sunrack/internal/api"
	"github.com/pvlab/sunrack/pkg/cache"
	"github.com/pvlab/sunrack/pkg/pipeline"
	"github.com/pvlab/sunrack/pkg/store"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		redisURL string
		mongoURI string
		mongoDB  string
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

Serves the planning pipeline over HTTP together with project storage.
Without --mongo-uri, projects live in memory and vanish on restart.
With --redis, computed layouts are shared across API instances.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, redisURL, mongoURI, mongoDB, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&redisURL, "redis", os.Getenv("SUNRACK_REDIS_ADDR"), "redis address for shared layout caching")
	cmd.Flags().StringVar(&mongoURI, "mongo-uri", os.Getenv("SUNRACK_MONGO_URI"), "mongodb connection string for project storage")
	cmd.Flags().StringVar(&mongoDB, "mongo-db", "sunrack", "mongodb database name")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable layout caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, redisURL, mongoURI, mongoDB string, noCache bool) error {
	layoutCache, err := c.serveCache(ctx, redisURL, noCache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}

	var st store.Store
	if mongoURI != "" {
		st, err = store.NewMongoStore(ctx, mongoURI, mongoDB)
		if err != nil {
			return fmt.Errorf("connect to mongodb: %w", err)
		}
		c.Logger.Info("using mongodb project storage", "db", mongoDB)
	} else {
		st = store.NewMemoryStore()
		c.Logger.Warn("using in-memory project storage; projects are lost on restart")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = st.Close(shutdownCtx)
	}()

	runner := pipeline.NewRunner(layoutCache, nil, c.Logger)
	defer runner.Close()

	server := &http.Server{
		Addr:              addr,
		Handler:           api.NewServer(runner, st, c.Logger).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		c.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// serveCache picks the cache backend for the API: redis when configured,
// otherwise the CLI's file cache.
func (c *CLI) serveCache(ctx context.Context, redisURL string, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if redisURL != "" {
		redisCache, err := cache.NewRedisCache(ctx, redisURL, os.Getenv("SUNRACK_REDIS_PASSWORD"), 0)
		if err != nil {
			return nil, err
		}
		c.Logger.Info("using redis layout cache", "addr", redisURL)
		return redisCache, nil
	}
	return newCache(false)
}
