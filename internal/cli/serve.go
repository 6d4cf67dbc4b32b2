package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/chemdeck/chemdeck/pkg/api"
	"github.com/chemdeck/chemdeck/pkg/cache"
	"github.com/chemdeck/chemdeck/pkg/dataset"
	"github.com/chemdeck/chemdeck/pkg/pipeline"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		redisURL string
		mongoURI string
		readOnly bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Run the HTTP API server.

The server exposes datasets, layouts and rendered artifacts over REST. By
default it uses the local file store and file cache. With --redis the cache
moves to Redis so multiple instances share computed layouts, and with --mongo
the editable datasets move to MongoDB.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, redisURL, mongoURI, readOnly)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&redisURL, "redis", "", "Redis URL for the shared cache (e.g. redis://localhost:6379/0)")
	cmd.Flags().StringVar(&mongoURI, "mongo", "", "MongoDB URI for the dataset store (e.g. mongodb://localhost:27017)")
	cmd.Flags().BoolVar(&readOnly, "read-only", false, "disable the dataset editing endpoints")

	return cmd
}

// runServe wires the stores, starts the server, and shuts down on ctx cancel.
func (c *CLI) runServe(ctx context.Context, addr, redisURL, mongoURI string, readOnly bool) error {
	store, cleanup, err := c.newServeStore(ctx, mongoURI)
	if err != nil {
		return err
	}
	defer cleanup()

	cc, err := c.newServeCache(ctx, redisURL)
	if err != nil {
		return err
	}

	runner := pipeline.NewRunner(store, cc, nil, c.Logger)
	defer runner.Close()
	if fs, ok := store.(*dataset.FileStore); ok && anyModified(fs) {
		runner.Fingerprint = "edited"
	}

	editStore := store
	if readOnly {
		editStore = nil
	}
	server := api.NewServer(runner, editStore, c.Logger)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", addr, "read_only", readOnly)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		c.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}

// newServeStore picks MongoDB when a URI is given, the file store otherwise.
func (c *CLI) newServeStore(ctx context.Context, mongoURI string) (dataset.Store, func(), error) {
	if mongoURI == "" {
		store, err := newStore()
		if err != nil {
			return nil, nil, fmt.Errorf("open store: %w", err)
		}
		return store, func() {}, nil
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping mongodb: %w", err)
	}
	c.Logger.Info("using mongodb dataset store")

	cleanup := func() { _ = client.Disconnect(context.Background()) }
	return dataset.NewMongoStore(client, appName), cleanup, nil
}

// newServeCache picks Redis when a URL is given, the file cache otherwise.
func (c *CLI) newServeCache(ctx context.Context, redisURL string) (cache.Cache, error) {
	if redisURL == "" {
		return newCache(false)
	}
	cc, err := cache.NewRedisCacheFromURL(ctx, redisURL)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	c.Logger.Info("using redis cache")
	return cc, nil
}
