package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-search-assistant/internal/config"
	"github.com/jonathan/job-search-assistant/internal/server"
	"github.com/jonathan/job-search-assistant/internal/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes one job search session per client.
Sessions live in memory and expire after the configured idle time.
JWT_SECRET must be set to sign session tokens.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 8080, "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	ttl, err := cfg.SessionTTLDuration()
	if err != nil {
		return fmt.Errorf("invalid session TTL: %w", err)
	}
	tokens, err := config.NewSessionTokenConfig(ttl)
	if err != nil {
		return fmt.Errorf("failed to create session token config: %w", err)
	}

	ctx := context.Background()
	source, closeSource, err := buildSource(ctx, cfg)
	defer closeSource()
	if err != nil {
		return fmt.Errorf("failed to set up search: %w", err)
	}
	generator, closeGenerator, err := buildGenerator(ctx, cfg)
	defer closeGenerator()
	if err != nil {
		return fmt.Errorf("failed to set up tailoring: %w", err)
	}

	manager, err := session.NewManager(session.ManagerConfig{
		Searcher:      source,
		Tailorer:      generator,
		TTL:           ttl,
		SweepInterval: sweepInterval(ttl),
	})
	if err != nil {
		return err
	}

	srv, err := server.New(server.Config{
		Port:    cfg.Port,
		Manager: manager,
		Tokens:  tokens,
	})
	if err != nil {
		manager.Close()
		return fmt.Errorf("failed to create server: %w", err)
	}

	log.Printf("Searching with %s, tailoring with %s, sessions expire after %s idle",
		source.Name(), generator.Name(), ttl)
	return srv.Start()
}

// sweepInterval checks for expired sessions a few times per TTL, at most
// once a minute.
func sweepInterval(ttl time.Duration) time.Duration {
	return min(max(ttl/10, time.Second), time.Minute)
}
