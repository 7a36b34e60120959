package main

import (
	"context"
	"fmt"

	"github.com/jonathan/job-search-assistant/internal/config"
	"github.com/jonathan/job-search-assistant/internal/db"
	"github.com/jonathan/job-search-assistant/internal/fetch"
	"github.com/jonathan/job-search-assistant/internal/llm"
	"github.com/jonathan/job-search-assistant/internal/search"
	"github.com/jonathan/job-search-assistant/internal/tailor"
)

// buildSource creates the configured search source. Several sources are
// combined in the configured order. The returned cleanup releases any
// connections and must be called even on error.
func buildSource(ctx context.Context, cfg config.Config) (search.Source, func(), error) {
	var sources []search.Source
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	for _, name := range cfg.SearchSources {
		switch name {
		case config.SourceStatic:
			sources = append(sources, search.NewStatic())

		case config.SourceFile:
			source, err := search.NewFile(cfg.ListingsFile)
			if err != nil {
				return nil, cleanup, err
			}
			sources = append(sources, source)

		case config.SourcePostgres:
			database, err := db.Connect(ctx, cfg.DatabaseURL)
			if err != nil {
				return nil, cleanup, err
			}
			closers = append(closers, database.Close)
			sources = append(sources, search.NewPostgres(database, cfg.SearchLimit))

		case config.SourceHTML:
			opts := fetch.DefaultOptions()
			opts.Render = cfg.HTMLRender
			source, err := search.NewHTML(cfg.HTMLURL, cfg.HTMLSelector, opts)
			if err != nil {
				return nil, cleanup, err
			}
			sources = append(sources, source)

		default:
			return nil, cleanup, fmt.Errorf("unknown search source %q", name)
		}
	}

	switch len(sources) {
	case 0:
		return nil, cleanup, fmt.Errorf("no search source configured")
	case 1:
		return sources[0], cleanup, nil
	}

	multi, err := search.NewMulti(sources...)
	if err != nil {
		return nil, cleanup, err
	}
	return multi, cleanup, nil
}

// buildGenerator creates the configured tailoring generator. The returned
// cleanup must be called even on error.
func buildGenerator(ctx context.Context, cfg config.Config) (tailor.Generator, func(), error) {
	noop := func() {}

	switch cfg.Tailor {
	case "", config.TailorTemplate:
		return tailor.NewTemplate(), noop, nil
	case config.TailorLLM:
		client, err := llm.NewGeminiClient(ctx, llm.DefaultConfig(), cfg.APIKey)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to create LLM client: %w", err)
		}
		return tailor.NewLLM(client), func() { _ = client.Close() }, nil
	default:
		return nil, noop, fmt.Errorf("unknown tailor generator %q", cfg.Tailor)
	}
}
