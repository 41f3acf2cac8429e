package app

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cheggaaa/pb/v3"
	"github.com/fr4nk3nst1ner/devsalaries/internal/client"
	"github.com/fr4nk3nst1ner/devsalaries/internal/config"
	"github.com/fr4nk3nst1ner/devsalaries/internal/models"
	"github.com/fr4nk3nst1ner/devsalaries/internal/scraper"
	"github.com/fr4nk3nst1ner/devsalaries/internal/stats"
	"github.com/fr4nk3nst1ner/devsalaries/internal/ui"
	"github.com/pterm/pterm"
)

// Source names accepted by NewSources, in report order
const (
	SourceHeadHunter = "hh"
	SourceSuperJob   = "superjob"
)

// IsValidSource reports whether name selects a source. Empty means all of them.
func IsValidSource(name string) bool {
	switch strings.ToLower(name) {
	case "", SourceHeadHunter, SourceSuperJob:
		return true
	}
	return false
}

// NeedsSecret reports whether the selection includes SuperJob
func NeedsSecret(name string) bool {
	name = strings.ToLower(name)
	return name == "" || name == SourceSuperJob
}

// NewSources builds the selected sources, HeadHunter first
func NewSources(cfg *config.Config, name string, logger *pterm.Logger) ([]scraper.Source, error) {
	if !IsValidSource(name) {
		return nil, fmt.Errorf("invalid source %q: must be one of hh, superjob", name)
	}

	httpClient, err := client.CreateHTTPClient(cfg.Proxy, cfg.Timeout)
	if err != nil {
		return nil, err
	}

	name = strings.ToLower(name)
	var sources []scraper.Source
	if name == "" || name == SourceHeadHunter {
		sources = append(sources, scraper.NewHeadHunter(cfg.HeadHunter, httpClient, cfg.UserAgent, logger))
	}
	if name == "" || name == SourceSuperJob {
		if cfg.SecretKey == "" {
			return nil, config.ErrMissingCredential
		}
		sources = append(sources, scraper.NewSuperJob(cfg.SuperJob, cfg.SecretKey, httpClient, cfg.UserAgent, logger))
	}
	return sources, nil
}

// App runs every source over the configured languages and renders one report each
type App struct {
	languages []string
	sources   []scraper.Source
	collector *scraper.Collector
	logger    *pterm.Logger
	// Progress receives a progress bar per source; nil disables it
	Progress io.Writer
}

func New(cfg *config.Config, sources []scraper.Source, logger *pterm.Logger) *App {
	return &App{
		languages: cfg.Languages,
		sources:   sources,
		collector: scraper.NewCollector(cfg.RequestDelay, cfg.Retry, logger),
		logger:    logger,
	}
}

// Reports collects statistics from every source. Nothing is returned unless
// every source completed.
func (a *App) Reports(ctx context.Context) ([]models.Report, error) {
	reports := make([]models.Report, 0, len(a.sources))
	for _, src := range a.sources {
		report, err := a.collectSource(ctx, src)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", src.Name(), err)
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// Run collects every report and writes them to w
func (a *App) Run(ctx context.Context, w io.Writer) error {
	reports, err := a.Reports(ctx)
	if err != nil {
		return err
	}
	for _, report := range reports {
		if err := ui.RenderReport(w, report); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) collectSource(ctx context.Context, src scraper.Source) (models.Report, error) {
	var bar *pb.ProgressBar
	if a.Progress != nil {
		bar = pb.New(len(a.languages)).SetWriter(a.Progress).Set("prefix", src.Title())
		bar.Start()
		defer bar.Finish()
	}

	results := make([]models.LanguageResult, 0, len(a.languages))
	for _, language := range a.languages {
		res, err := a.collector.Collect(ctx, src, language)
		if err != nil {
			return models.Report{}, fmt.Errorf("language %s: %w", language, err)
		}
		a.logger.Debug("language done", a.logger.Args(
			"source", src.Name(),
			"language", language,
			"found", res.Found,
			"processed", len(res.Estimates),
		))
		results = append(results, res)
		if bar != nil {
			bar.Increment()
		}
	}

	return stats.BuildReport(src.Title(), results), nil
}
