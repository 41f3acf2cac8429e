package scraper

import (
	"context"
	"errors"
	"time"

	"github.com/fr4nk3nst1ner/devsalaries/internal/config"
	"github.com/fr4nk3nst1ner/devsalaries/internal/models"
	"github.com/pterm/pterm"
	"golang.org/x/time/rate"
)

// Source is one job board API
type Source interface {
	Name() string
	Title() string
	// HasNext reports whether page should be requested, given the last page
	// that parsed successfully (nil before the first one)
	HasNext(page int, last *models.Page) bool
	FetchPage(ctx context.Context, language string, page int) (models.Page, error)
}

// Collector walks every page of a source for a language, pacing requests and
// skipping failed pages according to the retry policy
type Collector struct {
	limiter *rate.Limiter
	retry   config.RetryPolicy
	logger  *pterm.Logger
}

func NewCollector(requestDelay time.Duration, retry config.RetryPolicy, logger *pterm.Logger) *Collector {
	limit := rate.Inf
	if requestDelay > 0 {
		limit = rate.Every(requestDelay)
	}
	return &Collector{
		limiter: rate.NewLimiter(limit, 1),
		retry:   retry,
		logger:  logger,
	}
}

// Collect gathers salary estimates for language from src. Non-2xx responses and
// transport errors skip the page; a malformed body or a cancelled context ends
// the run with an error.
func (c *Collector) Collect(ctx context.Context, src Source, language string) (models.LanguageResult, error) {
	acc := models.LanguageResult{Language: language}

	var last *models.Page
	failures := 0

	for page := 0; src.HasNext(page, last); page++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return acc, err
		}

		p, err := src.FetchPage(ctx, language, page)
		if err != nil {
			if ctx.Err() != nil {
				return acc, ctx.Err()
			}
			if errors.Is(err, ErrMalformed) {
				return acc, err
			}

			failures++
			c.logger.Warn("skipping page", c.logger.Args(
				"source", src.Name(),
				"language", language,
				"page", page,
				"error", err,
			))

			if failures >= c.retry.MaxConsecutiveFailures {
				c.logger.Warn("giving up on language", c.logger.Args(
					"source", src.Name(),
					"language", language,
					"failures", failures,
				))
				break
			}
			if err := sleep(ctx, c.retry.Delay(failures)); err != nil {
				return acc, err
			}
			continue
		}

		failures = 0
		last = &p
		acc.Estimates = append(acc.Estimates, p.Estimates...)
		acc.Found = p.Found

		c.logger.Debug("page done", c.logger.Args(
			"source", src.Name(),
			"language", language,
			"page", page,
			"estimated", len(p.Estimates),
			"found", p.Found,
		))
	}

	return acc, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
