package scraper

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/fr4nk3nst1ner/devsalaries/internal/client"
	"github.com/fr4nk3nst1ner/devsalaries/internal/config"
	"github.com/fr4nk3nst1ner/devsalaries/internal/models"
	"github.com/fr4nk3nst1ner/devsalaries/internal/utils"
	"github.com/pterm/pterm"
)

const sjAppIDHeader = "X-Api-App-Id"

// SJSearchResponse represents one page of the SuperJob vacancy search
type SJSearchResponse struct {
	Objects []SJVacancy `json:"objects"`
	Total   int         `json:"total"`
	More    bool        `json:"more"`
}

// SJVacancy represents a vacancy from SuperJob. Unpublished bounds come back as 0.
type SJVacancy struct {
	ID          int    `json:"id"`
	Profession  string `json:"profession"`
	PaymentFrom int    `json:"payment_from"`
	PaymentTo   int    `json:"payment_to"`
	Currency    string `json:"currency"`
}

// Estimate predicts the salary of the vacancy in the given currency
func (v SJVacancy) Estimate(currency string) (int, bool) {
	if v.Currency != currency {
		return 0, false
	}
	if v.PaymentFrom <= 0 && v.PaymentTo <= 0 {
		return 0, false
	}
	return utils.PredictSalary(v.PaymentFrom, v.PaymentTo)
}

// SuperJob pages through api.superjob.ru until a response says there is no more
type SuperJob struct {
	apiClient
	cfg config.SJConfig
}

func NewSuperJob(cfg config.SJConfig, secretKey string, httpClient *http.Client, userAgent string, logger *pterm.Logger) *SuperJob {
	headers := client.APIHeaders(userAgent)
	headers.Set(sjAppIDHeader, secretKey)

	return &SuperJob{
		apiClient: apiClient{
			httpClient: httpClient,
			headers:    headers,
			logger:     logger,
		},
		cfg: cfg,
	}
}

func (p *SuperJob) Name() string  { return "superjob" }
func (p *SuperJob) Title() string { return p.cfg.Title }

// HasNext keeps paging while the last good response reported more results.
// Failed pages do not change the answer.
func (p *SuperJob) HasNext(page int, last *models.Page) bool {
	return last == nil || last.More
}

func (p *SuperJob) FetchPage(ctx context.Context, language string, page int) (models.Page, error) {
	params := url.Values{}
	params.Set("keyword", language)
	params.Set("catalogues", strconv.Itoa(p.cfg.Catalogue))
	params.Set("town", strconv.Itoa(p.cfg.Town))
	params.Set("page", strconv.Itoa(page))
	params.Set("count", strconv.Itoa(p.cfg.Count))
	params.Set("period", strconv.Itoa(p.cfg.Period))

	var resp SJSearchResponse
	if err := p.getJSON(ctx, p.cfg.BaseURL, params, &resp); err != nil {
		return models.Page{}, err
	}

	result := models.Page{
		Found: resp.Total,
		More:  resp.More,
	}
	for _, v := range resp.Objects {
		if salary, ok := v.Estimate(p.cfg.Currency); ok {
			result.Estimates = append(result.Estimates, salary)
		}
	}
	return result, nil
}
