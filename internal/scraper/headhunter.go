package scraper

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/fr4nk3nst1ner/devsalaries/internal/client"
	"github.com/fr4nk3nst1ner/devsalaries/internal/config"
	"github.com/fr4nk3nst1ner/devsalaries/internal/models"
	"github.com/fr4nk3nst1ner/devsalaries/internal/utils"
	"github.com/pterm/pterm"
)

// HHSearchResponse represents one page of the hh.ru vacancy search
type HHSearchResponse struct {
	Items []HHVacancy `json:"items"`
	Found int         `json:"found"`
	Pages int         `json:"pages"`
	Page  int         `json:"page"`
}

// HHVacancy represents a vacancy from hh.ru. Salary is null when the employer
// did not publish one.
type HHVacancy struct {
	ID     string              `json:"id"`
	Name   string              `json:"name"`
	Salary *models.SalaryRange `json:"salary"`
}

// Estimate predicts the salary of the vacancy in the given currency
func (v HHVacancy) Estimate(currency string) (int, bool) {
	if v.Salary == nil || v.Salary.Currency != currency {
		return 0, false
	}
	return utils.PredictSalary(v.Salary.From, v.Salary.To)
}

// HeadHunter pages through api.hh.ru with a page counter bounded by the
// "pages" value of the latest successful response
type HeadHunter struct {
	apiClient
	cfg config.HHConfig
}

func NewHeadHunter(cfg config.HHConfig, httpClient *http.Client, userAgent string, logger *pterm.Logger) *HeadHunter {
	return &HeadHunter{
		apiClient: apiClient{
			httpClient: httpClient,
			headers:    client.APIHeaders(userAgent),
			logger:     logger,
		},
		cfg: cfg,
	}
}

func (p *HeadHunter) Name() string  { return "hh" }
func (p *HeadHunter) Title() string { return p.cfg.Title }

// HasNext keeps paging until the page count of the last good response (or the
// configured bound before any response) is reached
func (p *HeadHunter) HasNext(page int, last *models.Page) bool {
	bound := p.cfg.MaxPages
	if last != nil {
		bound = last.Pages
	}
	return page < bound
}

func (p *HeadHunter) FetchPage(ctx context.Context, language string, page int) (models.Page, error) {
	params := url.Values{}
	params.Set("text", strings.TrimSpace(p.cfg.TextPrefix+" "+language))
	params.Set("area", strconv.Itoa(p.cfg.Area))
	params.Set("period", strconv.Itoa(p.cfg.Period))
	params.Set("per_page", strconv.Itoa(p.cfg.PerPage))
	params.Set("page", strconv.Itoa(page))

	var resp HHSearchResponse
	if err := p.getJSON(ctx, p.cfg.BaseURL, params, &resp); err != nil {
		return models.Page{}, err
	}

	result := models.Page{
		Found: resp.Found,
		Pages: resp.Pages,
		More:  page+1 < resp.Pages,
	}
	for _, v := range resp.Items {
		if salary, ok := v.Estimate(p.cfg.Currency); ok {
			result.Estimates = append(result.Estimates, salary)
		}
	}
	return result, nil
}
