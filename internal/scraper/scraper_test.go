package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/fr4nk3nst1ner/devsalaries/internal/config"
	"github.com/fr4nk3nst1ner/devsalaries/internal/models"
	"github.com/pterm/pterm"
)

func testLogger() *pterm.Logger {
	return pterm.DefaultLogger.WithWriter(io.Discard)
}

func testCollector(maxFailures int) *Collector {
	return NewCollector(0, config.RetryPolicy{MaxConsecutiveFailures: maxFailures}, testLogger())
}

func TestHHVacancyEstimate(t *testing.T) {
	tests := []struct {
		name   string
		salary *models.SalaryRange
		want   int
		wantOK bool
	}{
		{"no salary", nil, 0, false},
		{"other currency", &models.SalaryRange{From: 100000, To: 200000, Currency: "USD"}, 0, false},
		{"fork", &models.SalaryRange{From: 100000, To: 200000, Currency: "RUR"}, 150000, true},
		{"from only", &models.SalaryRange{From: 100000, Currency: "RUR"}, 80000, true},
		{"to only", &models.SalaryRange{To: 100000, Currency: "RUR"}, 120000, true},
		{"no bounds", &models.SalaryRange{Currency: "RUR"}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := HHVacancy{Salary: tt.salary}.Estimate("RUR")
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Estimate() = (%d, %v), want (%d, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestHHVacancy_NullBounds(t *testing.T) {
	var v HHVacancy
	if err := json.Unmarshal([]byte(`{"id":"1","salary":{"from":null,"to":90000,"currency":"RUR"}}`), &v); err != nil {
		t.Fatal(err)
	}
	if got, ok := v.Estimate("RUR"); !ok || got != 108000 {
		t.Errorf("Estimate() = (%d, %v)", got, ok)
	}
}

func TestSJVacancyEstimate(t *testing.T) {
	tests := []struct {
		name   string
		v      SJVacancy
		want   int
		wantOK bool
	}{
		{"other currency", SJVacancy{PaymentFrom: 100000, PaymentTo: 200000, Currency: "usd"}, 0, false},
		{"no bounds", SJVacancy{Currency: "rub"}, 0, false},
		{"to only", SJVacancy{PaymentTo: 50000, Currency: "rub"}, 60000, true},
		{"from only", SJVacancy{PaymentFrom: 100000, Currency: "rub"}, 80000, true},
		{"fork", SJVacancy{PaymentFrom: 100000, PaymentTo: 200000, Currency: "rub"}, 150000, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.v.Estimate("rub")
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Estimate() = (%d, %v), want (%d, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

// hhServer serves pages pages, failing the ones listed in fail
func hhServer(t *testing.T, pages int, fail map[int]bool) (*httptest.Server, *[]string) {
	t.Helper()
	var mu sync.Mutex
	var seen []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		page, _ := strconv.Atoi(q.Get("page"))

		mu.Lock()
		seen = append(seen, q.Get("page"))
		mu.Unlock()

		if q.Get("text") != "Программист Go" || q.Get("area") != "1" || q.Get("period") != "30" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		if r.Header.Get("User-Agent") == "" {
			t.Error("missing User-Agent")
		}
		if fail[page] {
			w.Header().Set("Content-Type", "text/html")
			w.WriteHeader(http.StatusBadGateway)
			io.WriteString(w, "<html><title>502 Bad Gateway</title></html>")
			return
		}

		resp := HHSearchResponse{
			Found: 50,
			Pages: pages,
			Page:  page,
			Items: []HHVacancy{
				{ID: "a", Salary: &models.SalaryRange{From: 100000, To: 200000, Currency: "RUR"}},
				{ID: "b", Salary: &models.SalaryRange{From: 100000, Currency: "USD"}},
				{ID: "c"},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv, &seen
}

func newTestHH(baseURL string) *HeadHunter {
	cfg := config.Default().HeadHunter
	cfg.BaseURL = baseURL
	cfg.MaxPages = 10
	return NewHeadHunter(cfg, http.DefaultClient, "test-agent", testLogger())
}

func TestCollectHeadHunter(t *testing.T) {
	srv, seen := hhServer(t, 3, nil)

	res, err := testCollector(5).Collect(context.Background(), newTestHH(srv.URL), "Go")
	if err != nil {
		t.Fatal(err)
	}
	if len(*seen) != 3 {
		t.Errorf("requested %d pages, want 3", len(*seen))
	}
	if len(res.Estimates) != 3 {
		t.Errorf("Estimates = %v", res.Estimates)
	}
	if res.Found != 50 {
		t.Errorf("Found = %d", res.Found)
	}
}

func TestCollectHeadHunter_SkipsFailedPage(t *testing.T) {
	srv, seen := hhServer(t, 3, map[int]bool{1: true})

	res, err := testCollector(5).Collect(context.Background(), newTestHH(srv.URL), "Go")
	if err != nil {
		t.Fatal(err)
	}
	if len(*seen) != 3 {
		t.Errorf("requested %d pages, want 3", len(*seen))
	}
	if len(res.Estimates) != 2 {
		t.Errorf("Estimates = %v, want 2 pages worth", res.Estimates)
	}
}

func TestCollectHeadHunter_FirstPageFailsUsesBound(t *testing.T) {
	// page 0 fails, so the configured bound applies until page 1 answers
	srv, seen := hhServer(t, 2, map[int]bool{0: true})

	res, err := testCollector(5).Collect(context.Background(), newTestHH(srv.URL), "Go")
	if err != nil {
		t.Fatal(err)
	}
	if len(*seen) != 2 {
		t.Errorf("requested pages %v, want [0 1]", *seen)
	}
	if len(res.Estimates) != 1 || res.Found != 50 {
		t.Errorf("res = %+v", res)
	}
}

func TestCollectHeadHunter_AllPagesFail(t *testing.T) {
	fail := map[int]bool{}
	for i := 0; i < 20; i++ {
		fail[i] = true
	}
	srv, seen := hhServer(t, 3, fail)

	res, err := testCollector(4).Collect(context.Background(), newTestHH(srv.URL), "Go")
	if err != nil {
		t.Fatal(err)
	}
	if len(*seen) != 4 {
		t.Errorf("requested %d pages, want 4", len(*seen))
	}
	if res.Found != 0 || len(res.Estimates) != 0 {
		t.Errorf("res = %+v", res)
	}
}

func TestCollect_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"items": [`)
	}))
	defer srv.Close()

	_, err := testCollector(5).Collect(context.Background(), newTestHH(srv.URL), "Go")
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("err = %v, want ErrMalformed", err)
	}
}

func TestCollect_ContextCancelled(t *testing.T) {
	srv, _ := hhServer(t, 3, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := testCollector(5).Collect(ctx, newTestHH(srv.URL), "Go"); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func sjServer(t *testing.T, pages int, failFrom int) (*httptest.Server, *int) {
	t.Helper()
	var mu sync.Mutex
	calls := 0

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		mu.Unlock()

		q := r.URL.Query()
		page, _ := strconv.Atoi(q.Get("page"))
		if r.Header.Get(sjAppIDHeader) != "secret" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		if q.Get("keyword") != "Go" || q.Get("catalogues") != "48" || q.Get("town") != "4" || q.Get("count") != "20" || q.Get("period") != "0" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		if failFrom >= 0 && page >= failFrom {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}

		resp := SJSearchResponse{
			Total: 5,
			More:  page+1 < pages,
			Objects: []SJVacancy{
				{ID: 1, PaymentFrom: 0, PaymentTo: 50000, Currency: "rub"},
				{ID: 2, PaymentFrom: 0, PaymentTo: 0, Currency: "rub"},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func newTestSJ(baseURL, secret string) *SuperJob {
	cfg := config.Default().SuperJob
	cfg.BaseURL = baseURL
	return NewSuperJob(cfg, secret, http.DefaultClient, "test-agent", testLogger())
}

func TestCollectSuperJob(t *testing.T) {
	srv, calls := sjServer(t, 2, -1)

	res, err := testCollector(5).Collect(context.Background(), newTestSJ(srv.URL, "secret"), "Go")
	if err != nil {
		t.Fatal(err)
	}
	if *calls != 2 {
		t.Errorf("calls = %d, want 2", *calls)
	}
	if len(res.Estimates) != 2 || res.Estimates[0] != 60000 {
		t.Errorf("Estimates = %v", res.Estimates)
	}
	if res.Found != 5 {
		t.Errorf("Found = %d", res.Found)
	}
}

func TestCollectSuperJob_PersistentFailureTerminates(t *testing.T) {
	// page 0 succeeds with more=true, everything after fails forever
	srv, calls := sjServer(t, 10, 1)

	res, err := testCollector(3).Collect(context.Background(), newTestSJ(srv.URL, "secret"), "Go")
	if err != nil {
		t.Fatal(err)
	}
	if *calls != 4 {
		t.Errorf("calls = %d, want 1 success + 3 failures", *calls)
	}
	if len(res.Estimates) != 1 || res.Found != 5 {
		t.Errorf("res = %+v", res)
	}
}

func TestSuperJob_BadCredential(t *testing.T) {
	srv, _ := sjServer(t, 1, -1)

	_, err := newTestSJ(srv.URL, "wrong").FetchPage(context.Background(), "Go", 0)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.Code != http.StatusForbidden {
		t.Fatalf("err = %v, want 403 StatusError", err)
	}
	if !errors.Is(err, ErrStatus) {
		t.Error("StatusError should wrap ErrStatus")
	}
}

func TestHeadHunterHasNext(t *testing.T) {
	hh := newTestHH("http://unused")
	if !hh.HasNext(9, nil) || hh.HasNext(10, nil) {
		t.Error("bound before first response should be MaxPages")
	}
	last := &models.Page{Pages: 2}
	if !hh.HasNext(1, last) || hh.HasNext(2, last) {
		t.Error("bound should follow the last response")
	}
}

func TestStatusErrorSummary(t *testing.T) {
	srv, _ := hhServer(t, 1, map[int]bool{0: true})

	_, err := newTestHH(srv.URL).FetchPage(context.Background(), "Go", 0)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("err = %v", err)
	}
	if statusErr.Summary != "502 Bad Gateway" {
		t.Errorf("Summary = %q", statusErr.Summary)
	}
}
