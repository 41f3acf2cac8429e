package models

// SalaryRange is the salary fork published with a vacancy. A zero bound means
// the source did not publish it.
type SalaryRange struct {
	From     int    `json:"from"`
	To       int    `json:"to"`
	Currency string `json:"currency"`
}

// Page is the outcome of one successfully parsed search page. Pages is only
// reported by sources that page by counter.
type Page struct {
	Estimates []int
	Found     int
	Pages     int
	More      bool
}

// LanguageResult is everything a source collected for one language
type LanguageResult struct {
	Language  string
	Estimates []int
	Found     int
}

// LanguageStatistics represents the aggregated salary figures for a language.
// AverageSalary is only meaningful when VacanciesProcessed > 0.
type LanguageStatistics struct {
	Language           string
	VacanciesFound     int
	VacanciesProcessed int
	AverageSalary      int
}

// HasAverage reports whether an average salary could be computed
func (s LanguageStatistics) HasAverage() bool {
	return s.VacanciesProcessed > 0
}

// Report is a titled, ordered set of statistics rows
type Report struct {
	Title string
	Rows  []LanguageStatistics
}
