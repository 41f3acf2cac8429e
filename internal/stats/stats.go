package stats

import (
	"github.com/fr4nk3nst1ner/devsalaries/internal/models"
	"github.com/fr4nk3nst1ner/devsalaries/internal/utils"
)

// Summarize turns the estimates collected for one language into its statistics
func Summarize(res models.LanguageResult) models.LanguageStatistics {
	s := models.LanguageStatistics{
		Language:           res.Language,
		VacanciesFound:     res.Found,
		VacanciesProcessed: len(res.Estimates),
	}
	if s.VacanciesProcessed > 0 {
		s.AverageSalary = utils.Mean(res.Estimates)
	}
	return s
}

// BuildReport summarizes every result in order. Languages without a single
// estimate still get a row.
func BuildReport(title string, results []models.LanguageResult) models.Report {
	report := models.Report{
		Title: title,
		Rows:  make([]models.LanguageStatistics, 0, len(results)),
	}
	for _, res := range results {
		report.Rows = append(report.Rows, Summarize(res))
	}
	return report
}
