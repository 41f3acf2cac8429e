package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fr4nk3nst1ner/devsalaries/internal/models"
	"github.com/fr4nk3nst1ner/devsalaries/internal/utils"
	"github.com/pterm/pterm"
	"golang.org/x/term"
)

// Header is the first row of every report
var Header = []string{"Language", "Vacancies Found", "Vacancies Processed", "Average Salary"}

// ColorizeSalary colors an average salary by how high it is
func ColorizeSalary(s models.LanguageStatistics) string {
	if !s.HasAverage() {
		return pterm.Gray(utils.NoData)
	}

	formatted := utils.FormatNumber(s.AverageSalary)
	switch {
	case s.AverageSalary >= 300000:
		return pterm.Green(formatted)
	case s.AverageSalary >= 200000:
		return pterm.LightGreen(formatted)
	case s.AverageSalary >= 100000:
		return pterm.Yellow(formatted)
	default:
		return pterm.Red(formatted)
	}
}

// TableData lays the report out as rows, header first
func TableData(report models.Report) pterm.TableData {
	data := pterm.TableData{Header}
	for _, row := range report.Rows {
		data = append(data, []string{
			row.Language,
			utils.FormatNumber(row.VacanciesFound),
			utils.FormatNumber(row.VacanciesProcessed),
			ColorizeSalary(row),
		})
	}
	return data
}

// RenderReport writes the report as an ASCII-bordered table with the title in
// its top border. Colors are kept only when w is a terminal.
func RenderReport(w io.Writer, report models.Report) error {
	table, err := pterm.DefaultTable.
		WithHasHeader().
		WithSeparator(" | ").
		WithHeaderRowSeparator("-").
		WithData(TableData(report)).
		Srender()
	if err != nil {
		return fmt.Errorf("render table %q: %w", report.Title, err)
	}

	box := pterm.DefaultBox.
		WithTitle(report.Title).
		WithHorizontalString("-").
		WithVerticalString("|").
		WithTopLeftCornerString("+").
		WithTopRightCornerString("+").
		WithBottomLeftCornerString("+").
		WithBottomRightCornerString("+")

	out := box.Sprint(table)
	if !ColorEnabled(w) {
		out = pterm.RemoveColorFromString(out)
	}

	_, err = fmt.Fprintln(w, out)
	return err
}

// ColorEnabled reports whether w is a terminal. Files, pipes and buffers get
// plain text.
func ColorEnabled(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
