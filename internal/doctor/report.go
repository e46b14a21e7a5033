package doctor

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Status symbols and ANSI colors used in the text report.
const (
	symbolPass = "●"
	symbolFail = "✗"

	colorPass  lipgloss.Color = "2"
	colorWarn  lipgloss.Color = "3"
	colorFail  lipgloss.Color = "1"
	colorMuted lipgloss.Color = "8"
)

// Report is the JSON form of a doctor run.
type Report struct {
	Categories []CategoryReport `json:"categories"`
	Summary    ReportSummary    `json:"summary"`
}

// CategoryReport holds the results of one category.
type CategoryReport struct {
	Name    string        `json:"name"`
	Results []CheckResult `json:"results"`
}

// ReportSummary counts results by status.
type ReportSummary struct {
	Pass     int  `json:"pass"`
	Warn     int  `json:"warn"`
	Fail     int  `json:"fail"`
	AllClear bool `json:"all_clear"`
}

// NewReport groups results by category in CategoryOrder.
func NewReport(checks []Check, results Results) Report {
	grouped := make(map[string][]CheckResult)
	for i, check := range checks {
		grouped[check.Category()] = append(grouped[check.Category()], results[i])
	}

	var r Report
	for _, cat := range CategoryOrder {
		if rs, ok := grouped[cat]; ok {
			r.Categories = append(r.Categories, CategoryReport{Name: cat, Results: rs})
		}
	}
	r.Summary = ReportSummary{
		Pass:     results.Count(StatusPass),
		Warn:     results.Count(StatusWarn),
		Fail:     results.Count(StatusFail),
		AllClear: results.Clean(),
	}
	return r
}

// WriteJSON writes the report as indented JSON.
func (r Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteText renders the report for a terminal.
func (r Report) WriteText(w io.Writer) error {
	pass := lipgloss.NewStyle().Foreground(colorPass)
	warn := lipgloss.NewStyle().Foreground(colorWarn)
	fail := lipgloss.NewStyle().Foreground(colorFail)
	muted := lipgloss.NewStyle().Foreground(colorMuted)
	header := lipgloss.NewStyle().Bold(true)

	var b strings.Builder
	b.WriteString("\n" + header.Render("rtop Diagnostic Report") + "\n\n")

	var all Results
	for _, cat := range r.Categories {
		b.WriteString(header.Render(cat.Name) + "\n")
		for _, res := range cat.Results {
			all = append(all, res)
			symbol, style := symbolPass, pass
			switch res.Status {
			case StatusWarn:
				style = warn
			case StatusFail:
				symbol, style = symbolFail, fail
			}
			fmt.Fprintf(&b, "  %s %s\n", style.Render(symbol), res.Message)
			if res.Suggestion != "" && res.Status != StatusPass {
				for _, line := range strings.Split(res.Suggestion, "\n") {
					fmt.Fprintf(&b, "    %s\n", muted.Render(line))
				}
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(strings.Repeat("━", 60) + "\n\n")
	if r.Summary.AllClear {
		fmt.Fprintf(&b, "%s %s\n\n", pass.Render("✓"), all.Summary())
	} else {
		fmt.Fprintf(&b, "%s %s\n\n", fail.Render(symbolFail), all.Summary())
	}

	_, err := io.WriteString(w, b.String())
	return err
}
