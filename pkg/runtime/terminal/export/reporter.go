package export

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/de-tools/price-atlas/pkg/models/domain"
)

type TableConfig struct {
	MinColumnWidth int
	MaxColumnWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		MinColumnWidth: 8,
		MaxColumnWidth: 48,
	}
}

type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

type summaryEntry struct {
	Key   string
	Value interface{}
}

func (c *Reporter) Handle(report *domain.Report) error {
	funcMap := template.FuncMap{
		"widths": c.widths,
		"formatRow": func(cells []string, widths []int) string {
			var b strings.Builder
			b.WriteString("|")
			for i, w := range widths {
				cell := ""
				if i < len(cells) {
					cell = truncate(cells[i], w)
				}
				fmt.Fprintf(&b, " %-*s |", w, cell)
			}
			return b.String()
		},
		"separator": func(widths []int) string {
			var b strings.Builder
			b.WriteString("+")
			for _, w := range widths {
				b.WriteString(strings.Repeat("-", w+2))
				b.WriteString("+")
			}
			return b.String()
		},
		"summary": sortedSummary,
		"hasPeriod": func(p domain.TimePeriod) bool {
			return !p.Start.IsZero() && !p.End.IsZero()
		},
	}

	tmpl := `
{{.Title}}
{{if hasPeriod .Period}}Period: {{.Period.Start.Format "2006-01-02"}} to {{.Period.End.Format "2006-01-02"}} ({{.Period.Duration}} days)
{{end}}{{if .Headline}}{{.Headline}}
{{end}}
{{range .Sections}}
=== {{.Title}} ===
{{range summary .Summary}}{{.Key}}: {{.Value}}
{{end}}{{if .Columns}}{{$w := widths .Columns .Rows}}{{separator $w}}
{{formatRow .Columns $w}}
{{separator $w}}
{{range .Rows}}{{formatRow . $w}}
{{end}}{{separator $w}}
{{end}}{{end}}`

	t, err := template.New("report").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, report)
}

// widths sizes every column to its widest cell within the configured bounds.
func (c *Reporter) widths(columns []string, rows [][]string) []int {
	widths := make([]int, len(columns))
	for i, col := range columns {
		widths[i] = max(c.config.MinColumnWidth, utf8.RuneCountInString(col))
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			widths[i] = max(widths[i], utf8.RuneCountInString(row[i]))
		}
	}
	for i := range widths {
		widths[i] = min(widths[i], c.config.MaxColumnWidth)
	}
	return widths
}

func sortedSummary(summary map[string]interface{}) []summaryEntry {
	entries := make([]summaryEntry, 0, len(summary))
	for k, v := range summary {
		entries = append(entries, summaryEntry{Key: k, Value: v})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})
	return entries
}

func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	return string(runes[:width-1]) + "…"
}
