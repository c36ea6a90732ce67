// Package presentation renders command results as JSON, terminal tables or
// markdown.
package presentation

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Formatter handles output formatting.
type Formatter struct {
	writer        io.Writer
	format        string
	markdownStyle string
}

// NewFormatter creates a formatter. format is "json", "table" or
// "markdown"; anything else falls back to table.
func NewFormatter(writer io.Writer, format, markdownStyle string) *Formatter {
	if markdownStyle == "" {
		markdownStyle = "dark"
	}
	return &Formatter{writer: writer, format: format, markdownStyle: markdownStyle}
}

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	invalidStyle = cellStyle.Foreground(lipgloss.Color("#EF4444"))
)

// FormatForms prints forms with their controls.
func (f *Formatter) FormatForms(forms []FormDTO) error {
	switch f.format {
	case "json":
		return f.json(forms)
	case "markdown":
		return f.markdown(formsMarkdown(forms))
	default:
		_, err := fmt.Fprintln(f.writer, formsTable(forms))
		return err
	}
}

// FormatSnapshots prints stored snapshots without their controls.
func (f *Formatter) FormatSnapshots(list []FormDTO) error {
	switch f.format {
	case "json":
		return f.json(list)
	case "markdown":
		var sb strings.Builder
		sb.WriteString("| Saved | Form | Valid | Controls | GUID |\n|---|---|---|---|---|\n")
		for _, s := range list {
			fmt.Fprintf(&sb, "| %s | %s | %s | %d | `%s` |\n", savedAt(s), s.Form, validMark(s.Valid), len(s.Controls), s.GUID)
		}
		return f.markdown(sb.String())
	default:
		t := newTable("Saved", "Form", "Valid", "Controls", "GUID")
		for _, s := range list {
			t.Row(savedAt(s), s.Form, validMark(s.Valid), strconv.Itoa(len(s.Controls)), s.GUID)
		}
		_, err := fmt.Fprintln(f.writer, t.String())
		return err
	}
}

// FormatDiff prints a line diff; an empty diff prints "no changes".
func (f *Formatter) FormatDiff(file, form, diff string) error {
	switch f.format {
	case "json":
		return f.json(map[string]any{"file": file, "form": form, "changed": diff != "", "diff": diff})
	case "markdown":
		if diff == "" {
			return f.markdown(fmt.Sprintf("**%s %s**: no changes\n", file, form))
		}
		return f.markdown(fmt.Sprintf("**%s %s**\n\n```diff\n%s```\n", file, form, diff))
	default:
		if diff == "" {
			_, err := fmt.Fprintf(f.writer, "%s %s: no changes\n", file, form)
			return err
		}
		_, err := fmt.Fprintf(f.writer, "%s %s\n%s", file, form, diff)
		return err
	}
}

func (f *Formatter) json(v any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func (f *Formatter) markdown(md string) error {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(f.markdownStyle),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return fmt.Errorf("create markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}
	_, err = io.WriteString(f.writer, out)
	return err
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func formsTable(forms []FormDTO) string {
	invalid := make(map[int]bool)
	t := newTable("File", "Form", "#", "Name", "Kind", "Valid")
	row := 0
	for _, form := range forms {
		t.Row(form.File, form.Form, "", "", "form", validMark(form.Valid))
		invalid[row] = !form.Valid
		row++
		for _, c := range form.Controls {
			t.Row("", "", strconv.Itoa(c.Index), c.Name, c.Kind, validMark(c.Valid))
			invalid[row] = !c.Valid
			row++
		}
	}
	t.StyleFunc(func(r, _ int) lipgloss.Style {
		switch {
		case r == table.HeaderRow:
			return headerStyle
		case invalid[r]:
			return invalidStyle
		default:
			return cellStyle
		}
	})
	return t.String()
}

func formsMarkdown(forms []FormDTO) string {
	var sb strings.Builder
	for _, form := range forms {
		fmt.Fprintf(&sb, "## %s %s\n\n", form.File, form.Form)
		fmt.Fprintf(&sb, "`%s %s` valid: **%s**\n\n", strings.ToUpper(form.Method), orDash(form.Action), validMark(form.Valid))
		if len(form.Controls) == 0 {
			sb.WriteString("_no controls_\n\n")
			continue
		}
		sb.WriteString("| # | Name | Kind | Valid |\n|---|---|---|---|\n")
		for _, c := range form.Controls {
			fmt.Fprintf(&sb, "| %d | %s | %s | %s |\n", c.Index, orDash(c.Name), c.Kind, validMark(c.Valid))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func validMark(valid bool) string {
	if valid {
		return "yes"
	}
	return "no"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func savedAt(f FormDTO) string {
	if f.CreatedAt == nil {
		return "-"
	}
	return f.CreatedAt.Format(time.DateTime)
}
