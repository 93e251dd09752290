// Package ui renders command line output.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/pterm/pterm"
)

var (
	// Out receives regular output.
	Out io.Writer = os.Stdout
	// Err receives errors and warnings.
	Err io.Writer = os.Stderr
)

var (
	// Colors
	PrimaryColor   = lipgloss.Color("#00D9FF")
	SuccessColor   = lipgloss.Color("#00FF88")
	WarningColor   = lipgloss.Color("#FFB800")
	ErrorColor     = lipgloss.Color("#FF4444")
	SecondaryColor = lipgloss.Color("#6C757D")

	// Styles
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	SecondaryStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor)
)

var (
	keywordColor = color.New(color.FgCyan, color.Bold)
	stringColor  = color.New(color.FgGreen)
	numberColor  = color.New(color.FgMagenta)
)

// Width returns the terminal width, or 80 when it cannot be determined.
func Width() int {
	if w := pterm.GetTerminalWidth(); w > 0 {
		return w
	}
	return 80
}

// PrintSuccess prints a success message.
func PrintSuccess(format string, args ...interface{}) {
	fmt.Fprintln(Out, SuccessStyle.Render("✓ "+fmt.Sprintf(format, args...)))
}

// PrintError prints an error message.
func PrintError(format string, args ...interface{}) {
	fmt.Fprintln(Err, ErrorStyle.Render("✗ "+fmt.Sprintf(format, args...)))
}

// PrintWarning prints a warning message.
func PrintWarning(format string, args ...interface{}) {
	fmt.Fprintln(Err, WarningStyle.Render("⚠ "+fmt.Sprintf(format, args...)))
}

// PrintInfo prints a dimmed informational message.
func PrintInfo(format string, args ...interface{}) {
	fmt.Fprintln(Out, SecondaryStyle.Render(fmt.Sprintf(format, args...)))
}

// PrintSection prints a section header underlined to the terminal width.
func PrintSection(title string) {
	section := lipgloss.NewStyle().
		Width(Width()).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(SecondaryColor).
		Render(TitleStyle.Render(title))

	fmt.Fprintln(Out, section)
}

// PrintTable prints a table with a header row.
func PrintTable(headers []string, rows [][]string) error {
	data := pterm.TableData{headers}
	data = append(data, rows...)
	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(Out, out)
	return nil
}

// RenderMarkdown renders markdown for the terminal.
func RenderMarkdown(content string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(min(Width(), 120)),
	)
	if err != nil {
		return "", err
	}
	return r.Render(content)
}

// PrintMarkdown renders markdown content to Out.
func PrintMarkdown(content string) error {
	out, err := RenderMarkdown(content)
	if err != nil {
		return err
	}
	fmt.Fprint(Out, out)
	return nil
}

// sqlKeywords are highlighted by HighlightSQL.
var sqlKeywords = map[string]bool{
	"SELECT": true, "FROM": true, "WHERE": true, "AND": true, "OR": true,
	"NOT": true, "IN": true, "IS": true, "NULL": true, "AS": true,
	"LEFT": true, "JOIN": true, "ON": true, "ORDER": true, "BY": true,
	"ASC": true, "DESC": true, "LIKE": true, "BETWEEN": true, "FIRST": true,
	"SKIP": true, "LIMIT": true, "OFFSET": true, "CAST": true, "EXISTS": true,
}

// HighlightSQL colors keywords, string literals and numbers. Quoted
// identifiers are left alone. Output is unchanged when color is disabled.
func HighlightSQL(sql string) string {
	if color.NoColor {
		return sql
	}

	var b strings.Builder
	for i := 0; i < len(sql); {
		c := sql[i]
		switch {
		case c == '\'' || c == '"':
			j := closingQuote(sql, i)
			if c == '\'' {
				b.WriteString(stringColor.Sprint(sql[i:j]))
			} else {
				b.WriteString(sql[i:j])
			}
			i = j
		case isWordByte(c):
			j := i
			for j < len(sql) && isWordByte(sql[j]) {
				j++
			}
			word := sql[i:j]
			switch {
			case sqlKeywords[strings.ToUpper(word)]:
				b.WriteString(keywordColor.Sprint(word))
			case isNumber(word):
				b.WriteString(numberColor.Sprint(word))
			default:
				b.WriteString(word)
			}
			i = j
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String()
}

// closingQuote returns the index just past the literal starting at i. A
// doubled quote character is an escaped quote.
func closingQuote(s string, i int) int {
	q := s[i]
	j := i + 1
	for j < len(s) {
		if s[j] == q {
			if j+1 < len(s) && s[j+1] == q {
				j += 2
				continue
			}
			return j + 1
		}
		j++
	}
	return len(s)
}

func isWordByte(c byte) bool {
	return c == '_' || c == '.' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isNumber(word string) bool {
	if word == "" {
		return false
	}
	for i := 0; i < len(word); i++ {
		if (word[i] < '0' || word[i] > '9') && word[i] != '.' {
			return false
		}
	}
	return true
}
