// Package observability provides formatted output utilities for the
// interactive shell and the one-shot CLI commands.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/job-search-assistant/internal/session"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// contentWidth is the printable width inside a box
	contentWidth = boxWidth - 4
)

// Empty-state copy shown in place of missing data.
const (
	NoResumeText   = "No resume uploaded yet."
	NoResultsText  = "No results yet. Run a search to see listings."
	NoSavedText    = "No saved jobs yet. Start saving jobs from the search results!"
	NoSelectedText = "Please select a job from the search results or saved jobs first."
)

// Printer handles formatted output for the shell
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content. Long lines wrap
// at word boundaries.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		for _, wrapped := range wrap(line, contentWidth) {
			fmt.Fprintf(p.out, "│ %s │\n", pad(wrapped))
		}
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintTabs prints the navigation line with the active view bracketed.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintTabs(active session.Tab) {
	parts := make([]string, 0, len(session.Tabs))
	for _, tab := range session.Tabs {
		if tab == active {
			parts = append(parts, "["+tab.Title()+"]")
		} else {
			parts = append(parts, " "+tab.Title()+" ")
		}
	}
	fmt.Fprintln(p.out, strings.Join(parts, " "))
}

// PrintSession prints the navigation line and the active view.
func (p *Printer) PrintSession(state session.State) {
	p.PrintTabs(state.Tab)
	switch state.Tab {
	case session.TabSearch:
		p.PrintResults(state)
	case session.TabSaved:
		p.PrintSaved(state)
	case session.TabTailor:
		p.PrintTailor(state)
	default:
		p.PrintUpload(state)
	}
}

// PrintUpload outputs the upload view.
func (p *Printer) PrintUpload(state session.State) {
	content := NoResumeText
	if state.Resume != nil {
		content = "Uploaded: " + state.Resume.Name
	}
	p.printBox("UPLOAD YOUR RESUME", content)
}

// PrintResults outputs the search results, numbered from 1. The selected
// listing is marked with '>' and saved listings with '*'.
func (p *Printer) PrintResults(state session.State) {
	var sb strings.Builder
	if state.Query != "" {
		sb.WriteString(fmt.Sprintf("Query: %s\n\n", state.Query))
	}
	if len(state.Results) == 0 {
		sb.WriteString(NoResultsText)
	} else {
		writeListings(&sb, state.Results, state)
	}
	p.printBox("SEARCH FOR JOBS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSaved outputs the saved jobs, numbered from 1.
func (p *Printer) PrintSaved(state session.State) {
	if len(state.Saved) == 0 {
		p.printBox("SAVED JOBS", NoSavedText)
		return
	}
	var sb strings.Builder
	writeListings(&sb, state.Saved, state)
	p.printBox("SAVED JOBS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintTailor outputs the selected job and, once generated, the tailored text.
func (p *Printer) PrintTailor(state session.State) {
	if state.Selected == nil {
		p.printBox("TAILOR YOUR RESUME", NoSelectedText)
		return
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Selected Job: %s\n", *state.Selected))
	if state.Tailored != nil {
		sb.WriteString("\n")
		sb.WriteString(*state.Tailored)
	} else {
		sb.WriteString("\nRun 'tailor' to generate a tailored resume.")
	}
	p.printBox("TAILOR YOUR RESUME", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintListings outputs a plain numbered list, one listing per line, for
// non-interactive commands.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintListings(listings []session.Listing) {
	for i, job := range listings {
		fmt.Fprintf(p.out, "%d. %s\n", i+1, job)
	}
}

func writeListings(sb *strings.Builder, listings []session.Listing, state session.State) {
	for i, job := range listings {
		mark := " "
		if state.Selected != nil && *state.Selected == job {
			mark = ">"
		}
		saved := ""
		if state.IsSaved(job) {
			saved = " *"
		}
		sb.WriteString(fmt.Sprintf("%s %d. %s%s\n", mark, i+1, job, saved))
	}
}

// pad right-pads s with spaces to the content width.
func pad(s string) string {
	n := utf8.RuneCountInString(s)
	if n >= contentWidth {
		return s
	}
	return s + strings.Repeat(" ", contentWidth-n)
}

// wrap splits line into chunks of at most width runes, breaking at spaces
// where possible.
func wrap(line string, width int) []string {
	if utf8.RuneCountInString(line) <= width {
		return []string{line}
	}
	var lines []string
	var current []rune
	for _, word := range strings.Fields(line) {
		w := []rune(word)
		for len(w) > width {
			if len(current) > 0 {
				lines = append(lines, string(current))
				current = nil
			}
			lines = append(lines, string(w[:width]))
			w = w[width:]
		}
		switch {
		case len(current) == 0:
			current = w
		case len(current)+1+len(w) <= width:
			current = append(append(current, ' '), w...)
		default:
			lines = append(lines, string(current))
			current = w
		}
	}
	if len(current) > 0 {
		lines = append(lines, string(current))
	}
	return lines
}
