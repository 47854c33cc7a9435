// Package report renders provisioning results for people and machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/specialistvlad/funwith/internal/state"
	"gopkg.in/yaml.v3"
)

// Format selects the output encoding.
type Format string

const (
	Text Format = "text"
	YAML Format = "yaml"
	JSON Format = "json"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case Text, YAML, JSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, yaml or json)", s)
	}
}

// Write renders results to w in format.
func Write(w io.Writer, format Format, results []state.Result) error {
	switch format {
	case Text:
		return writeText(w, results)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(results); err != nil {
			return fmt.Errorf("encode yaml report: %w", err)
		}
		return enc.Close()
	case JSON:
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json report: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

type styles struct {
	label   lipgloss.Style
	success lipgloss.Style
	pending lipgloss.Style
	failure lipgloss.Style
	muted   lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		label:   r.NewStyle().Bold(true).Width(10).Align(lipgloss.Right),
		success: r.NewStyle().Foreground(lipgloss.Color("#4CAF50")),
		pending: r.NewStyle().Foreground(lipgloss.Color("#E5C07B")),
		failure: r.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
		muted:   r.NewStyle().Foreground(lipgloss.Color("#888888")),
	}
}

func (s styles) status(st state.Status) lipgloss.Style {
	switch st {
	case state.Success:
		return s.success
	case state.Pending:
		return s.pending
	default:
		return s.failure
	}
}

func writeText(w io.Writer, results []state.Result) error {
	s := newStyles(w)
	var b strings.Builder
	counts := map[state.Status]int{}
	indent := strings.Repeat(" ", 12)

	for _, res := range results {
		counts[res.Status]++
		b.WriteString(s.muted.Render("----------") + "\n")
		fmt.Fprintf(&b, "%s: %s\n", s.label.Render("Project"), res.Name)
		fmt.Fprintf(&b, "%s: %s\n", s.label.Render("Result"), s.status(res.Status).Render(res.Status.String()))

		comment := strings.Split(strings.TrimPrefix(res.Comment, "\n"), "\n")
		fmt.Fprintf(&b, "%s: %s\n", s.label.Render("Comment"), comment[0])
		for _, line := range comment[1:] {
			b.WriteString(indent + line + "\n")
		}

		if len(res.Changes) == 0 {
			fmt.Fprintf(&b, "%s: %s\n", s.label.Render("Changes"), s.muted.Render("none"))
			continue
		}
		fmt.Fprintf(&b, "%s:\n", s.label.Render("Changes"))
		keys := make([]string, 0, len(res.Changes))
		for k := range res.Changes {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "%s%s: %v\n", indent, k, res.Changes[k])
		}
	}

	fmt.Fprintf(&b, "\nSummary: %d succeeded, %d pending, %d failed\n",
		counts[state.Success], counts[state.Pending], counts[state.Failure])
	_, err := io.WriteString(w, b.String())
	return err
}
