// Package report renders a copier.Report for the operator.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/lucas-albers-lz4/cpmod/pkg/copier"
	"github.com/lucas-albers-lz4/cpmod/pkg/perm"
)

// Format is an output format name.
type Format string

// Supported formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrUnknownFormat is returned by ParseFormat for unsupported names.
var ErrUnknownFormat = fmt.Errorf("unknown output format")

// ParseFormat validates an output format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: %q (expected text, json or yaml)", ErrUnknownFormat, s)
	}
}

// Summary counts entries per outcome.
type Summary struct {
	Changed   int `json:"changed"`
	Unchanged int `json:"unchanged"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// Entry is the serialized form of a copier.Result.
type Entry struct {
	Path    string         `json:"path"`
	Outcome copier.Outcome `json:"outcome"`
	OldMode string         `json:"oldMode,omitempty"`
	NewMode string         `json:"newMode,omitempty"`
	Reason  string         `json:"reason,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// Document is what the json and yaml formats emit.
type Document struct {
	Summary Summary `json:"summary"`
	Entries []Entry `json:"entries"`
}

// Build converts a report into a Document. Unless verbose is set only changed
// and failed entries are listed; the summary always counts everything.
func Build(r *copier.Report, verbose bool) Document {
	doc := Document{
		Summary: Summary{
			Changed:   r.Count(copier.Changed),
			Unchanged: r.Count(copier.Unchanged),
			Skipped:   r.Count(copier.Skipped),
			Failed:    r.Count(copier.Failed),
		},
		Entries: []Entry{},
	}
	for _, res := range r.Results {
		if !verbose && (res.Outcome == copier.Unchanged || res.Outcome == copier.Skipped) {
			continue
		}
		e := Entry{Path: res.Path, Outcome: res.Outcome, Reason: res.Reason}
		if res.Outcome == copier.Changed || res.Outcome == copier.Unchanged || res.OldMode != 0 {
			e.OldMode = perm.Octal(res.OldMode)
			e.NewMode = perm.Octal(res.NewMode)
		}
		if res.Err != nil {
			e.Error = res.Err.Error()
		}
		doc.Entries = append(doc.Entries, e)
	}
	return doc
}

// Write renders r to w in the given format.
func Write(w io.Writer, r *copier.Report, format Format, verbose bool) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(Build(r, verbose)); err != nil {
			return fmt.Errorf("failed to encode report as JSON: %w", err)
		}
		return nil
	case FormatYAML:
		out, err := yaml.Marshal(Build(r, verbose))
		if err != nil {
			return fmt.Errorf("failed to encode report as YAML: %w", err)
		}
		if _, err := w.Write(out); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		return nil
	case FormatText:
		return writeText(w, r, verbose)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, string(format))
	}
}

// writeText prints one chmod(1)-style line per entry.
func writeText(w io.Writer, r *copier.Report, verbose bool) error {
	for _, res := range r.Results {
		var line string
		switch res.Outcome {
		case copier.Changed:
			line = fmt.Sprintf("mode of '%s' changed from %s (%s) to %s (%s)",
				res.Path, perm.Octal(res.OldMode), perm.Symbolic(res.OldMode), perm.Octal(res.NewMode), perm.Symbolic(res.NewMode))
		case copier.Unchanged:
			if !verbose {
				continue
			}
			line = fmt.Sprintf("mode of '%s' retained as %s (%s)", res.Path, perm.Octal(res.OldMode), perm.Symbolic(res.OldMode))
		case copier.Skipped:
			if !verbose {
				continue
			}
			line = fmt.Sprintf("skipped '%s': %s", res.Path, res.Reason)
		case copier.Failed:
			line = fmt.Sprintf("failed '%s': %v", res.Path, res.Err)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}
	if verbose {
		if _, err := fmt.Fprintf(w, "%d changed, %d unchanged, %d skipped, %d failed\n",
			r.Count(copier.Changed), r.Count(copier.Unchanged), r.Count(copier.Skipped), r.Count(copier.Failed)); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}
	return nil
}
