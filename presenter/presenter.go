// Package presenter renders analysis reports for people and machines.
package presenter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"github.com/seo-optimizer/onpage/analyzer"
)

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Formats lists the supported output formats
var Formats = []string{FormatText, FormatJSON, FormatYAML}

const lineWidth = 80

// ANSI colours
const (
	colorGreen  = "\033[92m"
	colorYellow = "\033[93m"
	colorRed    = "\033[91m"
	colorReset  = "\033[0m"
)

// Options configures a Presenter
type Options struct {
	Format string
	Color  bool
}

// Presenter writes reports and errors to a single writer
type Presenter struct {
	w    io.Writer
	opts Options
}

// ValidFormat reports whether format is supported
func ValidFormat(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}

// New creates a Presenter. An empty format means text.
func New(w io.Writer, opts Options) (*Presenter, error) {
	if opts.Format == "" {
		opts.Format = FormatText
	}
	if !ValidFormat(opts.Format) {
		return nil, fmt.Errorf("unknown output format %q (expected one of %s)", opts.Format, strings.Join(Formats, ", "))
	}
	return &Presenter{w: w, opts: opts}, nil
}

// ColorEnabled reports whether w is a terminal that should receive colour.
// NO_COLOR disables colour regardless of the terminal.
func ColorEnabled(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Render writes the whole report. Finding messages are written unchanged.
func (p *Presenter) Render(report *analyzer.Report) error {
	switch p.opts.Format {
	case FormatJSON:
		return p.writeJSON(report)
	case FormatYAML:
		return p.writeYAML(report)
	default:
		return p.renderText(report)
	}
}

type errorOutput struct {
	Error string `json:"error" yaml:"error"`
	Kind  string `json:"kind,omitempty" yaml:"kind,omitempty"`
}

// RenderError writes err with its kind instead of a report
func (p *Presenter) RenderError(err error) error {
	out := errorOutput{Error: err.Error(), Kind: analyzer.ErrorKind(err)}
	switch p.opts.Format {
	case FormatJSON:
		return p.writeJSON(out)
	case FormatYAML:
		return p.writeYAML(out)
	}

	line := "Error: " + out.Error
	if out.Kind != "" {
		line = fmt.Sprintf("%s: %s", out.Kind, out.Error)
	}
	_, werr := fmt.Fprintln(p.w, p.paint(colorRed, line))
	return werr
}

func (p *Presenter) writeJSON(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (p *Presenter) writeYAML(v any) error {
	enc := yaml.NewEncoder(p.w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func (p *Presenter) paint(color, s string) string {
	if !p.opts.Color || color == "" {
		return s
	}
	return color + s + colorReset
}

func severityColor(s analyzer.Severity) string {
	switch s {
	case analyzer.SeverityPass:
		return colorGreen
	case analyzer.SeverityWarning:
		return colorYellow
	case analyzer.SeverityFail:
		return colorRed
	default:
		return ""
	}
}
