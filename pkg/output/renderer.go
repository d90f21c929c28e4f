package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/dropin/pkg/errors"
	"github.com/arthur-debert/dropin/pkg/loader"
	"github.com/arthur-debert/dropin/pkg/logging"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Renderer writes views in one format
type Renderer struct {
	writer io.Writer
	format Format
	styles Styles
	logger zerolog.Logger
}

// NewRenderer creates a renderer writing to w. With color false, text
// output carries no escape sequences.
func NewRenderer(w io.Writer, format Format, color bool) (*Renderer, error) {
	lr := lipgloss.NewRenderer(w)
	if !color {
		lr.SetColorProfile(termenv.Ascii)
	}

	styles, err := LoadStyles(defaultStyles, lr)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to load styles")
	}

	logger := logging.GetLogger("output")
	logger.Debug().
		Str("format", format.String()).
		Bool("color", color).
		Msg("Created renderer")

	return &Renderer{writer: w, format: format, styles: styles, logger: logger}, nil
}

// Format returns the renderer's format
func (r *Renderer) Format() Format {
	return r.format
}

// RenderResult writes a resolution result
func (r *Renderer) RenderResult(view ResultView) error {
	if r.format != FormatText {
		return r.encode(view)
	}

	var b strings.Builder
	header := view.Unit
	if len(view.Aliases) > 0 {
		header += " (" + strings.Join(view.Aliases, ", ") + ")"
	}
	b.WriteString(r.styles.Get("Header").Render(header))
	b.WriteByte('\n')

	if len(view.Fragments) == 0 {
		b.WriteString(r.styles.Get("Muted").Render("  no drop-ins"))
		b.WriteByte('\n')
	}
	for _, f := range view.Fragments {
		fmt.Fprintf(&b, "  %s %s\n", r.styles.Get("Rank").Render(fmt.Sprintf("[%d]", f.Rank)), r.styles.Get("FilePath").Render(f.Path))
	}
	for _, f := range view.Overridden {
		fmt.Fprintf(&b, "  %s %s\n", r.styles.Get("Rank").Render(fmt.Sprintf("[%d]", f.Rank)), r.styles.Get("Override").Render(f.Path+" (overridden)"))
	}
	for _, f := range view.Nulled {
		fmt.Fprintf(&b, "  %s %s\n", r.styles.Get("Rank").Render(fmt.Sprintf("[%d]", f.Rank)), r.styles.Get("Masked").Render(f.Path+" (masked)"))
	}
	for _, s := range view.Skipped {
		fmt.Fprintf(&b, "  %s %s: %s\n", r.styles.Get("Warning").Render("skipped"), s.Dir, s.Error)
	}

	return r.write(b.String())
}

// RenderResults writes several results in order. TOML has no top-level
// arrays, so the list is nested under "units" there.
func (r *Renderer) RenderResults(views []ResultView) error {
	switch r.format {
	case FormatText:
	case FormatTOML:
		return r.encode(map[string][]ResultView{"units": views})
	default:
		return r.encode(views)
	}
	for _, view := range views {
		if err := r.RenderResult(view); err != nil {
			return err
		}
	}
	return nil
}

// RenderPaths writes a search path
func (r *Renderer) RenderPaths(view PathsView) error {
	if r.format != FormatText {
		return r.encode(view)
	}

	var b strings.Builder
	b.WriteString(r.styles.Get("Header").Render(view.Scope + " search path"))
	b.WriteByte('\n')
	for i, p := range view.SearchPath {
		fmt.Fprintf(&b, "  %s %s\n", r.styles.Get("Rank").Render(fmt.Sprintf("%2d", i)), r.styles.Get("FilePath").Render(p))
	}
	return r.write(b.String())
}

// RenderTree writes a merged configuration tree; text uses unit-file
// syntax
func (r *Renderer) RenderTree(tree map[string]interface{}) error {
	if r.format != FormatText {
		return r.encode(tree)
	}
	data, err := loader.Parser().Marshal(tree)
	if err != nil {
		return err
	}
	return r.write(string(data))
}

// RenderValue writes any value; text falls back to TOML
func (r *Renderer) RenderValue(v interface{}) error {
	if r.format == FormatText {
		data, err := toml.Marshal(v)
		if err != nil {
			return errors.Wrap(err, errors.ErrInternal, "failed to encode toml")
		}
		return r.write(string(data))
	}
	return r.encode(v)
}

// RenderError writes an error message with styling
func (r *Renderer) RenderError(err error) error {
	return r.write(r.styles.Get("Error").Render("Error:") + " " + err.Error() + "\n")
}

func (r *Renderer) encode(v interface{}) error {
	var buf bytes.Buffer

	switch r.format {
	case FormatJSON:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return errors.Wrap(err, errors.ErrInternal, "failed to encode json")
		}
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return errors.Wrap(err, errors.ErrInternal, "failed to encode yaml")
		}
		if err := enc.Close(); err != nil {
			return errors.Wrap(err, errors.ErrInternal, "failed to encode yaml")
		}
	case FormatTOML:
		enc := toml.NewEncoder(&buf)
		if err := enc.Encode(v); err != nil {
			return errors.Wrap(err, errors.ErrInternal, "failed to encode toml")
		}
	default:
		return errors.Newf(errors.ErrInvalidInput, "format %s cannot encode values", r.format)
	}

	return r.write(buf.String())
}

func (r *Renderer) write(s string) error {
	_, err := io.WriteString(r.writer, s)
	return err
}
