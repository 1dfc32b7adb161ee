// Package printer writes styled status lines for the non-interactive
// commands.
package printer

import (
	"context"
	"fmt"
	"io"
	"os"

	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/ixv/internal/core/styles"
)

type ctxKey struct{}

// Printer prints status lines to an output and an error stream.
type Printer struct {
	out io.Writer
	err io.Writer
}

// New returns a printer writing regular lines to out and errors to errOut.
func New(out, errOut io.Writer) *Printer {
	return &Printer{out: out, err: errOut}
}

// NewContext stores p in ctx.
func NewContext(ctx context.Context, p *Printer) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// Ctx returns the printer stored in ctx, or one writing to stdout and
// stderr.
func Ctx(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok {
		return p
	}
	return New(os.Stdout, os.Stderr)
}

func (p *Printer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *Printer) Successf(format string, args ...any) {
	p.status(p.out, styles.SeverityOKStyle, styles.IconCheck, format, args...)
}

func (p *Printer) Infof(format string, args ...any) {
	p.status(p.out, lipgloss.NewStyle().Foreground(styles.ColorPrimary), styles.IconInfo, format, args...)
}

func (p *Printer) Warnf(format string, args ...any) {
	p.status(p.err, styles.SeverityWarnStyle, styles.IconWarning, format, args...)
}

func (p *Printer) Errorf(format string, args ...any) {
	p.status(p.err, styles.SeverityErrorStyle, styles.IconError, format, args...)
}

// Section prints a bold heading preceded by a blank line.
func (p *Printer) Section(title string) {
	_, _ = fmt.Fprintln(p.out)
	_, _ = fmt.Fprintln(p.out, styles.CommandHeaderStyle.Render(title))
}

func (p *Printer) status(w io.Writer, style lipgloss.Style, icon, format string, args ...any) {
	_, _ = fmt.Fprintln(w, style.Render(icon)+" "+fmt.Sprintf(format, args...))
}
