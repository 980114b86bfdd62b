package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"intra42/internal/api"
	"intra42/internal/oauth"
)

// labelWidth is the column the values of field rows start at.
const labelWidth = 20

// CommandInfo describes one field command for the command list.
type CommandInfo struct {
	Name        string
	Description string
}

// Printer renders command output.
type Printer struct {
	out   io.Writer
	color bool
}

// NewPrinter creates a printer writing to out. Colors are only used for
// table headers and only when color is true.
func NewPrinter(out io.Writer, color bool) *Printer {
	return &Printer{out: out, color: color}
}

// Field prints a single "<label><value>" row.
func (p *Printer) Field(label string, value interface{}) {
	fmt.Fprintf(p.out, "%s%v\n", text.AlignLeft.Apply(label, labelWidth), value)
}

// User prints the profile summary.
func (p *Printer) User(u *api.User) {
	fmt.Fprintln(p.out, u.Headline())
	p.Field("Wallet", u.Wallet)
	p.Field("Evaluation points", u.CorrectionPoint)
	p.Field("Cursus", u.CursusName())
}

// Commands prints the available field commands.
func (p *Printer) Commands(commands []CommandInfo) {
	t := p.newTable()
	t.AppendHeader(table.Row{p.header("COMMAND"), p.header("DESCRIPTION")})
	for _, c := range commands {
		t.AppendRow(table.Row{c.Name, c.Description})
	}
	t.Render()
}

// Token prints the cached token metadata. The secret is never shown.
func (p *Printer) Token(token oauth.AccessToken, state string, mode oauth.Mode) {
	t := p.newTable()
	t.AppendHeader(table.Row{p.header("KEY"), p.header("VALUE")})
	t.AppendRow(table.Row{"Mode", mode.String()})
	t.AppendRow(table.Row{"State", state})
	t.AppendRow(table.Row{"Scopes", strings.Join(token.Scopes, ", ")})
	t.AppendRow(table.Row{"Expires in", formatSeconds(token.ExpiresInSeconds)})
	t.AppendRow(table.Row{"Resource owner", formatOptional(token.ResourceOwnerID)})
	t.AppendRow(table.Row{"Created at", formatTimestamp(token.CreatedAt)})
	t.Render()
}

func (p *Printer) newTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(p.out)
	t.SetStyle(table.StyleRounded)
	return t
}

func (p *Printer) header(s string) string {
	if !p.color {
		return s
	}
	return text.FgHiCyan.Sprint(s)
}

func formatSeconds(v *int64) string {
	if v == nil {
		return "-"
	}
	return (time.Duration(*v) * time.Second).String()
}

func formatOptional(v *int64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}

func formatTimestamp(v *int64) string {
	if v == nil {
		return "-"
	}
	return time.Unix(*v, 0).UTC().Format(time.RFC3339)
}
