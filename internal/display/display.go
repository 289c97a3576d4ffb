// Package display renders the network status report and call listings.
package display

import (
	"fmt"
	"io"
	"strings"
	"time"

	"phonenet/internal/domain"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// Printer writes reports to one output. Colors are used only when the
// output is a terminal that supports them.
type Printer struct {
	w     io.Writer
	board lipgloss.Style
	label lipgloss.Style
	idle  lipgloss.Style
	busy  lipgloss.Style
	err   lipgloss.Style
}

// NewPrinter creates a printer for w
func NewPrinter(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:     w,
		board: r.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
		label: r.NewStyle().Foreground(lipgloss.Color("8")),
		idle:  r.NewStyle().Foreground(lipgloss.Color("2")),
		busy:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("3")),
		err:   r.NewStyle().Foreground(lipgloss.Color("1")),
	}
}

// Status writes one block per switchboard listing its trunks and phones
func (p *Printer) Status(status []domain.SwitchboardStatus) error {
	var b strings.Builder
	for _, sb := range status {
		fmt.Fprintln(&b, p.board.Render(fmt.Sprintf("Switchboard with area code: %d", sb.AreaCode)))
		fmt.Fprintln(&b, "\t"+p.label.Render("Trunk lines are:"))
		for _, trunk := range sb.Trunks {
			fmt.Fprintf(&b, "\t\tTrunk line connection to: %d\n", trunk)
		}
		fmt.Fprintln(&b, "\t"+p.label.Render("Local phone numbers are:"))
		for _, phone := range sb.Phones {
			if phone.Peer == nil {
				fmt.Fprintf(&b, "\t\tPhone with number: %d %s\n", phone.Number, p.idle.Render("is not in use"))
				continue
			}
			fmt.Fprintf(&b, "\t\tPhone with number: %d %s\n", phone.Number,
				p.busy.Render("is connected to "+phone.Peer.String()))
		}
	}
	_, err := io.WriteString(p.w, b.String())
	return err
}

// Calls lists calls with their route and how long they have lasted
func (p *Printer) Calls(calls []domain.Call, now time.Time) error {
	if len(calls) == 0 {
		_, err := fmt.Fprintln(p.w, "No active calls")
		return err
	}

	var b strings.Builder
	for _, c := range calls {
		fmt.Fprintf(&b, "%s -> %s via %s, %s\n",
			c.Caller, c.Callee, FormatRoute(c.Route), Elapsed(c, now))
	}
	_, err := io.WriteString(p.w, b.String())
	return err
}

// Route writes a discovered trunk path
func (p *Printer) Route(path []int) error {
	hops := len(path) - 1
	_, err := fmt.Fprintf(p.w, "Route: %s (%d %s)\n", FormatRoute(path), hops, plural(hops, "trunk", "trunks"))
	return err
}

// Message writes an informational line
func (p *Printer) Message(format string, args ...interface{}) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

// Error writes an "ERROR: " line
func (p *Printer) Error(err error) {
	fmt.Fprintln(p.w, p.err.Render("ERROR: "+err.Error()))
}

// FormatRoute joins area codes with hyphens, e.g. 410-510-610
func FormatRoute(path []int) string {
	parts := make([]string, len(path))
	for i, code := range path {
		parts[i] = fmt.Sprint(code)
	}
	return strings.Join(parts, "-")
}

// Elapsed describes how long a call lasted, or has lasted so far
func Elapsed(c domain.Call, now time.Time) string {
	end := now
	if c.EndedAt != nil {
		end = *c.EndedAt
	}
	d := strings.TrimSpace(humanize.RelTime(c.StartedAt, end, "", ""))
	if c.Active() {
		return "up " + d
	}
	return "lasted " + d
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
