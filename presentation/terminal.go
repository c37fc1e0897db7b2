package presentation

import (
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	"github.com/mattn/go-runewidth"

	"weatherdash/manager"
)

const noHistory = "No history"

// Terminal is a manager.View writing to out. Apart from SearchEnabled, its
// methods must be called from the UI loop.
type Terminal struct {
	out     io.Writer
	enabled atomic.Bool

	status  string
	query   string
	history []string
}

func NewTerminal(out io.Writer) *Terminal {
	t := &Terminal{out: out}
	t.enabled.Store(true)
	return t
}

func (t *Terminal) SetStatus(status string) {
	t.status = status
	fmt.Fprintf(t.out, "» %s\n", status)
}

func (t *Terminal) SetSearchEnabled(enabled bool) {
	t.enabled.Store(enabled)
}

// SearchEnabled is safe to call from any goroutine.
func (t *Terminal) SearchEnabled() bool {
	return t.enabled.Load()
}

func (t *Terminal) SetQuery(text string) {
	t.query = text
	fmt.Fprintf(t.out, "» query: %s\n", text)
}

func (t *Terminal) SetHistory(cities []string) {
	t.history = append(t.history[:0], cities...)
}

func (t *Terminal) Status() string { return t.status }

func (t *Terminal) Query() string { return t.query }

// PrintHistory lists the recency list with 1-based indexes.
func (t *Terminal) PrintHistory() {
	if len(t.history) == 0 {
		fmt.Fprintln(t.out, noHistory)
		return
	}
	for i, c := range t.history {
		fmt.Fprintf(t.out, "%2d. %s\n", i+1, c)
	}
}

func (t *Terminal) Render(snapshot manager.Snapshot, displayName string) error {
	_, err := io.WriteString(t.out, Format(Build(snapshot, displayName)))
	return err
}

// Format lays a screen out as plain text.
func Format(s Screen) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(s.Location + "\n")
	b.WriteString(s.Temperature + "   " + s.Condition + "\n")
	if s.Time != "" {
		b.WriteString(s.Time + "\n")
	}
	if s.Sun != "" {
		b.WriteString(s.Sun + "\n")
	}

	b.WriteString("\nNext 24 Hours (2h intervals)\n")
	writeSlots(&b, s.Hourly[:])

	b.WriteString("\n7-Day Forecast\n")
	writeSlots(&b, s.Daily[:])

	return b.String()
}

func writeSlots(b *strings.Builder, slots []Slot) {
	labelWidth, condWidth := 0, 0
	for _, s := range slots {
		labelWidth = max(labelWidth, runewidth.StringWidth(s.Label))
		condWidth = max(condWidth, runewidth.StringWidth(s.Condition))
	}

	for _, s := range slots {
		b.WriteString("  ")
		b.WriteString(runewidth.FillRight(s.Label, labelWidth))
		b.WriteString("  ")
		b.WriteString(runewidth.FillRight(s.Condition, condWidth))
		b.WriteString("  ")
		b.WriteString(s.Temperature)
		b.WriteString("\n")
	}
}
