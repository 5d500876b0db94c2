package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/kidandcat/phantomhq/internal/config"
	"github.com/mattn/go-isatty"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// style holds the colour funcs for one invocation.
type style struct {
	bold, dim, red, green, yellow, cyan func(a ...any) string
}

// colorEnabled resolves --color against the output writer.
func colorEnabled(mode config.ColorMode, w io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

func newStyle(mode config.ColorMode, w io.Writer) style {
	enabled := colorEnabled(mode, w)
	if mode != config.ColorAuto {
		color.NoColor = !enabled
	}
	paint := func(attrs ...color.Attribute) func(a ...any) string {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.SprintFunc()
	}
	return style{
		bold:   paint(color.Bold),
		dim:    paint(color.Faint),
		red:    paint(color.FgRed),
		green:  paint(color.FgGreen),
		yellow: paint(color.FgYellow),
		cyan:   paint(color.FgCyan),
	}
}

var titleCaser = cases.Title(language.English)

// label turns a stored value such as "in_progress" into "In Progress".
func label(v fmt.Stringer) string {
	return titleCaser.String(strings.ReplaceAll(v.String(), "_", " "))
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

func exp(n int) string {
	return humanize.Comma(int64(n)) + " EXP"
}

// relative renders t against now, e.g. "3 days ago" or "2 days from now".
func relative(t, now time.Time) string {
	return humanize.RelTime(t, now, "ago", "from now")
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// meter draws value out of limit as a fixed-width bar.
func meter(value, limit, width int) string {
	if limit <= 0 {
		return strings.Repeat("░", width)
	}
	filled := min(width, max(0, value*width/limit))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
