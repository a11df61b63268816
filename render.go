package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mrdg/crush/audio"
	"golang.org/x/term"
)

// renderParams prints one row per parameter: name, a bar showing where the
// value sits in its range, the value and its range.
func renderParams(props *audio.Props, w io.Writer) {
	keys := props.Keys()
	var maxNameLen int
	for _, key := range keys {
		if len(key) > maxNameLen {
			maxNameLen = len(key)
		}
	}

	const barWidth = 20
	for _, key := range keys {
		p := props.Param(key)
		v := p.Load()

		filled := 0
		if p.Max > p.Min {
			filled = int((v - p.Min) / (p.Max - p.Min) * barWidth)
		}
		bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

		name := key + strings.Repeat(" ", maxNameLen-len(key))
		value := formatValue(v, p.Unit)
		color := colorBlue
		if v != p.Default {
			color = colorYellow
		}
		fmt.Fprintf(w, "%s %s %s %s\n",
			colorize(name, colorGreen),
			bar,
			colorize(fmt.Sprintf("%-12s", value), color),
			colorize(fmt.Sprintf("%s..%s", formatValue(p.Min, ""), formatValue(p.Max, "")), colorMagenta),
		)
	}
}

func renderStats(stats audio.Stats, w io.Writer) {
	fmt.Fprintf(w, "%s %d\n", colorize("blocks ", colorGreen), stats.Blocks)
	fmt.Fprintf(w, "%s %d\n", colorize("voices ", colorGreen), stats.ActiveVoices)
	dropped := colorize(strconv.FormatInt(stats.Dropped, 10), colorBlue)
	if stats.Dropped > 0 {
		dropped = colorize(strconv.FormatInt(stats.Dropped, 10), colorRed)
	}
	fmt.Fprintf(w, "%s %s\n", colorize("dropped", colorGreen), dropped)
}

func renderAnalysis(a audio.Analysis, w io.Writer) {
	fmt.Fprintf(w, "%s %s\n", colorize("peak freq", colorGreen), formatValue(a.PeakHz, "Hz"))
	fmt.Fprintf(w, "%s %s\n", colorize("rms      ", colorGreen), formatValue(a.RMS, ""))
	fmt.Fprintf(w, "%s %s\n", colorize("peak     ", colorGreen), formatValue(a.Peak, ""))
}

func formatValue(v float64, unit string) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if len(s) > 8 {
		s = strconv.FormatFloat(v, 'f', 3, 64)
	}
	if unit != "" {
		s += " " + unit
	}
	return s
}

const (
	colorBlack = iota + 30
	colorRed
	colorGreen
	colorYellow
	colorBlue
	colorMagenta
)

// escape codes are left out when stdout is not a terminal
var useColor = term.IsTerminal(int(os.Stdout.Fd()))

func colorize(text string, color int) string {
	if !useColor {
		return text
	}
	return fmt.Sprintf("\033[%dm%s\033[0m", color, text)
}
