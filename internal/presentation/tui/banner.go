package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{` _____     _            _   ____                  _   `, "#34d399"},
	{`|_   _|_ _| | ___ _ __ | |_/ ___|  ___ ___  _   _| |_ `, "#2dd4bf"},
	{`  | |/ _' | |/ _ \ '_ \| __\___ \ / __/ _ \| | | | __|`, "#22d3ee"},
	{`  | | (_| | |  __/ | | | |_ ___) | (_| (_) | |_| | |_ `, "#38bdf8"},
	{`  |_|\__,_|_|\___|_| |_|\__|____/ \___\___/ \__,_|\__|`, "#60a5fa"},
}

// PrintBanner writes the TalentScout banner to w, colored when w supports it.
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)
	fmt.Fprintln(w)
	for _, line := range bannerLines {
		fmt.Fprintln(w, out.String(line.text).Foreground(out.Color(line.color)))
	}
	fmt.Fprintln(w, out.String("  Hiring Assistant · initial candidate screening").Faint())
	fmt.Fprintln(w)
}
