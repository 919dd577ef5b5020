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
	{` _       _                  _               __ _`, "#818cf8"},
	{`(_)_ __ | |_ ___ _ ____   _(_) _____      __/ _| | _____      __`, "#a78bfa"},
	{`| | '_ \| __/ _ \ '__\ \ / / |/ _ \ \ /\ / / |_| |/ _ \ \ /\ / /`, "#c084fc"},
	{`| | | | | ||  __/ |   \ V /| |  __/\ V  V /|  _| | (_) \ V  V /`, "#e879f9"},
	{`|_|_| |_|\__\___|_|    \_/ |_|\___| \_/\_/ |_| |_|\___/ \_/\_/`, "#f472b6"},
}

// PrintBanner writes the startup banner and version to w.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w, out.String("  service planning interview  v"+version).Faint())
	fmt.Fprintln(w)
}
