package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the Contour ASCII banner.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"   ___             _                ", "#2dd4bf"},
		{"  / __|___ _ _  __| |_ ___ _  _ _ _ ", "#22d3ee"},
		{" | (__/ _ \\ ' \\/ _|  _/ _ \\ || | '_|", "#38bdf8"},
		{"  \\___\\___/_||_\\__|\\__\\___/\\_,_|_|  ", "#60a5fa"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}

// PrintVerdict writes a one-line PASS/FAIL verdict for subject.
// detail, when set, is appended to failures.
func PrintVerdict(w io.Writer, subject string, valid bool, detail string) {
	fmt.Fprintln(w, Verdict(termenv.ColorProfile(), subject, valid, detail))
}

// Verdict formats a verdict line using the given color profile.
func Verdict(p termenv.Profile, subject string, valid bool, detail string) string {
	if valid {
		return fmt.Sprintf("%s %s", p.String("PASS").Foreground(p.Color("#22c55e")).Bold(), subject)
	}
	line := fmt.Sprintf("%s %s", p.String("FAIL").Foreground(p.Color("#ef4444")).Bold(), subject)
	if detail != "" {
		line += ": " + detail
	}
	return line
}
