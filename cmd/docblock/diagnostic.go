package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/nihei9/docblock/config"
	"github.com/nihei9/docblock/driver/parser"
	verr "github.com/nihei9/docblock/error"
)

type diagnosticStyle struct {
	label    lipgloss.Style
	position lipgloss.Style
	source   lipgloss.Style
}

func newDiagnosticStyle(w io.Writer, color string) *diagnosticStyle {
	r := lipgloss.NewRenderer(w)
	switch color {
	case config.ColorAlways:
		r.SetColorProfile(termenv.ANSI256)
	case config.ColorNever:
		r.SetColorProfile(termenv.Ascii)
	}
	return &diagnosticStyle{
		label:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444")),
		position: r.NewStyle().Bold(true),
		source:   r.NewStyle().Foreground(lipgloss.Color("#6B7280")),
	}
}

// printError writes an error to `w`. Errors pointing to a position in the input are prefixed with
// the position, and grammar errors are printed one per line.
func printError(w io.Writer, color string, err error) {
	s := newDiagnosticStyle(w, color)

	var synErr *parser.SyntaxError
	if errors.As(err, &synErr) {
		fmt.Fprintf(w, "%v %v %v\n", s.position.Render(fmt.Sprintf("%v:%v:", synErr.Row+1, synErr.Col+1)), s.label.Render("error:"), synErr)
		if synErr.Token != nil {
			fmt.Fprintf(w, "    %v\n", s.source.Render(fmt.Sprintf("%q", synErr.Token.Lexeme())))
		}
		return
	}

	var specErrs verr.SpecErrors
	if errors.As(err, &specErrs) {
		for _, e := range specErrs {
			fmt.Fprintln(w, s.label.Render(e.Error()))
		}
		return
	}

	fmt.Fprintf(w, "%v %v\n", s.label.Render("error:"), err)
}
