package main

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var (
	colorBlue  = lipgloss.Color("75")  // Light blue - info
	colorGreen = lipgloss.Color("35")  // Green - success
	colorAmber = lipgloss.Color("220") // Amber - warnings
	colorRed   = lipgloss.Color("167") // Soft red - errors
	colorDim   = lipgloss.Color("240") // Dim gray - debug
)

// newLogger creates a logger with timestamp formatting and level colors.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
	l.SetStyles(logStyles())
	return l
}

func logStyles() *log.Styles {
	s := log.DefaultStyles()
	s.Levels[log.DebugLevel] = levelStyle("DEBU", colorDim)
	s.Levels[log.InfoLevel] = levelStyle("INFO", colorBlue)
	s.Levels[log.WarnLevel] = levelStyle("WARN", colorAmber)
	s.Levels[log.ErrorLevel] = levelStyle("ERRO", colorRed)
	s.Keys["err"] = lipgloss.NewStyle().Foreground(colorRed)
	s.Keys["path"] = lipgloss.NewStyle().Foreground(colorGreen)
	return s
}

func levelStyle(label string, c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().SetString(label).Bold(true).MaxWidth(4).Foreground(c)
}

// logLevel maps --quiet and --verbose to a level. Verbose wins.
func logLevel(quiet, verbose bool) log.Level {
	switch {
	case verbose:
		return log.DebugLevel
	case quiet:
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}
