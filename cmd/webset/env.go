package main

import (
	"io"
	"os"

	webset "github.com/alnah/go-webset"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Stdout    io.Writer
	Stderr    io.Writer
	LookupEnv func(key string) (string, bool)
	Environ   func() []string
	Getwd     func() (string, error)

	// NewConverter creates the PDF backend. Tests swap in a mock so no
	// browser is launched.
	NewConverter func() webset.PDFConverter
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
		LookupEnv:    os.LookupEnv,
		Environ:      os.Environ,
		Getwd:        os.Getwd,
		NewConverter: webset.NewPDFConverter,
	}
}
