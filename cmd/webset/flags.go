package main

import (
	"io"
	"time"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags that shape logging and configuration lookup.
type commonFlags struct {
	config  string
	envFile string
	quiet   bool
	verbose bool
	version bool
	help    bool
	doctor  bool
	json    bool

	completion string
}

// pageFlags holds page layout flags.
type pageFlags struct {
	size   string
	margin float64
}

// cliFlags holds every flag of the webset command.
type cliFlags struct {
	common    commonFlags
	output    string
	preview   bool
	watch     bool
	style     string
	assetPath string
	page      pageFlags
	timeout   time.Duration
	stability time.Duration

	// changed reports whether a flag was set on the command line, so that
	// explicit values win over env and config even when they equal defaults.
	changed func(name string) bool
}

// parseFlags parses args (including the program name) and returns the flags
// and the positional arguments.
func parseFlags(args []string) (*cliFlags, []string, error) {
	f := &cliFlags{}
	fs := newFlagSet(f)

	if len(args) > 0 {
		args = args[1:]
	}
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	f.changed = fs.Changed
	return f, fs.Args(), nil
}

// newFlagSet registers every flag of the command into a new FlagSet bound
// to f. Shell completion reads the same set.
func newFlagSet(f *cliFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("webset", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVarP(&f.output, "output", "o", "", "output file name")
	fs.BoolVarP(&f.preview, "preview", "p", true, "write <input>_preview.html")
	fs.BoolVarP(&f.watch, "watch", "w", false, "re-run on changes")

	fs.StringVarP(&f.common.config, "config", "c", "", "config file name or path")
	fs.StringVar(&f.common.envFile, "env-file", "", ".env file path")
	fs.BoolVarP(&f.common.quiet, "quiet", "q", false, "only log errors")
	fs.BoolVarP(&f.common.verbose, "verbose", "v", false, "debug logging")
	fs.BoolVar(&f.common.version, "version", false, "show version")
	fs.BoolVarP(&f.common.help, "help", "h", false, "show help")
	fs.BoolVar(&f.common.doctor, "doctor", false, "check the environment")
	fs.BoolVar(&f.common.json, "json", false, "doctor output as JSON")

	fs.StringVar(&f.style, "style", "", "preview style name or CSS path")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
	fs.StringVar(&f.page.size, "page-size", "", "letter, a4, legal")
	fs.Float64Var(&f.page.margin, "margin", 0, "margin in inches")
	fs.DurationVarP(&f.timeout, "timeout", "t", 0, "page load timeout")
	fs.DurationVar(&f.stability, "stability", 0, "watch debounce window")
	fs.StringVar(&f.common.completion, "completion", "", "print a shell completion script")

	return fs
}
