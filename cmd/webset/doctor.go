package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"

	"github.com/alnah/go-webset/internal/hints"
)

// Doctor statuses.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// doctorReport is the outcome of --doctor.
type doctorReport struct {
	Status   string        `json:"status"`
	Browser  browserReport `json:"browser"`
	Platform string        `json:"platform"`
	CI       bool          `json:"ci"`
	InDocker bool          `json:"container"`
	WorkDir  string        `json:"workdir"`
	Writable bool          `json:"workdir_writable"`
	Warnings []string      `json:"warnings,omitempty"`
	Errors   []string      `json:"errors,omitempty"`
}

type browserReport struct {
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

// runDoctor checks that a conversion can run here: a browser is available
// and the working directory accepts the hidden temp file the PDF stage
// writes next to the input. Exit code 1 means at least one error.
func runDoctor(env *Environment, asJSON bool) int {
	r := &doctorReport{Platform: runtime.GOOS + "/" + runtime.GOARCH}
	getenv := func(k string) string {
		v, _ := env.LookupEnv(k)
		return v
	}

	checkBrowser(r, getenv)
	checkCI(r, getenv)
	checkWorkDir(r, env)

	switch {
	case len(r.Errors) > 0:
		r.Status = statusErrors
	case len(r.Warnings) > 0:
		r.Status = statusWarnings
	default:
		r.Status = statusReady
	}

	if asJSON {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(r)
	} else {
		printDoctor(env.Stdout, r)
	}

	if r.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

func checkBrowser(r *doctorReport, getenv func(string) string) {
	path := getenv("ROD_BROWSER_BIN")
	if path == "" {
		var found bool
		if path, found = launcher.LookPath(); !found {
			r.Warnings = append(r.Warnings, "no Chrome/Chromium found; one will be downloaded on first run (or set ROD_BROWSER_BIN)")
			return
		}
	}
	if _, err := os.Stat(path); err != nil {
		r.Errors = append(r.Errors, fmt.Sprintf("browser not found at %s", path))
		return
	}

	r.Browser.Path = path
	r.Browser.Sandbox = getenv("ROD_NO_SANDBOX") != "1" && getenv("CI") != "true" && getenv("ROD_BROWSER_BIN") == ""

	out, err := exec.Command(path, "--version").Output() // #nosec G204 -- browser path from env or rod lookup
	if err != nil {
		r.Warnings = append(r.Warnings, fmt.Sprintf("could not read browser version: %v", err))
		return
	}
	r.Browser.Version = strings.TrimSpace(string(out))
}

func checkCI(r *doctorReport, getenv func(string) string) {
	for _, k := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"} {
		if getenv(k) != "" {
			r.CI = true
			break
		}
	}
	r.InDocker = hints.IsInContainer()

	if (r.CI || r.InDocker) && r.Browser.Sandbox {
		r.Warnings = append(r.Warnings, "container/CI detected with sandbox enabled; set ROD_NO_SANDBOX=1")
	}
}

func checkWorkDir(r *doctorReport, env *Environment) {
	dir, err := env.Getwd()
	if err != nil {
		r.Errors = append(r.Errors, fmt.Sprintf("working directory: %v", err))
		return
	}
	r.WorkDir = dir

	f, err := os.CreateTemp(dir, ".webset-doctor-*")
	if err != nil {
		r.Errors = append(r.Errors, fmt.Sprintf("working directory not writable: %s", dir))
		return
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(filepath.Clean(name))
	r.Writable = true
}

func printDoctor(w io.Writer, r *doctorReport) {
	fmt.Fprintln(w, "webset doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Browser")
	if r.Browser.Path != "" {
		fmt.Fprintf(w, "  [OK] %s\n", r.Browser.Path)
		if r.Browser.Version != "" {
			fmt.Fprintf(w, "  [OK] %s\n", r.Browser.Version)
		}
		if r.Browser.Sandbox {
			fmt.Fprintln(w, "  [OK] sandbox enabled")
		} else {
			fmt.Fprintln(w, "  [OK] sandbox disabled")
		}
	} else {
		fmt.Fprintln(w, "  [--] not installed")
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Platform: %s", r.Platform)
	if r.InDocker {
		fmt.Fprint(w, " (container)")
	}
	if r.CI {
		fmt.Fprint(w, " (CI)")
	}
	fmt.Fprintln(w)
	if r.Writable {
		fmt.Fprintf(w, "Working directory: %s (writable)\n", r.WorkDir)
	}
	fmt.Fprintln(w)

	for _, warn := range r.Warnings {
		fmt.Fprintf(w, "[WARN] %s\n", warn)
	}
	for _, e := range r.Errors {
		fmt.Fprintf(w, "[ERROR] %s\n", e)
	}

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: ready")
	case statusWarnings:
		fmt.Fprintln(w, "Status: ready with warnings")
	default:
		fmt.Fprintln(w, "Status: not ready")
	}
}
