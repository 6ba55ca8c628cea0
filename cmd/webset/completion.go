package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	flag "github.com/spf13/pflag"
)

// Shell is a shell supported by --completion.
type Shell string

const (
	ShellBash Shell = "bash"
	ShellZsh  Shell = "zsh"
	ShellFish Shell = "fish"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string
	Short    string
	Desc     string
	IsBool   bool
	Values   []string // enum values
	FileGlob string   // space separated extensions, e.g. "yaml yml"
	IsDir    bool
}

// completionMeta holds completion hints the FlagSet cannot express.
type completionMeta struct {
	Values   []string
	FileGlob string
	IsDir    bool
}

var flagCompletionMeta = map[string]completionMeta{
	"page-size":  {Values: []string{"letter", "a4", "legal"}},
	"completion": {Values: []string{"bash", "zsh", "fish"}},
	"config":     {FileGlob: "yaml yml"},
	"style":      {FileGlob: "css"},
	"output":     {FileGlob: "pdf"},
	"env-file":   {FileGlob: "env"},
	"asset-path": {IsDir: true},
}

// completionFlags extracts flag definitions from the command's FlagSet.
func completionFlags() []flagDef {
	var defs []flagDef
	newFlagSet(&cliFlags{}).VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:   f.Name,
			Short:  f.Shorthand,
			Desc:   f.Usage,
			IsBool: f.Value.Type() == "bool",
		}
		if meta, ok := flagCompletionMeta[f.Name]; ok {
			fd.Values = meta.Values
			fd.FileGlob = meta.FileGlob
			fd.IsDir = meta.IsDir
		}
		defs = append(defs, fd)
	})
	sort.Slice(defs, func(i, j int) bool { return defs[i].Long < defs[j].Long })
	return defs
}

// GenerateCompletion writes the completion script for shell to w.
func GenerateCompletion(w io.Writer, shell Shell) error {
	defs := completionFlags()
	switch shell {
	case ShellBash:
		return generateBash(w, defs)
	case ShellZsh:
		return generateZsh(w, defs)
	case ShellFish:
		return generateFish(w, defs)
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish)", ErrUnsupportedShell, shell)
	}
}

func generateBash(w io.Writer, defs []flagDef) error {
	var words []string
	var cases strings.Builder
	for _, d := range defs {
		words = append(words, "--"+d.Long)
		if d.Short != "" {
			words = append(words, "-"+d.Short)
		}
		if d.IsBool {
			continue
		}

		pattern := "--" + d.Long
		if d.Short != "" {
			pattern += "|-" + d.Short
		}
		switch {
		case len(d.Values) > 0:
			fmt.Fprintf(&cases, "        %s)\n            COMPREPLY=($(compgen -W %q -- \"$cur\")); return ;;\n",
				pattern, strings.Join(d.Values, " "))
		case d.IsDir:
			fmt.Fprintf(&cases, "        %s)\n            COMPREPLY=($(compgen -d -- \"$cur\")); return ;;\n", pattern)
		case d.FileGlob != "":
			fmt.Fprintf(&cases, "        %s)\n            COMPREPLY=($(compgen -f -X '!*.@(%s)' -- \"$cur\")); return ;;\n",
				pattern, strings.ReplaceAll(d.FileGlob, " ", "|"))
		default:
			fmt.Fprintf(&cases, "        %s)\n            return ;;\n", pattern)
		}
	}

	_, err := fmt.Fprintf(w, `# bash completion for webset
_webset() {
    local cur prev
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    case "$prev" in
%s    esac

    if [[ "$cur" == -* ]]; then
        COMPREPLY=($(compgen -W %q -- "$cur"))
        return
    fi
    shopt -s extglob
    COMPREPLY=($(compgen -f -X '!*.@(html|htm|md|markdown|css|js)' -- "$cur") $(compgen -d -- "$cur"))
}
complete -F _webset webset
`, cases.String(), strings.Join(words, " "))
	return err
}

func generateZsh(w io.Writer, defs []flagDef) error {
	var b strings.Builder
	for _, d := range defs {
		desc := strings.ReplaceAll(d.Desc, "'", "")
		desc = strings.NewReplacer("[", `\[`, "]", `\]`).Replace(desc)

		action := ""
		switch {
		case d.IsBool:
		case len(d.Values) > 0:
			action = ":value:(" + strings.Join(d.Values, " ") + ")"
		case d.IsDir:
			action = ":dir:_files -/"
		case d.FileGlob != "":
			action = ":file:_files -g '*.(" + strings.ReplaceAll(d.FileGlob, " ", "|") + ")'"
		default:
			action = ":value:"
		}

		if d.Short != "" {
			fmt.Fprintf(&b, "    '(-%s --%s)'{-%s,--%s}'[%s]%s' \\\n", d.Short, d.Long, d.Short, d.Long, desc, action)
		} else {
			fmt.Fprintf(&b, "    '--%s[%s]%s' \\\n", d.Long, desc, action)
		}
	}

	_, err := fmt.Fprintf(w, `#compdef webset

_webset() {
  _arguments -s \
%s    '*:file:_files -g "*.(html|htm|md|markdown|css|js)"'
}

compdef _webset webset
`, b.String())
	return err
}

func generateFish(w io.Writer, defs []flagDef) error {
	var b strings.Builder
	b.WriteString("# fish completion for webset\n")
	b.WriteString("complete -c webset -f -a '(__fish_complete_suffix .html .htm .md .markdown .css .js)'\n")

	for _, d := range defs {
		fmt.Fprintf(&b, "complete -c webset -l %s", d.Long)
		if d.Short != "" {
			fmt.Fprintf(&b, " -s %s", d.Short)
		}
		switch {
		case d.IsBool:
		case len(d.Values) > 0:
			fmt.Fprintf(&b, " -x -a '%s'", strings.Join(d.Values, " "))
		case d.IsDir:
			b.WriteString(" -x -a '(__fish_complete_directories)'")
		case d.FileGlob != "":
			exts := strings.Fields(d.FileGlob)
			for i := range exts {
				exts[i] = "." + exts[i]
			}
			fmt.Fprintf(&b, " -r -a '(__fish_complete_suffix %s)'", strings.Join(exts, " "))
		default:
			b.WriteString(" -r")
		}
		fmt.Fprintf(&b, " -d '%s'\n", strings.ReplaceAll(d.Desc, "'", `\'`))
	}

	_, err := io.WriteString(w, b.String())
	return err
}
