package main

import (
	"fmt"
	"io"
)

// printUsage prints the usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: webset <input> [extra-watch-files...] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert an HTML page to PDF, with an optional print-like preview.")
	fmt.Fprintln(w, "Markdown inputs (.md, .markdown) are converted to HTML first.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input                     HTML file to convert")
	fmt.Fprintln(w, "  extra-watch-files         Files that also trigger a rebuild in watch mode")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <name>       PDF name, relative to the input's directory")
	fmt.Fprintln(w, "                            (default: <input>.pdf)")
	fmt.Fprintln(w, "  -p, --preview[=bool]      Write <input>_preview.html (default: true)")
	fmt.Fprintln(w, "  -w, --watch[=bool]        Rebuild when watched files change")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Style:")
	fmt.Fprintln(w, "      --style <name|path>   Preview style: page, plain, or a CSS file")
	fmt.Fprintln(w, "      --asset-path <dir>    Directory with styles/<name>.css overrides")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page:")
	fmt.Fprintln(w, "      --page-size <s>       Page size: letter, a4, legal")
	fmt.Fprintln(w, "      --margin <f>          Margin in inches (0.25-3.0)")
	fmt.Fprintln(w, "  -t, --timeout <dur>       Page load timeout (default: 30s)")
	fmt.Fprintln(w, "      --stability <dur>     Wait for files to settle (default: 500ms)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Configuration:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --env-file <path>     Load WEBSET_* variables from a .env file")
	fmt.Fprintln(w, "  -q, --quiet               Only log errors")
	fmt.Fprintln(w, "  -v, --verbose             Debug logging")
	fmt.Fprintln(w, "      --version             Show version information")
	fmt.Fprintln(w, "      --doctor [--json]     Check browser and environment")
	fmt.Fprintln(w, "      --completion <shell>  Print completion script (bash, zsh, fish)")
	fmt.Fprintln(w, "  -h, --help                Show this help")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  WEBSET_CONFIG, WEBSET_STYLE, WEBSET_TIMEOUT, WEBSET_PAGE_SIZE,")
	fmt.Fprintln(w, "  WEBSET_STABILITY, WEBSET_ASSET_PATH")
	fmt.Fprintln(w, "  ROD_BROWSER_BIN, ROD_NO_SANDBOX    Browser selection and sandboxing")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  webset report.html")
	fmt.Fprintln(w, "  webset report.html styles.css -w -o final.pdf")
	fmt.Fprintln(w, "  webset notes.md --preview=false --page-size a4")
}
