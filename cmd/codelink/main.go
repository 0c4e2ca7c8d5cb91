package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/codelink-sh/codelink/internal/config"
	"github.com/codelink-sh/codelink/internal/logging"
)

const Version = "0.4.0"

func main() {
	cfg, cfgErr := config.Load()

	if cfg.Logs.Enabled {
		if dir, err := config.Dir(); err == nil {
			logging.Init(logging.Config{
				LogDir: dir,
				Level:  cfg.Logs.Level,
				Format: cfg.Logs.Format,
			})
		}
	}
	defer logging.Shutdown()

	if cfgErr != nil {
		// Bad config is not fatal: defaults are in effect, but say so.
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", cfgErr)
	}

	initColorProfile()

	args := os.Args[1:]
	if len(args) == 0 {
		printHelp()
		os.Exit(1)
	}

	switch args[0] {
	case "version", "--version", "-v":
		fmt.Printf("codelink v%s\n", Version)
	case "help", "--help", "-h":
		printHelp()
	case "resolve":
		handleResolve(cfg, args[1:])
	case "list", "ls":
		handleList(cfg, args[1:])
	case "find":
		handleFind(cfg, args[1:])
	case "serve", "mcp":
		handleServe(cfg, args[1:])
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command '%s'\n\n", args[0])
		printHelp()
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("Usage: codelink <command> [options]")
	fmt.Println()
	fmt.Println("Target the editor workspace your terminal is working in.")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  resolve             Print the active workspace path")
	fmt.Println("  list                List open workspaces")
	fmt.Println("  find <name>         Find an open workspace by partial name")
	fmt.Println("  serve               Serve the MCP agent API on stdio")
	fmt.Println("  version             Print version")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  codelink resolve                 # where should this command run?")
	fmt.Println("  codelink resolve --json          # with the method that decided")
	fmt.Println("  codelink list                    # open workspaces, preferred first")
	fmt.Println("  codelink find deck               # substring match, either direction")
	fmt.Println("  codelink serve                   # wire up an MCP-capable agent")
}

// initColorProfile configures lipgloss based on terminal capabilities.
// CODELINK_COLOR overrides detection: truecolor, 256, 16, none.
func initColorProfile() {
	if colorEnv := os.Getenv("CODELINK_COLOR"); colorEnv != "" {
		switch strings.ToLower(colorEnv) {
		case "truecolor", "true", "24bit":
			lipgloss.SetColorProfile(termenv.TrueColor)
			return
		case "256", "ansi256":
			lipgloss.SetColorProfile(termenv.ANSI256)
			return
		case "16", "ansi", "basic":
			lipgloss.SetColorProfile(termenv.ANSI)
			return
		case "none", "off", "ascii":
			lipgloss.SetColorProfile(termenv.Ascii)
			return
		}
	}

	if !stdoutIsTerminal() {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}

	if ct := os.Getenv("COLORTERM"); ct == "truecolor" || ct == "24bit" {
		lipgloss.SetColorProfile(termenv.TrueColor)
		return
	}
	lipgloss.SetColorProfile(termenv.ANSI256)
}
