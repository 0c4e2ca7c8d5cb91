package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/codelink-sh/codelink/internal/config"
	"github.com/codelink-sh/codelink/internal/mcpserver"
	"github.com/codelink-sh/codelink/internal/workspace"
)

// Table column widths for list output.
const (
	tableColName = 24
	tableColPath = 60
)

// handleResolve prints the active workspace path. Plain output is the bare
// path so shells can do `cd $(codelink resolve)`.
func handleResolve(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("resolve", flag.ExitOnError)
	jsonOutput := fs.Bool("json", false, "Output as JSON (includes the method that decided)")
	cwdFlag := fs.String("cwd", "", "Resolve from this directory instead of the current one")

	fs.Usage = func() {
		fmt.Println("Usage: codelink resolve [options]")
		fmt.Println()
		fmt.Println("Print the workspace path a command run here should target.")
		fmt.Println()
		fmt.Println("Options:")
		fs.PrintDefaults()
	}
	if err := fs.Parse(normalizeArgs(fs, args)); err != nil {
		os.Exit(1)
	}

	cwd := *cwdFlag
	if cwd == "" {
		var err error
		cwd, err = os.Getwd()
		if err != nil {
			NewCLIOutput(*jsonOutput, false).Error(fmt.Sprintf("cannot determine working directory: %v", err), ErrCodeInternal)
			os.Exit(1)
		}
	}

	engine := workspace.FromConfig(cfg)
	sel := engine.ResolveActive(context.Background(), cwd)

	out := NewCLIOutput(*jsonOutput, false)
	out.Print(sel.Path+"\n", sel)
}

// handleList prints the open-workspace index.
func handleList(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	jsonOutput := fs.Bool("json", false, "Output as JSON")
	quiet := fs.Bool("quiet", false, "Print paths only")
	quietShort := fs.Bool("q", false, "Print paths only (short)")

	fs.Usage = func() {
		fmt.Println("Usage: codelink list [options]")
		fmt.Println()
		fmt.Println("List currently open workspaces, preferred first.")
		fmt.Println()
		fmt.Println("Options:")
		fs.PrintDefaults()
	}
	if err := fs.Parse(normalizeArgs(fs, args)); err != nil {
		os.Exit(1)
	}

	engine := workspace.FromConfig(cfg)
	index := engine.ListOpen(context.Background())

	if *quiet || *quietShort {
		for _, c := range index {
			fmt.Println(c.Path)
		}
		return
	}

	out := NewCLIOutput(*jsonOutput, false)
	if len(index) == 0 {
		out.Print("No open workspaces detected.\n", map[string]interface{}{
			"count":      0,
			"workspaces": []interface{}{},
		})
		return
	}

	var b strings.Builder
	initStyles()
	b.WriteString(headerStyle.Render(padCell("NAME", tableColName)+" "+padCell("PATH", tableColPath)) + "\n")
	for _, c := range index {
		b.WriteString(nameStyle.Render(padCell(c.Name, tableColName)))
		b.WriteString(" ")
		b.WriteString(pathStyle.Render(truncateCell(c.Path, tableColPath)))
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("%d open", len(index))) + "\n")
	out.Print(b.String(), map[string]interface{}{
		"count":      len(index),
		"workspaces": index,
	})
}

// handleFind looks up one open workspace by partial name. On no match it
// exits nonzero and suggests the closest open names.
func handleFind(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("find", flag.ExitOnError)
	jsonOutput := fs.Bool("json", false, "Output as JSON")

	fs.Usage = func() {
		fmt.Println("Usage: codelink find <name> [options]")
		fmt.Println()
		fmt.Println("Find an open workspace by name. Matching is case-insensitive")
		fmt.Println("substring in either direction, same as the agent API.")
		fmt.Println()
		fmt.Println("Options:")
		fs.PrintDefaults()
	}
	if err := fs.Parse(normalizeArgs(fs, args)); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(1)
	}
	query := fs.Arg(0)

	engine := workspace.FromConfig(cfg)
	out := NewCLIOutput(*jsonOutput, false)

	cand, err := engine.FindByName(context.Background(), query)
	if err != nil {
		var nf *workspace.NotFoundError
		if errors.As(err, &nf) {
			msg := fmt.Sprintf("no open workspace matches '%s'", query)
			if hint := suggestNames(query, nf.Available); hint != "" {
				msg += ". Did you mean: " + hint + "?"
			}
			out.Error(msg, ErrCodeNotFound)
		} else {
			out.Error(err.Error(), ErrCodeInternal)
		}
		os.Exit(1)
	}

	initStyles()
	human := fmt.Sprintf("%s  %s\n", nameStyle.Render(cand.Name), pathStyle.Render(cand.Path))
	out.Print(human, cand)
}

// suggestNames fuzzy-ranks the available names against the failed query.
// Presentation only: the match policy itself stays pure substring.
func suggestNames(query string, available []string) string {
	matches := fuzzy.Find(query, available)
	if len(matches) == 0 {
		if len(available) > 0 {
			return strings.Join(available, ", ")
		}
		return ""
	}
	if len(matches) > 3 {
		matches = matches[:3]
	}
	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = m.Str
	}
	return strings.Join(names, ", ")
}

// handleServe runs the stdio MCP server until the client disconnects.
func handleServe(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Println("Usage: codelink serve")
		fmt.Println()
		fmt.Println("Serve the MCP agent API on stdin/stdout. Register codelink as a")
		fmt.Println("stdio MCP server in your agent to give it workspace-aware file")
		fmt.Println("and search tools.")
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	engine := workspace.FromConfig(cfg)
	srv := mcpserver.New(engine, cfg, Version)
	if err := srv.ServeStdio(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
