package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// normalizeArgs reorders args so flags come before positional arguments.
// Go's flag package stops parsing at the first non-flag argument, which
// means "codelink find deck --json" would silently ignore --json. This
// moves all flags to the front so they get parsed correctly.
func normalizeArgs(fs *flag.FlagSet, args []string) []string {
	boolFlags := make(map[string]bool)
	fs.VisitAll(func(f *flag.Flag) {
		if bf, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && bf.IsBoolFlag() {
			boolFlags[f.Name] = true
		}
	})

	var flags, positional []string
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if arg == "--" {
			positional = append(positional, args[i+1:]...)
			break
		}

		if strings.HasPrefix(arg, "-") && arg != "-" {
			flags = append(flags, arg)

			name := strings.TrimLeft(arg, "-")
			if strings.Contains(name, "=") {
				continue
			}
			if !boolFlags[name] && i+1 < len(args) {
				i++
				flags = append(flags, args[i])
			}
		} else {
			positional = append(positional, arg)
		}
	}
	return append(flags, positional...)
}

// CLIOutput handles consistent output formatting across all CLI commands.
type CLIOutput struct {
	jsonMode  bool
	quietMode bool
}

// NewCLIOutput creates a new CLI output handler.
func NewCLIOutput(jsonMode, quietMode bool) *CLIOutput {
	return &CLIOutput{
		jsonMode:  jsonMode,
		quietMode: quietMode,
	}
}

// Print prints data (human-readable or JSON). Quiet mode suppresses the
// human output entirely.
func (c *CLIOutput) Print(humanOutput string, jsonData interface{}) {
	if c.jsonMode {
		c.printJSON(jsonData)
		return
	}
	if c.quietMode {
		return
	}
	fmt.Print(humanOutput)
}

// Error prints an error message or JSON error response.
func (c *CLIOutput) Error(message string, code string) {
	if c.jsonMode {
		c.printJSON(map[string]interface{}{
			"success": false,
			"error":   message,
			"code":    code,
		})
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %s\n", message)
}

func (c *CLIOutput) printJSON(data interface{}) {
	output, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to format JSON: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(output))
}

// Error codes for JSON consumers.
const (
	ErrCodeNotFound = "NOT_FOUND"
	ErrCodeInternal = "INTERNAL"
)

func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
