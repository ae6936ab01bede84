// Package cli holds the tjctl subcommands, which run the email parser and the import
// pipeline from the command line without the HTTP server.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"
)

// Commands lists every tjctl subcommand, writing to the process standard output.
var Commands = []subcommands.Command{
	&parseCmd{out: os.Stdout},
	&decodeCmd{out: os.Stdout},
	&accountsCmd{out: os.Stdout},
	&importCmd{out: os.Stdout},
}

// readInput reads the file named by the single positional argument, or standard input for "-".
func readInput(args []string) (string, []byte, error) {
	if len(args) != 1 {
		return "", nil, fmt.Errorf("expected exactly one input file, got %d", len(args))
	}
	name := args[0]
	if name == "-" {
		content, err := io.ReadAll(os.Stdin)
		return "stdin.eml", content, err
	}
	content, err := os.ReadFile(name)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return name, content, nil
}
