package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"
	"github.com/username/tradejournal/backend/src/parsers"
)

type parseCmd struct {
	out     io.Writer
	source  string
	compact bool
}

func (*parseCmd) Name() string     { return "parse" }
func (*parseCmd) Synopsis() string { return "parse a confirmation email and print its accounts and trades" }
func (*parseCmd) Usage() string {
	return `tjctl parse [-source <name>] [-compact] <file.eml|file.html|->

  Decodes the email, reconciles the deal legs into trades and prints the whole
  parse result, diagnostics included, as JSON.
`
}

func (c *parseCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.source, "source", parsers.DefaultSource, "Parser to use for the email.")
	f.BoolVar(&c.compact, "compact", false, "Print the JSON on a single line.")
}

func (c *parseCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	_, content, err := readInput(f.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	parser, err := parsers.GetParser(c.source)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	parsed, err := parser.Parse(bytes.NewReader(content))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing email: %v\n", err)
		return subcommands.ExitFailure
	}

	enc := json.NewEncoder(c.out)
	if !c.compact {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(parsed); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
