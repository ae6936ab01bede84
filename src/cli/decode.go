package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"
	"github.com/username/tradejournal/backend/src/parsers/mimedecode"
)

type decodeCmd struct {
	out io.Writer
}

func (*decodeCmd) Name() string     { return "decode" }
func (*decodeCmd) Synopsis() string { return "print the HTML document recovered from an email" }
func (*decodeCmd) Usage() string {
	return `tjctl decode <file.eml|->

  Prints the decoded HTML to standard output and the decoding strategy used
  (mime-part, html-block or raw) to standard error.
`
}

func (*decodeCmd) SetFlags(*flag.FlagSet) {}

func (c *decodeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	_, content, err := readInput(f.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	result := mimedecode.Decode(string(content))
	fmt.Fprintf(os.Stderr, "strategy: %s\n", result.Strategy)
	if _, err := io.WriteString(c.out, result.HTML); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
