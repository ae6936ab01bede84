package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"
	"github.com/username/tradejournal/backend/src/parsers/mimedecode"
	"github.com/username/tradejournal/backend/src/parsers/mt4"
)

type accountsCmd struct {
	out io.Writer
}

func (*accountsCmd) Name() string     { return "accounts" }
func (*accountsCmd) Synopsis() string { return "list the account numbers found in an email" }
func (*accountsCmd) Usage() string {
	return `tjctl accounts <file.eml|file.html|->

  Prints each distinct account number in document order, one per line.
`
}

func (*accountsCmd) SetFlags(*flag.FlagSet) {}

func (c *accountsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	_, content, err := readInput(f.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	for _, number := range mt4.DetectAccountNumbers(mimedecode.DecodeHTML(string(content))) {
		fmt.Fprintln(c.out, number)
	}
	return subcommands.ExitSuccess
}
