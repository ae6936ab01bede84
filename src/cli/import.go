package cli

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/subcommands"
	"github.com/patrickmn/go-cache"
	"github.com/username/tradejournal/backend/src/database"
	"github.com/username/tradejournal/backend/src/parsers"
	"github.com/username/tradejournal/backend/src/processors"
	"github.com/username/tradejournal/backend/src/services"
)

type importCmd struct {
	out    io.Writer
	dbPath string
	source string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "store the trades of an email in the journal database" }
func (*importCmd) Usage() string {
	return `tjctl import [-db <path>] [-source <name>] <file.eml|file.html>

  Runs the same pipeline as POST /api/upload against a local database. Trades
  already stored for an account are skipped.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dbPath, "db", "./tradejournal.db", "Path of the SQLite database.")
	f.StringVar(&c.source, "source", parsers.DefaultSource, "Parser to use for the email.")
}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	name, content, err := readInput(f.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	db, err := database.Open(c.dbPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	svc := services.NewUploadService(db,
		processors.NewTradeProcessor(),
		processors.NewFeeProcessor(),
		cache.New(time.Minute, services.CacheCleanupInterval),
		cache.New(services.DefaultCacheExpiration, services.CacheCleanupInterval),
	)
	result, err := svc.ProcessUpload(bytes.NewReader(content), c.source, filepath.Base(name), int64(len(content)))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error importing %s: %v\n", name, err)
		return subcommands.ExitFailure
	}

	for _, acc := range result.Accounts {
		fmt.Fprintf(c.out, "%s\t%s\ttrades=%d\tnew=%d\tsplit=%s\n",
			acc.Account.AccountNumber, acc.Account.AccountName, acc.TradesFound, acc.NewTrades, acc.SplitConfidence)
	}
	fmt.Fprintf(c.out, "upload %d: %d accounts, %d trades, %d new\n",
		result.UploadID, result.TotalAccounts, result.TotalTrades, result.NewTrades)
	return subcommands.ExitSuccess
}
