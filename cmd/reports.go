package cmd

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/etnz/pocketbook"
	"github.com/etnz/pocketbook/renderer"
	"github.com/google/subcommands"
)

// --- Summary Command ---

type summaryCmd struct{}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display every account with its pockets and balances" }
func (*summaryCmd) Usage() string {
	return `pkb summary

  Displays the whole book: accounts with their pockets, subpockets,
  balances and savings progress. Investment balances use the latest
  available quote.
`
}
func (*summaryCmd) SetFlags(f *flag.FlagSet) {}

func (c *summaryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	engine, err := loadEngine()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	// Refresh investment balances with live quotes before reporting.
	for account := range engine.Book().Accounts() {
		engine.Recompute(account.ID)
	}
	summary := renderer.NewSummary(engine.Book())
	if total, ok := grandTotal(engine.Book()); ok {
		summary.Total = total.String()
	}
	printMarkdown(renderer.RenderSummary(summary))
	return subcommands.ExitSuccess
}

// grandTotal sums every account balance in the configured reporting
// currency. A rate provider failure gives up on the total rather than
// failing the whole report.
func grandTotal(book *pocketbook.Book) (pocketbook.Money, bool) {
	cur := loadConfig().Currency
	conv := newConverter()
	total := pocketbook.M(0, cur)
	for account := range book.Accounts() {
		value, err := conv.Convert(account.Balance.Quantity().Float64(), account.Currency, cur)
		if err != nil {
			log.Printf("warning, no rate %s/%s, skipping grand total: %v", account.Currency, cur, err)
			return pocketbook.Money{}, false
		}
		total = total.Add(pocketbook.M(value, cur))
	}
	return total, true
}

// --- Contributions Command ---

type contributionsCmd struct{}

func (*contributionsCmd) Name() string { return "contributions" }
func (*contributionsCmd) Synopsis() string {
	return "display what each subpocket needs this month"
}
func (*contributionsCmd) Usage() string {
	return `pkb contributions

  Displays the monthly contribution plan: for each subpocket its
  installment, the amount required this month given where it stands,
  and its progress toward the target.
`
}
func (*contributionsCmd) SetFlags(f *flag.FlagSet) {}

func (c *contributionsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	book, err := DecodeBookFile()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.RenderContributions(renderer.NewContributions(book)))
	return subcommands.ExitSuccess
}

// --- Tx Command ---

type txCmd struct {
	account string
	pocket  string
	all     bool
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "display the movement history" }
func (*txCmd) Usage() string {
	return `pkb tx [-account <name>] [-pocket <name>] [-all]

  Displays the movement history in recording order. By default only
  active movements are listed; -all includes pending and orphaned ones.
`
}

func (c *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "account", "", "Only movements of this account")
	f.StringVar(&c.pocket, "pocket", "", "Only movements of this pocket (requires -account)")
	f.BoolVar(&c.all, "all", false, "Include pending and orphaned movements")
}

func (c *txCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	book, err := DecodeBookFile()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	var filters []func(*pocketbook.Movement) bool
	if !c.all {
		filters = append(filters, pocketbook.Active())
	}
	if c.account != "" {
		account := book.FindAccount(c.account)
		if account == nil {
			fmt.Fprintf(os.Stderr, "Error: account %q not found\n", c.account)
			return subcommands.ExitFailure
		}
		filters = append(filters, pocketbook.ByAccount(account.ID))
		if c.pocket != "" {
			pocket := book.FindPocket(account.ID, c.pocket)
			if pocket == nil {
				fmt.Fprintf(os.Stderr, "Error: pocket %q not found in account %q\n", c.pocket, c.account)
				return subcommands.ExitFailure
			}
			filters = append(filters, pocketbook.ByPocket(pocket.ID))
		}
	} else if c.pocket != "" {
		fmt.Fprintln(os.Stderr, "Error: -pocket requires -account")
		return subcommands.ExitUsageError
	}

	printMarkdown(renderer.RenderMovementLog(renderer.NewMovementLog(book, filters...)))
	return subcommands.ExitSuccess
}
