package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/pocketbook"
	"github.com/google/subcommands"
)

// --- New Account Command ---

type newAccountCmd struct {
	name     string
	color    string
	currency string
	typ      string
	symbol   string
}

func (*newAccountCmd) Name() string     { return "new-account" }
func (*newAccountCmd) Synopsis() string { return "create a new account" }
func (*newAccountCmd) Usage() string {
	return `pkb new-account -name <name> [-currency <code>] [-color <color>] [-type investment -symbol <ticker>]

  Creates a new account. Two accounts may share a name only in different
  currencies. An investment account needs the ticker symbol its balance
  is priced from.
`
}

func (c *newAccountCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Account name")
	f.StringVar(&c.color, "color", "", "Display color")
	f.StringVar(&c.currency, "currency", loadConfig().Currency, "ISO-4217 currency code")
	f.StringVar(&c.typ, "type", "normal", "Account type (normal, investment)")
	f.StringVar(&c.symbol, "symbol", "", "Ticker symbol, for investment accounts")
}

func (c *newAccountCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.name == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	typ, err := pocketbook.ParseAccountType(c.typ)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing type: %v\n", err)
		return subcommands.ExitUsageError
	}

	var account *pocketbook.Account
	if typ == pocketbook.AccountInvestment {
		account, err = pocketbook.NewInvestmentAccount(c.name, c.color, c.currency, c.symbol)
	} else {
		account, err = pocketbook.NewAccount(c.name, c.color, c.currency)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	engine, err := loadEngine()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if account, err = engine.CreateAccount(account); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating account: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Created account %q (%s)\n", account.Name, account.Currency)
	return subcommands.ExitSuccess
}

// --- New Pocket Command ---

type newPocketCmd struct {
	account string
	name    string
	typ     string
}

func (*newPocketCmd) Name() string     { return "new-pocket" }
func (*newPocketCmd) Synopsis() string { return "create a new pocket in an account" }
func (*newPocketCmd) Usage() string {
	return `pkb new-pocket -account <name> -name <name> [-type fixed]

  Creates a new pocket. Pocket names are unique within their account.
  At most one pocket in the whole book is the fixed pocket, home of the
  recurring obligations.
`
}

func (c *newPocketCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "account", "", "Account owning the pocket")
	f.StringVar(&c.name, "name", "", "Pocket name")
	f.StringVar(&c.typ, "type", "normal", "Pocket type (normal, fixed)")
}

func (c *newPocketCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.account == "" || c.name == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	typ, err := pocketbook.ParsePocketType(c.typ)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing type: %v\n", err)
		return subcommands.ExitUsageError
	}

	engine, err := loadEngine()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	account := engine.Book().FindAccount(c.account)
	if account == nil {
		fmt.Fprintf(os.Stderr, "Error: account %q not found\n", c.account)
		return subcommands.ExitFailure
	}

	pocket, err := pocketbook.NewPocket(account.ID, c.name, typ)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if pocket, err = engine.CreatePocket(pocket); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating pocket: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Created pocket %q in account %q\n", pocket.Name, account.Name)
	return subcommands.ExitSuccess
}

// --- New SubPocket Command ---

type newSubPocketCmd struct {
	name   string
	target float64
	months int
}

func (*newSubPocketCmd) Name() string     { return "new-subpocket" }
func (*newSubPocketCmd) Synopsis() string { return "create a new subpocket in the fixed pocket" }
func (*newSubPocketCmd) Usage() string {
	return `pkb new-subpocket -name <name> -target <amount> -months <n>

  Creates a new subpocket in the book's fixed pocket: one recurring
  obligation with a target amount to save over a period in months.
`
}

func (c *newSubPocketCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "SubPocket name")
	f.Float64Var(&c.target, "target", 0, "Target amount to save over the period")
	f.IntVar(&c.months, "months", 0, "Period in months")
}

func (c *newSubPocketCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.name == "" || c.target <= 0 || c.months <= 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}

	engine, err := loadEngine()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fixed := engine.Book().FixedPocket()
	if fixed == nil {
		fmt.Fprintln(os.Stderr, "Error: the book has no fixed pocket yet, create one with new-pocket -type fixed")
		return subcommands.ExitFailure
	}

	account := engine.Book().Account(fixed.AccountID)
	sub, err := pocketbook.NewSubPocket(fixed.ID, c.name, pocketbook.M(c.target, account.Currency), c.months)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if sub, err = engine.CreateSubPocket(sub); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating subpocket: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Created subpocket %q: %s over %d months, %s per month\n",
		sub.Name, sub.Target, sub.PeriodMonths, sub.Installment())
	return subcommands.ExitSuccess
}
