package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/pocketbook"
	"github.com/google/subcommands"
)

// --- Apply Command ---

type applyCmd struct{}

func (*applyCmd) Name() string     { return "apply" }
func (*applyCmd) Synopsis() string { return "apply pending movements to the balances" }
func (*applyCmd) Usage() string {
	return `pkb apply <movement-id> [<movement-id>...]

  Applies pending movements. Applying is one way: an applied movement
  cannot go back to pending, edit or delete it instead.
`
}
func (*applyCmd) SetFlags(f *flag.FlagSet) {}

func (c *applyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	engine, err := loadEngine()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	status := subcommands.ExitSuccess
	for _, arg := range f.Args() {
		m, err := engine.ApplyPending(pocketbook.ID(arg))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error applying %s: %v\n", arg, err)
			status = subcommands.ExitFailure
			continue
		}
		fmt.Printf("Applied movement %s: %s\n", m.ID, m.Signed().SignedString())
	}
	return status
}

// --- Edit Command ---

type editCmd struct {
	amount  float64
	notes   string
	date    string
	account string
	pocket  string
}

func (*editCmd) Name() string     { return "edit" }
func (*editCmd) Synopsis() string { return "edit a recorded movement" }
func (*editCmd) Usage() string {
	return `pkb edit <movement-id> [-amount <amount>] [-notes <text>] [-date <date>] [-account <name> -pocket <name>]

  Edits a movement. Only the given flags change; balances are reversed
  and reapplied automatically, also when the movement is retargeted to
  another pocket or account. A rejected edit leaves the book untouched.
`
}

func (c *editCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.amount, "amount", 0, "New amount, always positive")
	f.StringVar(&c.notes, "notes", "", "New note")
	f.StringVar(&c.date, "date", "", "New value date (YYYY-MM-DD)")
	f.StringVar(&c.account, "account", "", "New account (requires -pocket)")
	f.StringVar(&c.pocket, "pocket", "", "New pocket")
}

func (c *editCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	engine, err := loadEngine()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	book := engine.Book()
	id := pocketbook.ID(f.Arg(0))

	current := book.Movement(id)
	if current == nil {
		fmt.Fprintf(os.Stderr, "Error: movement %s not found\n", id)
		return subcommands.ExitFailure
	}

	var patch pocketbook.MovementPatch
	if c.amount != 0 {
		amount := pocketbook.M(c.amount, "")
		patch.Amount = &amount
	}
	if c.notes != "" {
		patch.Notes = &c.notes
	}
	if c.date != "" {
		date, err := pocketbook.ParseDate(c.date)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
			return subcommands.ExitUsageError
		}
		patch.Date = &date
	}

	// Retargeting: resolve the new pocket within its account.
	if c.account != "" || c.pocket != "" {
		accountName := c.account
		account := book.Account(current.AccountID)
		if accountName != "" {
			account = book.FindAccount(accountName)
			if account == nil {
				fmt.Fprintf(os.Stderr, "Error: account %q not found\n", accountName)
				return subcommands.ExitFailure
			}
		}
		if c.pocket == "" {
			fmt.Fprintln(os.Stderr, "Error: -account requires -pocket")
			return subcommands.ExitUsageError
		}
		pocket := book.FindPocket(account.ID, c.pocket)
		if pocket == nil {
			fmt.Fprintf(os.Stderr, "Error: pocket %q not found in account %q\n", c.pocket, account.Name)
			return subcommands.ExitFailure
		}
		patch.AccountID = &account.ID
		patch.PocketID = &pocket.ID
	}

	m, err := engine.UpdateMovement(id, patch)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error editing movement: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Edited movement %s: %s\n", m.ID, m.Signed().SignedString())
	return subcommands.ExitSuccess
}

// --- Delete Command ---

type deleteCmd struct{}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "delete a movement, reversing its effect" }
func (*deleteCmd) Usage() string {
	return `pkb delete <movement-id> [<movement-id>...]

  Deletes movements. Balances are adjusted as if the movement never
  happened; a pending movement disappears without touching anything.
`
}
func (*deleteCmd) SetFlags(f *flag.FlagSet) {}

func (c *deleteCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	engine, err := loadEngine()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	status := subcommands.ExitSuccess
	for _, arg := range f.Args() {
		if err := engine.DeleteMovement(pocketbook.ID(arg)); err != nil {
			fmt.Fprintf(os.Stderr, "Error deleting %s: %v\n", arg, err)
			status = subcommands.ExitFailure
			continue
		}
		fmt.Printf("Deleted movement %s\n", arg)
	}
	return status
}
