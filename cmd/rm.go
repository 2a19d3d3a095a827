package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

// --- Remove Account Command ---

type rmAccountCmd struct {
	name string
	hard bool
}

func (*rmAccountCmd) Name() string     { return "rm-account" }
func (*rmAccountCmd) Synopsis() string { return "delete an account with its pockets and subpockets" }
func (*rmAccountCmd) Usage() string {
	return `pkb rm-account -name <name> [-hard]

  Deletes an account with everything it contains. By default the
  movement history survives, flagged orphaned and excluded from every
  balance. With -hard the movements are erased too.
`
}

func (c *rmAccountCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Account to delete")
	f.BoolVar(&c.hard, "hard", false, "Also erase the movement history")
}

func (c *rmAccountCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.name == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	engine, err := loadEngine()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	account := engine.Book().FindAccount(c.name)
	if account == nil {
		fmt.Fprintf(os.Stderr, "Error: account %q not found\n", c.name)
		return subcommands.ExitFailure
	}

	counts, err := engine.DeleteAccount(account.ID, c.hard)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error deleting account: %v\n", err)
		return subcommands.ExitFailure
	}
	verb := "orphaned"
	if c.hard {
		verb = "erased"
	}
	fmt.Printf("Deleted account %q: %d pockets, %d subpockets removed, %d movements %s\n",
		c.name, counts.Pockets, counts.SubPockets, counts.Movements, verb)
	return subcommands.ExitSuccess
}

// --- Remove Pocket Command ---

type rmPocketCmd struct {
	account string
	name    string
}

func (*rmPocketCmd) Name() string     { return "rm-pocket" }
func (*rmPocketCmd) Synopsis() string { return "delete a pocket, orphaning its movements" }
func (*rmPocketCmd) Usage() string {
	return `pkb rm-pocket -account <name> -name <name>

  Deletes a pocket. Its movements survive, flagged orphaned. The fixed
  pocket refuses to go while it still has subpockets.
`
}

func (c *rmPocketCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "account", "", "Account owning the pocket")
	f.StringVar(&c.name, "name", "", "Pocket to delete")
}

func (c *rmPocketCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.account == "" || c.name == "" {
		f.Usage()
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
	pocket := engine.Book().FindPocket(account.ID, c.name)
	if pocket == nil {
		fmt.Fprintf(os.Stderr, "Error: pocket %q not found in account %q\n", c.name, c.account)
		return subcommands.ExitFailure
	}

	if err := engine.DeletePocket(pocket.ID); err != nil {
		fmt.Fprintf(os.Stderr, "Error deleting pocket: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Deleted pocket %q from account %q\n", c.name, c.account)
	return subcommands.ExitSuccess
}
