package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/pocketbook"
	"github.com/google/subcommands"
)

// movementFlags are the flags shared by the income and expense commands.
type movementFlags struct {
	account   string
	pocket    string
	subpocket string
	amount    float64
	notes     string
	date      string
	pending   bool
}

func (c *movementFlags) setFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "account", "", "Account of the movement")
	f.StringVar(&c.pocket, "pocket", "", "Pocket of the movement")
	f.StringVar(&c.subpocket, "subpocket", "", "SubPocket for a contribution to the fixed pocket")
	f.Float64Var(&c.amount, "amount", 0, "Amount, always positive")
	f.StringVar(&c.notes, "notes", "", "An optional note for the movement")
	f.StringVar(&c.date, "date", pocketbook.Today().String(), "Value date (YYYY-MM-DD)")
	f.BoolVar(&c.pending, "pending", false, "Record without touching balances until applied")
}

// build resolves names into a movement of the given direction. A
// subpocket flag switches to the fixed movement types and targets the
// fixed pocket.
func (c *movementFlags) build(book *pocketbook.Book, income bool) (*pocketbook.Movement, error) {
	date, err := pocketbook.ParseDate(c.date)
	if err != nil {
		return nil, fmt.Errorf("parsing date: %w", err)
	}

	var typ pocketbook.MovementType
	var account *pocketbook.Account
	var pocket *pocketbook.Pocket
	var sub *pocketbook.SubPocket

	if c.subpocket != "" {
		pocket = book.FixedPocket()
		if pocket == nil {
			return nil, fmt.Errorf("the book has no fixed pocket")
		}
		sub = book.FindSubPocket(pocket.ID, c.subpocket)
		if sub == nil {
			return nil, fmt.Errorf("subpocket %q not found", c.subpocket)
		}
		account = book.Account(pocket.AccountID)
		if income {
			typ = pocketbook.IncomeFixed
		} else {
			typ = pocketbook.ExpenseFixed
		}
	} else {
		account = book.FindAccount(c.account)
		if account == nil {
			return nil, fmt.Errorf("account %q not found", c.account)
		}
		pocket = book.FindPocket(account.ID, c.pocket)
		if pocket == nil {
			return nil, fmt.Errorf("pocket %q not found in account %q", c.pocket, c.account)
		}
		if income {
			typ = pocketbook.IncomeNormal
		} else {
			typ = pocketbook.ExpenseNormal
		}
	}

	m := pocketbook.NewMovement(typ, account.ID, pocket.ID, pocketbook.M(c.amount, account.Currency))
	m.Notes = c.notes
	m.Date = date
	m.Pending = c.pending
	if sub != nil {
		m.SubPocketID = sub.ID
	}
	return m, nil
}

// create is the shared epilogue: record the movement and print it.
func (c *movementFlags) create(f *flag.FlagSet, income bool) subcommands.ExitStatus {
	if c.amount <= 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	engine, err := loadEngine()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	m, err := c.build(engine.Book(), income)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if m, err = engine.CreateMovement(m); err != nil {
		fmt.Fprintf(os.Stderr, "Error recording movement: %v\n", err)
		return subcommands.ExitFailure
	}
	if m.Pending {
		fmt.Printf("Recorded pending movement %s: %s (apply with: pkb apply %s)\n", m.ID, m.Signed().SignedString(), m.ID)
	} else {
		fmt.Printf("Recorded movement %s: %s\n", m.ID, m.Signed().SignedString())
	}
	return subcommands.ExitSuccess
}

// --- Income Command ---

type incomeCmd struct{ movementFlags }

func (*incomeCmd) Name() string     { return "income" }
func (*incomeCmd) Synopsis() string { return "record money coming into a pocket or subpocket" }
func (*incomeCmd) Usage() string {
	return `pkb income -account <name> -pocket <name> -amount <amount> [-notes <text>] [-date <date>] [-pending]
pkb income -subpocket <name> -amount <amount>

  Records an income. With -subpocket the movement is a contribution to
  the fixed pocket and the account and pocket are implied.
`
}
func (c *incomeCmd) SetFlags(f *flag.FlagSet) { c.setFlags(f) }
func (c *incomeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.create(f, true)
}

// --- Expense Command ---

type expenseCmd struct{ movementFlags }

func (*expenseCmd) Name() string     { return "expense" }
func (*expenseCmd) Synopsis() string { return "record money leaving a pocket or subpocket" }
func (*expenseCmd) Usage() string {
	return `pkb expense -account <name> -pocket <name> -amount <amount> [-notes <text>] [-date <date>] [-pending]
pkb expense -subpocket <name> -amount <amount>

  Records an expense. The amount is entered positive, the type carries
  the sign. With -subpocket the expense charges the fixed pocket's
  obligation, possibly putting it in debt.
`
}
func (c *expenseCmd) SetFlags(f *flag.FlagSet) { c.setFlags(f) }
func (c *expenseCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.create(f, false)
}

// --- Invest Command ---

type investCmd struct {
	account string
	deposit float64
	shares  float64
	notes   string
	date    string
	pending bool
}

func (*investCmd) Name() string     { return "invest" }
func (*investCmd) Synopsis() string { return "record a deposit or a share purchase on an investment account" }
func (*investCmd) Usage() string {
	return `pkb invest -account <name> (-deposit <amount> | -shares <count>) [-notes <text>] [-date <date>] [-pending]

  Records investment activity. A deposit tracks the money you put in, a
  share purchase tracks the position; the account balance is the market
  value of the shares at the latest price.
`
}

func (c *investCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "account", "", "Investment account")
	f.Float64Var(&c.deposit, "deposit", 0, "Cash amount deposited")
	f.Float64Var(&c.shares, "shares", 0, "Shares bought")
	f.StringVar(&c.notes, "notes", "", "An optional note for the movement")
	f.StringVar(&c.date, "date", pocketbook.Today().String(), "Value date (YYYY-MM-DD)")
	f.BoolVar(&c.pending, "pending", false, "Record without touching balances until applied")
}

func (c *investCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.account == "" || (c.deposit == 0) == (c.shares == 0) {
		f.Usage()
		return subcommands.ExitUsageError
	}
	date, err := pocketbook.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	engine, err := loadEngine()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	book := engine.Book()
	account := book.FindAccount(c.account)
	if account == nil {
		fmt.Fprintf(os.Stderr, "Error: account %q not found\n", c.account)
		return subcommands.ExitFailure
	}

	typ := pocketbook.InvestDeposit
	pocketName := pocketbook.InvestedPocketName
	value := c.deposit
	if c.shares != 0 {
		typ = pocketbook.InvestShares
		pocketName = pocketbook.SharesPocketName
		value = c.shares
	}
	pocket := book.FindPocket(account.ID, pocketName)
	if pocket == nil {
		fmt.Fprintf(os.Stderr, "Error: account %q has no %q pocket\n", c.account, pocketName)
		return subcommands.ExitFailure
	}

	m := pocketbook.NewMovement(typ, account.ID, pocket.ID, pocketbook.M(value, account.Currency))
	m.Notes = c.notes
	m.Date = date
	m.Pending = c.pending
	if m, err = engine.CreateMovement(m); err != nil {
		fmt.Fprintf(os.Stderr, "Error recording movement: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Recorded movement %s on %q: invested %s for %s shares, balance %s\n",
		m.ID, account.Name, account.Invested, account.Shares, account.Balance)
	return subcommands.ExitSuccess
}
