package renderer

import (
	"slices"

	"github.com/etnz/pocketbook"
)

// Summary is the view of a whole book: every account with its pockets
// and subpockets, balances formatted for display. Total, when set by
// the caller, is the grand total converted into a single reporting
// currency.
type Summary struct {
	Accounts []AccountSummary
	Total    string
}

type AccountSummary struct {
	Name       string
	Currency   string
	Balance    string
	Investment bool
	Invested   string
	Shares     string
	Gain       string
	Pockets    []PocketSummary
}

type PocketSummary struct {
	Name       string
	Balance    string
	Fixed      bool
	SubPockets []SubPocketSummary
}

type SubPocketSummary struct {
	Name     string
	Balance  string
	Target   string
	Progress string
	Disabled bool
}

// NewSummary builds the summary view from the book, accounts in their
// canonical order.
func NewSummary(b *pocketbook.Book) *Summary {
	s := &Summary{}
	for account := range b.Accounts() {
		av := AccountSummary{
			Name:     account.Name,
			Currency: account.Currency,
			Balance:  account.Balance.String(),
		}
		if account.IsInvestment() {
			av.Investment = true
			av.Invested = account.Invested.String()
			av.Shares = account.Shares.String()
			av.Gain = account.Balance.Sub(account.Invested).SignedString()
		}
		for pocket := range b.AccountPockets(account.ID) {
			pv := PocketSummary{
				Name:    pocket.Name,
				Balance: pocket.Balance.String(),
				Fixed:   pocket.IsFixed(),
			}
			for sub := range b.PocketSubPockets(pocket.ID) {
				pv.SubPockets = append(pv.SubPockets, SubPocketSummary{
					Name:     sub.Name,
					Balance:  sub.Balance.String(),
					Target:   sub.Target.String(),
					Progress: sub.Progress().String(),
					Disabled: !sub.Enabled,
				})
			}
			av.Pockets = append(av.Pockets, pv)
		}
		s.Accounts = append(s.Accounts, av)
	}
	return s
}

// RenderSummary renders the Summary view to a markdown string.
func RenderSummary(s *Summary) string {
	partials := map[string]string{
		"summary_account": "summary_account.md",
	}
	return renderTemplate("summary", "summary.md", partials, s)
}

// Contributions lists what each subpocket needs this month to stay on
// its plan, with the total per currency.
type Contributions struct {
	Rows   []ContributionRow
	Totals []string
}

type ContributionRow struct {
	Account     string
	SubPocket   string
	Installment string
	Required    string
	Saved       string
	Target      string
	Progress    string
}

// NewContributions builds the contribution view from the book. Disabled
// subpockets are listed with a zero requirement.
func NewContributions(b *pocketbook.Book) *Contributions {
	c := &Contributions{}
	totals := make(map[string]pocketbook.Money)
	var currencies []string
	for account := range b.Accounts() {
		for pocket := range b.AccountPockets(account.ID) {
			if !pocket.IsFixed() {
				continue
			}
			for sub := range b.PocketSubPockets(pocket.ID) {
				required := sub.Required()
				c.Rows = append(c.Rows, ContributionRow{
					Account:     account.Name,
					SubPocket:   sub.Name,
					Installment: sub.Installment().String(),
					Required:    required.String(),
					Saved:       sub.Balance.String(),
					Target:      sub.Target.String(),
					Progress:    sub.Progress().String(),
				})
				if !required.IsPositive() {
					continue
				}
				cur := required.Currency()
				if _, ok := totals[cur]; !ok {
					currencies = append(currencies, cur)
				}
				totals[cur] = totals[cur].Add(required)
			}
		}
	}
	slices.Sort(currencies)
	for _, cur := range currencies {
		c.Totals = append(c.Totals, totals[cur].String())
	}
	return c
}

// RenderContributions renders the Contributions view to a markdown string.
func RenderContributions(c *Contributions) string {
	return renderTemplate("contributions", "contributions.md", nil, c)
}
