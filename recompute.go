package pocketbook

// Recompute re-derives the balances of one account from the lowest-level
// authoritative values: subpocket balances for fixed pockets, directly
// accumulated balances for normal pockets, share count and market price
// for investment accounts.
//
// The pass is idempotent: running it twice with no intervening movement
// yields identical numbers, and it never reads a derived value to
// produce another. It is invoked as the epilogue of every Engine
// mutation; callers may also run it after loading a book from a store.
func (e *Engine) Recompute(accountID ID) {
	RecomputeAccount(e.book, accountID, e.prices)
}

// RecomputeAll runs the derivation pass over every account of the book.
func RecomputeAll(b *Book, prices PriceSource) {
	for a := range b.Accounts() {
		RecomputeAccount(b, a.ID, prices)
	}
}

// RecomputeAccount is the single implementation of the derivation rules.
func RecomputeAccount(b *Book, accountID ID, prices PriceSource) {
	account := b.Account(accountID)
	if account == nil {
		return
	}
	if prices == nil {
		prices = NoPrices
	}

	// Fixed pocket balances are the sum of their subpockets'.
	for pocket := range b.AccountPockets(accountID) {
		if !pocket.IsFixed() {
			continue
		}
		sum := M(0, account.Currency)
		for sub := range b.PocketSubPockets(pocket.ID) {
			sum = sum.Add(sub.Balance)
		}
		pocket.Balance = sum
	}

	if account.IsInvestment() {
		// Market value of the position. Without a price the previous
		// derived balance is kept rather than failing the mutation.
		if price, ok := prices.Price(account.Symbol); ok {
			account.Balance = M(price, account.Currency).Mul(account.Shares)
		}
		return
	}

	total := M(0, account.Currency)
	for pocket := range b.AccountPockets(accountID) {
		total = total.Add(pocket.Balance)
	}
	account.Balance = total
}
