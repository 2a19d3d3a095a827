// Package pocketbook implements a personal-finance pocket ledger.
//
// A Book holds Accounts, each subdivided into Pockets. A single fixed
// Pocket may further be subdivided into SubPockets, each tracking a
// recurring obligation against a target amount and a payoff period.
// Every balance change flows through a Movement record; the Engine
// keeps Account, Pocket and SubPocket balances consistent with the
// history of applied Movements, including reversal-and-reapply on edit
// and delete, a pending/applied state machine, dual-balance tracking
// for investment accounts, and orphan handling when a parent Account
// or Pocket is removed.
package pocketbook
