// Package history persists a ledger of dispatched commands per workspace,
// backed by SQLite.
package history
