/*
Package wallet maintains the per-user balance and its append-only ledger.

Every balance change is one atomic unit: the wallet row is locked, mutated
and a ledger entry is appended inside a single database transaction, so the
balance always equals the sum of the user's ledger entries. Credit and Debit
own their transaction; CreditTx and DebitTx run against a caller-owned
transaction so settlement, refund and deposit confirmation can combine a
balance change with their own writes.

Debits are rejected with ErrInsufficientBalance instead of driving the
balance negative.
*/
package wallet
