package journal

// TransactionXData is the transient scratch annotation a report attaches to a
// transaction. It carries computed totals and display overrides without
// polluting the persistent journal; Journal.Clean removes it.
type TransactionXData struct {
	// Total is the running total stamped by the accumulation stage. It
	// reflects exactly the upstream-surviving subsequence seen so far.
	Total *Balance

	// Index is the transaction's position within the report (0-based count
	// of items that passed the accumulation stage before it, inclusive).
	Index int

	// Date, Account and Payee override what consumers display. Aggregating
	// stages use them on synthetic transactions (bucket start dates, the
	// <Total> account); payee substitution writes Payee on stored ones.
	Date    Date
	Account *Account
	Payee   string

	// Handled marks a transaction already emitted by a set-expansion stage
	// so related-entry expansion never double-emits.
	Handled bool

	// Components records the transactions that contributed to a synthetic
	// aggregate, preserving traceability from a total to its contributors
	// for drill-down decomposition.
	Components []*Transaction
}

// AccountXData is the transient aggregate annotation computed during
// account-summary reports.
type AccountXData struct {
	// Value is the sum of the account's own postings that reached the
	// amount-assignment stage.
	Value *Balance

	// Total is the bottom-up subtree total: Value plus all children's
	// Totals.
	Total *Balance

	// Count is the number of own postings; SubCount additionally includes
	// every descendant's postings.
	Count    int
	SubCount int
}
