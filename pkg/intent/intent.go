package intent

import "strings"

// Intent is the closed set of banking capabilities a turn can request.
type Intent string

const (
	Fraud        Intent = "FRAUD"
	ChequeBook   Intent = "CHEQUE_BOOK"
	IntlToggle   Intent = "INTL_TOGGLE"
	Balance      Intent = "BALANCE"
	Transactions Intent = "TRANSACTIONS"
	Statement    Intent = "STATEMENT"
	Loan         Intent = "LOAN"
	Rewards      Intent = "REWARDS"
	Cards        Intent = "CARDS"
	CardBlock    Intent = "CARD_BLOCK"
	Feedback     Intent = "FEEDBACK"
	Greeting     Intent = "GREETING"
	Unknown      Intent = "UNKNOWN"
)

// Ordered is the routing priority list. Earlier entries win ties.
var Ordered = []Intent{
	Fraud,
	ChequeBook,
	IntlToggle,
	Balance,
	Transactions,
	Statement,
	Loan,
	Rewards,
	Cards,
	CardBlock,
	Feedback,
	Greeting,
	Unknown,
}

var rank = func() map[Intent]int {
	m := make(map[Intent]int, len(Ordered))
	for i, it := range Ordered {
		m[it] = i
	}
	return m
}()

// Priority returns the position of i in Ordered; unknown labels sort last.
func Priority(i Intent) int {
	if p, ok := rank[i]; ok {
		return p
	}
	return len(Ordered)
}

// Valid reports whether i is a member of the closed set.
func Valid(i Intent) bool {
	_, ok := rank[i]
	return ok
}

// Parse maps a free-form label (any case, dashes or spaces) onto the set.
func Parse(label string) (Intent, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(label))
	normalized = strings.NewReplacer("-", "_", " ", "_").Replace(normalized)
	it := Intent(normalized)
	return it, Valid(it)
}

func (i Intent) String() string {
	return string(i)
}
