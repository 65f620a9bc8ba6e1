package flow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"vaulta-banking-be/pkg/ai/router"
	"vaulta-banking-be/pkg/banking"
	"vaulta-banking-be/pkg/intent"
	"vaulta-banking-be/pkg/store"
)

const transactionsPageSize = 3

// Banking is the slice of the banking service the handlers call.
type Banking interface {
	Account(ctx context.Context, customerID string) (banking.Customer, error)
	RecentTransactions(ctx context.Context, customerID string, limit, offset int) ([]banking.Transaction, error)
	Loans(ctx context.Context, customerID string) ([]banking.Loan, error)
	Cards(ctx context.Context, customerID string) ([]banking.Card, error)
	BlockCard(ctx context.Context, customerID, cardID string) (banking.BlockResult, error)
	Rewards(ctx context.Context, customerID string) (banking.Rewards, error)
	ReportFraud(ctx context.Context, customerID, note string) (string, error)
	ReportUnauthenticatedFraud(ctx context.Context, sessionRef, note string) (string, error)
	ToggleInternational(ctx context.Context, customerID string, enable bool) (banking.ToggleResult, error)
	RequestChequeBook(ctx context.Context, customerID string) (banking.ChequeBookResult, error)
	SubmitFeedback(ctx context.Context, customerID string, kind banking.FeedbackType, text string) (string, error)
	RequestStatement(ctx context.Context, customerID, period string) error
}

// Request is everything a handler may read for one turn.
type Request struct {
	Session  store.ConversationSession
	Decision router.Decision
	// Redacted is the utterance after credential redaction. It is the only
	// form of the text a handler may persist.
	Redacted string
}

// Response carries the reply and the session the handler produced.
type Response struct {
	Reply      string
	Session    store.ConversationSession
	EndSession bool
	Reference  string
	// FailedOp names the banking operation that could not complete.
	FailedOp string
}

type Handlers struct {
	bank Banking
}

func NewHandlers(bank Banking) *Handlers {
	return &Handlers{bank: bank}
}

// Handle dispatches to the handler for it. The session in req is not
// modified; the returned Response carries the next session.
func (h *Handlers) Handle(ctx context.Context, it intent.Intent, req Request) Response {
	req.Session = req.Session.Clone()

	switch it {
	case intent.Fraud:
		return h.fraud(ctx, req)
	case intent.ChequeBook:
		return h.chequeBook(ctx, req)
	case intent.IntlToggle:
		return h.intlToggle(ctx, req)
	case intent.Balance:
		return h.balance(ctx, req)
	case intent.Transactions:
		return h.transactions(ctx, req)
	case intent.Statement:
		return h.statement(ctx, req)
	case intent.Loan:
		return h.loans(ctx, req)
	case intent.Rewards:
		return h.rewards(ctx, req)
	case intent.Cards:
		return h.cards(ctx, req)
	case intent.CardBlock:
		return h.cardBlock(ctx, req)
	case intent.Feedback:
		return h.feedback(ctx, req)
	case intent.Greeting:
		return h.greeting(req)
	case intent.Unknown:
		return h.unknown(req)
	default:
		panic(fmt.Sprintf("flow: unhandled intent %q", it))
	}
}

func done(sess store.ConversationSession, reply string) Response {
	sess.ClearFlow()
	return Response{Reply: reply, Session: sess}
}

func failed(sess store.ConversationSession, op, reply string) Response {
	return Response{Reply: reply, Session: sess, FailedOp: op}
}

func (h *Handlers) fraud(ctx context.Context, req Request) Response {
	sess := req.Session
	sess.ClearFlow()
	sess.Escalate = true
	note := "Fraud reported in conversation: " + req.Redacted

	if sess.HasCustomer() {
		ref, err := h.bank.ReportFraud(ctx, sess.CustomerID, note)
		if err == nil {
			sess.OriginalIntent = ""
			return Response{
				Session:   sess,
				Reference: ref,
				Reply: fmt.Sprintf("I've frozen your account and blocked all of your cards to protect you. "+
					"Your fraud report reference is %s. A fraud specialist will contact you shortly.", ref),
			}
		}

		// The freeze did not commit; the report must still reach a human.
		ref, err = h.bank.ReportUnauthenticatedFraud(ctx, sess.ID, note)
		if err != nil {
			return Response{Session: sess, FailedOp: "report_fraud", Reply: MsgFraudNotRecorded}
		}
		return Response{
			Session:   sess,
			Reference: ref,
			FailedOp:  "report_fraud",
			Reply: fmt.Sprintf("I couldn't freeze your account automatically just now, but I've flagged this "+
				"for our fraud team under reference %s and a specialist will contact you immediately.", ref),
		}
	}

	sess.OriginalIntent = intent.Fraud
	ref, err := h.bank.ReportUnauthenticatedFraud(ctx, sess.ID, note)
	if err != nil {
		return Response{Session: sess, FailedOp: "report_unauthenticated_fraud", Reply: MsgFraudNotRecordedUnverified}
	}
	return Response{
		Session:   sess,
		Reference: ref,
		Reply: fmt.Sprintf("I understand this is urgent. I've flagged this for our fraud team under reference %s. "+
			"To freeze your account and block your cards right now, please give me your Customer ID and 4-digit PIN.", ref),
	}
}

func (h *Handlers) chequeBook(ctx context.Context, req Request) Response {
	sess := req.Session
	res, err := h.bank.RequestChequeBook(ctx, sess.CustomerID)
	switch {
	case errors.Is(err, banking.ErrAccountFrozen):
		return done(sess, "Your account is currently frozen, so I can't order a cheque book. "+
			"A specialist can help once the security review is complete.")
	case err != nil:
		return failed(sess, "request_cheque_book", "I'm having trouble processing your cheque book request. Please try again.")
	}

	out := done(sess, fmt.Sprintf("Your cheque book has been ordered and will be delivered to %s "+
		"within 7-10 business days. Your reference number is %s.", res.Address, res.Reference))
	out.Reference = res.Reference
	return out
}

func (h *Handlers) intlToggle(ctx context.Context, req Request) Response {
	sess := req.Session
	var enable bool
	switch req.Decision.Slots.Direction {
	case router.DirectionEnable:
		enable = true
	case router.DirectionDisable:
		enable = false
	default:
		sess.ClearFlow()
		sess.ActiveFlow = intent.IntlToggle
		return Response{
			Session: sess,
			Reply:   "Would you like to enable or disable international transactions on your account?",
		}
	}

	res, err := h.bank.ToggleInternational(ctx, sess.CustomerID, enable)
	switch {
	case errors.Is(err, banking.ErrAccountFrozen):
		return done(sess, "Your account is currently frozen, so I can't enable international transactions. "+
			"A specialist can help once the security review is complete.")
	case err != nil:
		return failed(sess, "toggle_international", "I'm having trouble updating your international transaction settings. Please try again.")
	}

	state := "disabled"
	if res.Enabled {
		state = "enabled"
	}
	if !res.Changed {
		return done(sess, fmt.Sprintf("International transactions are already %s on your account.", state))
	}
	out := done(sess, fmt.Sprintf("International transactions are now %s on your account. Your reference number is %s.",
		state, res.Reference))
	out.Reference = res.Reference
	return out
}

func (h *Handlers) balance(ctx context.Context, req Request) Response {
	sess := req.Session
	customer, err := h.bank.Account(ctx, sess.CustomerID)
	if err != nil {
		return failed(sess, "account", retry("your balance"))
	}

	sess.ClearFlow()
	sess.ActiveFlow = intent.Balance
	accountType := strings.ToLower(customer.AccountType)
	if accountType == "" {
		accountType = "account"
	}
	return Response{
		Session: sess,
		Reply: fmt.Sprintf("Your %s balance is %s. Would you like to see recent transactions as well?",
			accountType, FormatMoney(customer.Balance)),
	}
}

func (h *Handlers) transactions(ctx context.Context, req Request) Response {
	sess := req.Session
	offset := 0
	if req.Decision.Continue && sess.ActiveFlow == intent.Transactions {
		offset = sess.FlowCursor
	}

	txns, err := h.bank.RecentTransactions(ctx, sess.CustomerID, transactionsPageSize, offset)
	if err != nil {
		return failed(sess, "recent_transactions", retry("your transactions"))
	}
	if len(txns) == 0 {
		if offset > 0 {
			return done(sess, "That's all of your recent transactions. "+MsgAnythingElse)
		}
		return done(sess, "You don't have any recent transactions.")
	}

	var b strings.Builder
	if offset == 0 {
		fmt.Fprintf(&b, "Here are your last %d transactions:\n", len(txns))
	} else {
		fmt.Fprintf(&b, "Here are %d more transactions:\n", len(txns))
	}
	for _, t := range txns {
		fmt.Fprintf(&b, "• %s: %s, %s", t.Date.Format("Jan 2"), t.Description, FormatMoney(t.Amount))
		if t.Status != "" && !strings.EqualFold(t.Status, "completed") {
			fmt.Fprintf(&b, " (%s)", strings.ToLower(t.Status))
		}
		b.WriteByte('\n')
	}
	b.WriteString("Would you like to see more?")

	sess.ClearFlow()
	sess.ActiveFlow = intent.Transactions
	sess.FlowCursor = offset + len(txns)
	return Response{Session: sess, Reply: b.String()}
}

func (h *Handlers) statement(ctx context.Context, req Request) Response {
	sess := req.Session
	// Dispatch is fire-and-forget; a failed hand-off is reported to the
	// engine but never to the customer.
	out := done(sess, "Your statement is on its way to the email address on file. "+
		"It should arrive within a few minutes.")
	if err := h.bank.RequestStatement(ctx, sess.CustomerID, "monthly"); err != nil {
		out.FailedOp = "request_statement"
	}
	return out
}

func (h *Handlers) loans(ctx context.Context, req Request) Response {
	sess := req.Session
	loans, err := h.bank.Loans(ctx, sess.CustomerID)
	if err != nil {
		return failed(sess, "loans", retry("your loan information"))
	}
	if len(loans) == 0 {
		return done(sess, "You don't have any active loans on file.")
	}

	var b strings.Builder
	b.WriteString("Here's your loan information:\n")
	for _, l := range loans {
		fmt.Fprintf(&b, "• %s loan %s: %s at %s for %d months (%s)",
			l.Type, l.ID, FormatMoney(l.Amount), FormatRate(l.InterestRate), l.TermMonths, strings.ToLower(l.Status))
		if l.MonthlyPayment.Valid {
			fmt.Fprintf(&b, ", monthly payment %s", FormatMoney(l.MonthlyPayment.Decimal))
		}
		b.WriteByte('\n')
	}
	b.WriteString(MsgAnythingElse)
	return done(sess, b.String())
}

func (h *Handlers) rewards(ctx context.Context, req Request) Response {
	sess := req.Session
	r, err := h.bank.Rewards(ctx, sess.CustomerID)
	if err != nil {
		return failed(sess, "rewards", retry("your rewards"))
	}
	if r.Points == 0 {
		return done(sess, "You don't have any rewards points yet.")
	}
	return done(sess, fmt.Sprintf("You have %s rewards points. That's approximately %s in rewards value.",
		FormatCount(r.Points), FormatMoney(r.CashValue)))
}

func (h *Handlers) cards(ctx context.Context, req Request) Response {
	sess := req.Session
	cards, err := h.bank.Cards(ctx, sess.CustomerID)
	if err != nil {
		return failed(sess, "cards", retry("your card information"))
	}
	if len(cards) == 0 {
		return done(sess, "You don't have any cards on file.")
	}

	var b strings.Builder
	if len(cards) == 1 {
		b.WriteString("You have 1 card on file:\n")
	} else {
		fmt.Fprintf(&b, "You have %d cards on file:\n", len(cards))
	}
	for _, c := range cards {
		fmt.Fprintf(&b, "• %s card ending in %s (%s)", c.Type, c.LastFour, c.Status)
		if c.CreditLimit.Valid {
			fmt.Fprintf(&b, ", credit limit %s", FormatMoney(c.CreditLimit.Decimal))
		}
		b.WriteByte('\n')
	}
	b.WriteString(MsgAnythingElse)
	return done(sess, b.String())
}

func (h *Handlers) feedback(ctx context.Context, req Request) Response {
	sess := req.Session
	kind := feedbackType(req.Decision.Slots.FeedbackKind)

	customerID := ""
	if sess.HasCustomer() {
		customerID = sess.CustomerID
	}
	ref, err := h.bank.SubmitFeedback(ctx, customerID, kind, req.Redacted)
	if err != nil {
		return failed(sess, "submit_feedback", "I'm having trouble submitting your feedback right now. Please try again.")
	}

	out := done(sess, fmt.Sprintf("Thank you for your %s. I've logged it under reference %s and our team will review it.",
		strings.ToLower(string(kind)), ref))
	out.Reference = ref
	return out
}

func feedbackType(kind string) banking.FeedbackType {
	switch kind {
	case "complaint":
		return banking.FeedbackComplaint
	case "praise":
		return banking.FeedbackPraise
	default:
		return banking.FeedbackSuggestion
	}
}

func (h *Handlers) greeting(req Request) Response {
	sess := req.Session
	kind := req.Decision.SmallTalk
	reply := greeting(kind, sess.Channel)

	switch kind {
	case router.SmallTalkGoodbye:
		out := done(sess, reply)
		out.EndSession = true
		return out
	case router.SmallTalkDecline:
		return done(sess, reply)
	}
	return Response{Session: sess, Reply: reply}
}

func (h *Handlers) unknown(req Request) Response {
	return Response{Session: req.Session, Reply: MsgUnknown}
}
