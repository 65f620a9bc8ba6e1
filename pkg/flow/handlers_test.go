package flow

import (
	"context"
	"regexp"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vaulta-banking-be/pkg/ai/router"
	"vaulta-banking-be/pkg/banking"
	"vaulta-banking-be/pkg/intent"
	"vaulta-banking-be/pkg/store"
)

var (
	blockRef  = regexp.MustCompile(`BLK-\d{8}-\d{4}`)
	fraudRef  = regexp.MustCompile(`FRAUD-\d{8}-\d{4}`)
	chequeRef = regexp.MustCompile(`CHQ-\d{8}-\d{4}`)
	fbRef     = regexp.MustCompile(`FB-\d{8}-\d{4}`)
)

type fixture struct {
	fp       *banking.FastPath
	bank     *banking.Service
	handlers *Handlers
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	fp, err := banking.NewDemoFastPath()
	require.NoError(t, err)
	bank := banking.NewService([]banking.Provider{fp})
	return fixture{fp: fp, bank: bank, handlers: NewHandlers(bank)}
}

func verified(customerID string) store.ConversationSession {
	s := store.NewSession("sess-flow", store.ChannelWebChat)
	s.Verified = true
	s.CustomerID = customerID
	s.CustomerRef = "cust_test"
	return s
}

func (f fixture) run(it intent.Intent, sess store.ConversationSession, d router.Decision) Response {
	d.Intent = it
	return f.handlers.Handle(context.Background(), it, Request{Session: sess, Decision: d, Redacted: "test utterance"})
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "1250.50", want: "$1,250.50"},
		{in: "-45.2", want: "-$45.20"},
		{in: "0", want: "$0.00"},
		{in: "999", want: "$999.00"},
		{in: "1234567.891", want: "$1,234,567.89"},
		{in: "25000", want: "$25,000.00"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatMoney(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "100", FormatCount(100))
	assert.Equal(t, "12,500", FormatCount(12500))
	assert.Equal(t, "1,000,000", FormatCount(1000000))
	assert.Equal(t, "-1,000", FormatCount(-1000))
}

func TestEveryIntentHasItsOwnCase(t *testing.T) {
	replies := make(map[string]intent.Intent)
	for _, it := range intent.Ordered {
		t.Run(it.String(), func(t *testing.T) {
			f := newFixture(t)
			var res Response
			require.NotPanics(t, func() {
				res = f.run(it, verified("1234"), router.Decision{})
			})
			assert.NotEmpty(t, res.Reply)
			if prev, dup := replies[res.Reply]; dup {
				t.Errorf("%s and %s produced the same reply", prev, it)
			}
			replies[res.Reply] = it
		})
	}

	assert.Panics(t, func() {
		newFixture(t).run(intent.Intent("WIRE_TRANSFER"), verified("1234"), router.Decision{})
	})
}

func TestBalance(t *testing.T) {
	f := newFixture(t)
	res := f.run(intent.Balance, verified("1234"), router.Decision{})

	assert.Contains(t, res.Reply, "$1,250.50")
	assert.Equal(t, intent.Balance, res.Session.ActiveFlow)
	assert.Empty(t, res.FailedOp)
}

func TestTransactionsPaging(t *testing.T) {
	f := newFixture(t)

	first := f.run(intent.Transactions, verified("1234"), router.Decision{})
	assert.Contains(t, first.Reply, "Here are your last 3 transactions")
	assert.Contains(t, first.Reply, "Grocery Store")
	assert.NotContains(t, first.Reply, "Coffee Shop")
	assert.Equal(t, 3, first.Session.FlowCursor)
	assert.Equal(t, intent.Transactions, first.Session.ActiveFlow)

	second := f.run(intent.Transactions, first.Session, router.Decision{Continue: true})
	assert.Contains(t, second.Reply, "Here are 2 more transactions")
	assert.Contains(t, second.Reply, "Coffee Shop")
	assert.Equal(t, 5, second.Session.FlowCursor)

	third := f.run(intent.Transactions, second.Session, router.Decision{Continue: true})
	assert.Contains(t, third.Reply, "That's all of your recent transactions")
	assert.Empty(t, third.Session.ActiveFlow)

	fresh := f.run(intent.Transactions, second.Session, router.Decision{})
	assert.Contains(t, fresh.Reply, "Here are your last 3 transactions")
}

func TestCards(t *testing.T) {
	f := newFixture(t)

	none := f.run(intent.Cards, verified("4321"), router.Decision{})
	assert.Equal(t, "You don't have any cards on file.", none.Reply)

	two := f.run(intent.Cards, verified("1234"), router.Decision{})
	assert.Contains(t, two.Reply, "You have 2 cards on file")
	assert.Contains(t, two.Reply, "ending in 0001")
	assert.Contains(t, two.Reply, "ending in 9999")
	assert.Contains(t, two.Reply, "credit limit $5,000.00")
}

func TestLoansAndRewards(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, "You don't have any active loans on file.", f.run(intent.Loan, verified("1111"), router.Decision{}).Reply)

	loans := f.run(intent.Loan, verified("1234"), router.Decision{})
	assert.Contains(t, loans.Reply, "$25,000.00")
	assert.Contains(t, loans.Reply, "4.5%")

	rewards := f.run(intent.Rewards, verified("1234"), router.Decision{})
	assert.Contains(t, rewards.Reply, "12,500 rewards points")
	assert.Contains(t, rewards.Reply, "$125.00")
}

func TestCardBlockTwoTurns(t *testing.T) {
	f := newFixture(t)

	ask := f.run(intent.CardBlock, verified("1111"), router.Decision{})
	require.NotNil(t, ask.Session.Pending)
	assert.Contains(t, ask.Reply, "Shall I block it?")
	assert.Equal(t, "4455", ask.Session.Pending.CardLast4)

	cards, err := f.bank.Cards(context.Background(), "1111")
	require.NoError(t, err)
	assert.Equal(t, banking.CardActive, cards[0].Status, "nothing is blocked before the affirmative")

	yes := f.run(intent.CardBlock, ask.Session, router.Decision{Confirmation: router.Affirm})
	assert.Regexp(t, blockRef, yes.Reply)
	assert.Regexp(t, blockRef, yes.Reference)
	assert.Nil(t, yes.Session.Pending)
	require.NotNil(t, yes.Session.LastAction)

	cards, err = f.bank.Cards(context.Background(), "1111")
	require.NoError(t, err)
	assert.Equal(t, banking.CardBlocked, cards[0].Status)

	again := f.run(intent.CardBlock, yes.Session, router.Decision{Confirmation: router.Affirm, Continue: true})
	assert.Contains(t, again.Reply, "already blocked")
	assert.Empty(t, again.Reference)
}

func TestCardBlockAsksWhichCard(t *testing.T) {
	f := newFixture(t)

	which := f.run(intent.CardBlock, verified("1234"), router.Decision{})
	assert.Equal(t, "Which card is it? Your Debit card ending in 0001, or your Credit card ending in 9999?", which.Reply)
	assert.Nil(t, which.Session.Pending)
	assert.Equal(t, intent.CardBlock, which.Session.ActiveFlow)

	pick := f.run(intent.CardBlock, which.Session, router.Decision{Continue: true, Slots: router.Slots{CardType: "credit"}})
	require.NotNil(t, pick.Session.Pending)
	assert.Equal(t, "CARD_999", pick.Session.Pending.CardID)

	miss := f.run(intent.CardBlock, which.Session, router.Decision{Continue: true, Slots: router.Slots{CardLast4: "7777"}})
	assert.Contains(t, miss.Reply, "I couldn't find a card matching that.")
	assert.Nil(t, miss.Session.Pending)
}

func TestCardBlockCancellation(t *testing.T) {
	for _, c := range []router.Confirmation{router.Deny, router.Unclear} {
		t.Run(string(c), func(t *testing.T) {
			f := newFixture(t)
			ask := f.run(intent.CardBlock, verified("1111"), router.Decision{})
			res := f.run(intent.CardBlock, ask.Session, router.Decision{Confirmation: c})

			assert.Contains(t, res.Reply, "remains active")
			assert.Nil(t, res.Session.Pending)
			assert.Empty(t, res.Session.ActiveFlow)

			cards, err := f.bank.Cards(context.Background(), "1111")
			require.NoError(t, err)
			assert.Equal(t, banking.CardActive, cards[0].Status)
		})
	}
}

func TestIntlToggleIsIdempotent(t *testing.T) {
	f := newFixture(t)

	ask := f.run(intent.IntlToggle, verified("1234"), router.Decision{})
	assert.Equal(t, "Would you like to enable or disable international transactions on your account?", ask.Reply)
	assert.Equal(t, intent.IntlToggle, ask.Session.ActiveFlow)

	disable := router.Decision{Slots: router.Slots{Direction: router.DirectionDisable}}
	first := f.run(intent.IntlToggle, ask.Session, disable)
	assert.Contains(t, first.Reply, "now disabled")
	assert.NotEmpty(t, first.Reference)

	second := f.run(intent.IntlToggle, first.Session, disable)
	assert.Equal(t, "International transactions are already disabled on your account.", second.Reply)
	assert.Empty(t, second.Reference)
	assert.Empty(t, second.FailedOp)

	customer, err := f.bank.Account(context.Background(), "1234")
	require.NoError(t, err)
	assert.False(t, customer.IntlEnabled)
}

func TestChequeBook(t *testing.T) {
	f := newFixture(t)
	res := f.run(intent.ChequeBook, verified("1234"), router.Decision{})

	assert.Regexp(t, chequeRef, res.Reply)
	assert.Contains(t, res.Reply, "123 Main Street, Springfield")
	assert.Contains(t, res.Reply, "7-10 business days")
}

func TestFraudVerified(t *testing.T) {
	f := newFixture(t)
	sess := verified("1234")
	sess.ActiveFlow = intent.CardBlock
	sess.Pending = &store.PendingAction{Kind: store.ActionBlockCard, CardID: "CARD_001", CardLast4: "0001", CardType: "Debit"}

	res := f.run(intent.Fraud, sess, router.Decision{})

	assert.Regexp(t, fraudRef, res.Reply)
	assert.True(t, res.Session.Escalate)
	assert.Nil(t, res.Session.Pending)

	customer, err := f.bank.Account(context.Background(), "1234")
	require.NoError(t, err)
	assert.True(t, customer.Frozen)

	cards, err := f.bank.Cards(context.Background(), "1234")
	require.NoError(t, err)
	for _, c := range cards {
		assert.Equal(t, banking.CardBlocked, c.Status, c.ID)
	}

	cheque := f.run(intent.ChequeBook, res.Session, router.Decision{})
	assert.Contains(t, cheque.Reply, "frozen")
	intl := f.run(intent.IntlToggle, res.Session, router.Decision{Slots: router.Slots{Direction: router.DirectionEnable}})
	assert.Contains(t, intl.Reply, "frozen")
}

func TestFraudUnverified(t *testing.T) {
	f := newFixture(t)
	sess := store.NewSession("sess-anon", store.ChannelPhone)

	res := f.run(intent.Fraud, sess, router.Decision{})

	assert.Regexp(t, fraudRef, res.Reply)
	assert.True(t, res.Session.Escalate)
	assert.Equal(t, intent.Fraud, res.Session.OriginalIntent)
	assert.Contains(t, res.Reply, "Customer ID")

	requests := f.fp.Requests()
	require.Len(t, requests, 1)
	assert.Equal(t, banking.RequestFraudReport, requests[0].Type)
	assert.Empty(t, requests[0].CustomerID)
}

func TestFeedback(t *testing.T) {
	f := newFixture(t)
	sess := store.NewSession("sess-fb", store.ChannelSMS)

	res := f.handlers.Handle(context.Background(), intent.Feedback, Request{
		Session:  sess,
		Decision: router.Decision{Intent: intent.Feedback, Slots: router.Slots{FeedbackKind: "complaint"}},
		Redacted: "the app is terribly slow, my id is [REDACTED_ID]",
	})

	assert.Regexp(t, fbRef, res.Reply)
	assert.Contains(t, res.Reply, "complaint")
	records := f.fp.Feedback()
	require.Len(t, records, 1)
	assert.Equal(t, banking.FeedbackComplaint, records[0].Type)
	assert.Equal(t, banking.StatusPending, records[0].Status)
	assert.Equal(t, "the app is terribly slow, my id is [REDACTED_ID]", records[0].Text)
}

func TestGreetingVariants(t *testing.T) {
	f := newFixture(t)

	voice := f.run(intent.Greeting, store.NewSession("a", store.ChannelPhone), router.Decision{SmallTalk: router.SmallTalkGreeting})
	text := f.run(intent.Greeting, store.NewSession("b", store.ChannelWebChat), router.Decision{SmallTalk: router.SmallTalkGreeting})
	assert.NotEqual(t, voice.Reply, text.Reply)
	assert.Contains(t, voice.Reply, "Welcome to Vaulta Bank")

	bye := f.run(intent.Greeting, verified("1234"), router.Decision{SmallTalk: router.SmallTalkGoodbye})
	assert.True(t, bye.EndSession)
}

func TestUnknownLeavesSessionAlone(t *testing.T) {
	f := newFixture(t)
	sess := verified("1234")
	sess.Attempts = 1
	sess.ActiveFlow = intent.Balance

	res := f.run(intent.Unknown, sess, router.Decision{})

	assert.Equal(t, MsgUnknown, res.Reply)
	assert.Equal(t, sess, res.Session)
}

// downBank fails every call as unavailable.
type downBank struct{}

func unavailable() error {
	return &banking.OpError{Op: "test", Kind: banking.ErrUnavailable}
}

func (downBank) Account(context.Context, string) (banking.Customer, error) {
	return banking.Customer{}, unavailable()
}
func (downBank) RecentTransactions(context.Context, string, int, int) ([]banking.Transaction, error) {
	return nil, unavailable()
}
func (downBank) Loans(context.Context, string) ([]banking.Loan, error) { return nil, unavailable() }
func (downBank) Cards(context.Context, string) ([]banking.Card, error) { return nil, unavailable() }
func (downBank) BlockCard(context.Context, string, string) (banking.BlockResult, error) {
	return banking.BlockResult{}, unavailable()
}
func (downBank) Rewards(context.Context, string) (banking.Rewards, error) {
	return banking.Rewards{}, unavailable()
}
func (downBank) ReportFraud(context.Context, string, string) (string, error) { return "", unavailable() }
func (downBank) ReportUnauthenticatedFraud(context.Context, string, string) (string, error) {
	return "FRAUD-20261015-0001", unavailable()
}
func (downBank) ToggleInternational(context.Context, string, bool) (banking.ToggleResult, error) {
	return banking.ToggleResult{}, unavailable()
}
func (downBank) RequestChequeBook(context.Context, string) (banking.ChequeBookResult, error) {
	return banking.ChequeBookResult{}, unavailable()
}
func (downBank) SubmitFeedback(context.Context, string, banking.FeedbackType, string) (string, error) {
	return "", unavailable()
}
func (downBank) RequestStatement(context.Context, string, string) error { return unavailable() }

func TestUnavailableBecomesRetryMessage(t *testing.T) {
	h := NewHandlers(downBank{})
	sess := verified("1234")
	sess.ActiveFlow = intent.CardBlock
	sess.Pending = &store.PendingAction{Kind: store.ActionBlockCard, CardID: "CARD_001", CardLast4: "0001", CardType: "Debit"}

	tests := []struct {
		it     intent.Intent
		d      router.Decision
		reply  string
		failed string
	}{
		{it: intent.Balance, reply: "I'm having trouble retrieving your balance. Please try again.", failed: "account"},
		{it: intent.Transactions, reply: "I'm having trouble retrieving your transactions. Please try again.", failed: "recent_transactions"},
		{it: intent.Cards, reply: "I'm having trouble retrieving your card information. Please try again.", failed: "cards"},
		{it: intent.CardBlock, d: router.Decision{Confirmation: router.Affirm}, failed: "block_card"},
	}

	for _, tt := range tests {
		t.Run(tt.it.String(), func(t *testing.T) {
			res := h.Handle(context.Background(), tt.it, Request{Session: sess, Decision: tt.d})
			if tt.reply != "" {
				assert.Equal(t, tt.reply, res.Reply)
			}
			assert.Equal(t, tt.failed, res.FailedOp)
			assert.Equal(t, sess, res.Session, "no partial state on failure")
		})
	}

	statement := h.Handle(context.Background(), intent.Statement, Request{Session: verified("1234")})
	assert.Contains(t, statement.Reply, "on its way")
	assert.Equal(t, "request_statement", statement.FailedOp)

	fraud := h.Handle(context.Background(), intent.Fraud, Request{Session: verified("1234")})
	assert.True(t, fraud.Session.Escalate, "fraud escalates even when the freeze fails")
	assert.Equal(t, MsgFraudNotRecorded, fraud.Reply)
	assert.Empty(t, fraud.Reference)
	assert.Equal(t, "report_fraud", fraud.FailedOp)
}

func TestFraudUnverifiedWithoutStorage(t *testing.T) {
	h := NewHandlers(downBank{})

	res := h.Handle(context.Background(), intent.Fraud, Request{Session: store.NewSession("sess-down", store.ChannelPhone)})

	assert.True(t, res.Session.Escalate)
	assert.Equal(t, intent.Fraud, res.Session.OriginalIntent)
	assert.Equal(t, MsgFraudNotRecordedUnverified, res.Reply)
	assert.NotContains(t, res.Reply, "FRAUD-")
	assert.Empty(t, res.Reference)
	assert.Equal(t, "report_unauthenticated_fraud", res.FailedOp)
}

// partialBank freezes nothing but can still file the unauthenticated report.
type partialBank struct{ downBank }

func (partialBank) ReportUnauthenticatedFraud(context.Context, string, string) (string, error) {
	return "FRAUD-20261015-0002", nil
}

func TestFraudFreezeFailsButReportIsFiled(t *testing.T) {
	h := NewHandlers(partialBank{})

	res := h.Handle(context.Background(), intent.Fraud, Request{Session: verified("1234")})

	assert.True(t, res.Session.Escalate)
	assert.Equal(t, "FRAUD-20261015-0002", res.Reference)
	assert.Contains(t, res.Reply, "FRAUD-20261015-0002")
	assert.Equal(t, "report_fraud", res.FailedOp)
}
