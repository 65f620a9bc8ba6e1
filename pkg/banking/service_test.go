package banking

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// downProvider answers every call as unavailable. When slow is set it
// waits for the context first.
type downProvider struct {
	slow bool
}

func (d downProvider) wait(ctx context.Context) error {
	if d.slow {
		<-ctx.Done()
		return ctx.Err()
	}
	return errors.New("connection refused")
}

func (d downProvider) Name() string { return "down" }
func (d downProvider) FindCustomer(ctx context.Context, id string) Lookup[Customer] {
	return LookupUnavailable[Customer](d.wait(ctx))
}
func (d downProvider) CheckPIN(ctx context.Context, id, pin string) Lookup[bool] {
	return LookupUnavailable[bool](d.wait(ctx))
}
func (d downProvider) ListCards(ctx context.Context, id string) Lookup[[]Card] {
	return LookupUnavailable[[]Card](d.wait(ctx))
}
func (d downProvider) RecentTransactions(ctx context.Context, id string, limit, offset int) Lookup[[]Transaction] {
	return LookupUnavailable[[]Transaction](d.wait(ctx))
}
func (d downProvider) ListLoans(ctx context.Context, id string) Lookup[[]Loan] {
	return LookupUnavailable[[]Loan](d.wait(ctx))
}
func (d downProvider) FreezeAccount(ctx context.Context, id string, a AuditRecord) error {
	return ErrUnavailable
}
func (d downProvider) BlockCard(ctx context.Context, id, card string, a AuditRecord) (bool, error) {
	return false, ErrUnavailable
}
func (d downProvider) SetInternationalTransactions(ctx context.Context, id string, on bool, a AuditRecord) (bool, error) {
	return false, ErrUnavailable
}
func (d downProvider) RecordRequest(ctx context.Context, a AuditRecord) error { return ErrUnavailable }
func (d downProvider) RecordFeedback(ctx context.Context, f FeedbackRecord) error {
	return ErrUnavailable
}

type recordingDispatcher struct {
	requests []StatementRequest
}

func (r *recordingDispatcher) Dispatch(ctx context.Context, req StatementRequest) error {
	r.requests = append(r.requests, req)
	return nil
}

func newDemoService(t *testing.T, extra ...Provider) (*Service, *FastPath) {
	t.Helper()
	fp, err := NewDemoFastPath()
	require.NoError(t, err)
	providers := append([]Provider{fp}, extra...)
	return NewService(providers, WithTimeout(50*time.Millisecond)), fp
}

var refPattern = func(prefix string) *regexp.Regexp {
	return regexp.MustCompile(`^` + prefix + `-\d{8}-\d{4}$`)
}

func TestVerifyIdentity(t *testing.T) {
	svc, _ := newDemoService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		id, pin  string
		wantKind error
	}{
		{name: "match", id: "1234", pin: "5678"},
		{name: "wrong pin", id: "1234", pin: "0000", wantKind: ErrInvalid},
		{name: "unknown id", id: "9999", pin: "5678", wantKind: ErrNotFound},
		{name: "leading zero is not coerced", id: "1234", pin: "05678", wantKind: ErrInvalid},
		{name: "empty id", id: "", pin: "5678", wantKind: ErrInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := svc.VerifyIdentity(ctx, tt.id, tt.pin)
			if tt.wantKind == nil {
				require.NoError(t, err)
				assert.Equal(t, "1234", c.ID)
				return
			}
			assert.ErrorIs(t, err, tt.wantKind)
			var opErr *OpError
			assert.True(t, errors.As(err, &opErr))
		})
	}
}

func TestFanOutPrefersFastPathAndReportsUnavailable(t *testing.T) {
	svc, _ := newDemoService(t, downProvider{})
	ctx := context.Background()

	c, err := svc.Account(ctx, "1234")
	require.NoError(t, err)
	assert.Equal(t, "1250.5", c.Balance.String())

	_, err = svc.Account(ctx, "7777")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestTimeoutCountsAsUnavailable(t *testing.T) {
	svc, _ := newDemoService(t, downProvider{slow: true})

	start := time.Now()
	_, err := svc.Cards(context.Background(), "5555")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Less(t, time.Since(start), time.Second)
}

func TestRecentTransactionsNewestFirstWithPaging(t *testing.T) {
	svc, _ := newDemoService(t)
	ctx := context.Background()

	first, err := svc.RecentTransactions(ctx, "1234", 3, 0)
	require.NoError(t, err)
	require.Len(t, first, 3)
	assert.Equal(t, "Grocery Store", first[0].Description)
	assert.True(t, first[0].Date.After(first[1].Date))

	next, err := svc.RecentTransactions(ctx, "1234", 3, 3)
	require.NoError(t, err)
	assert.Len(t, next, 2)

	none, err := svc.RecentTransactions(ctx, "1234", 3, 6)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCardsAndLoansMayBeEmpty(t *testing.T) {
	svc, _ := newDemoService(t)
	ctx := context.Background()

	cards, err := svc.Cards(ctx, "4321")
	require.NoError(t, err)
	assert.Empty(t, cards)

	loans, err := svc.Loans(ctx, "4321")
	require.NoError(t, err)
	assert.Empty(t, loans)

	loans, err = svc.Loans(ctx, "1234")
	require.NoError(t, err)
	require.Len(t, loans, 1)
	assert.Equal(t, "Auto", loans[0].Type)
}

func TestBlockCardIsPermanentAndIdempotent(t *testing.T) {
	svc, fp := newDemoService(t)
	ctx := context.Background()

	res, err := svc.BlockCard(ctx, "1234", "CARD_001")
	require.NoError(t, err)
	assert.False(t, res.AlreadyBlocked)
	assert.Regexp(t, refPattern("BLK"), res.Reference)
	assert.Equal(t, CardBlocked, res.Card.Status)

	again, err := svc.BlockCard(ctx, "1234", "CARD_001")
	require.NoError(t, err)
	assert.True(t, again.AlreadyBlocked)
	assert.Empty(t, again.Reference)
	assert.Len(t, fp.Requests(), 1)

	_, err = svc.BlockCard(ctx, "1234", "CARD_404")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReportFraudFreezesAndBlocksEverything(t *testing.T) {
	svc, fp := newDemoService(t)
	ctx := context.Background()

	ref, err := svc.ReportFraud(ctx, "1234", "someone used my card")
	require.NoError(t, err)
	assert.Regexp(t, refPattern("FRAUD"), ref)

	c, err := svc.Account(ctx, "1234")
	require.NoError(t, err)
	assert.True(t, c.Frozen)

	cards, err := svc.Cards(ctx, "1234")
	require.NoError(t, err)
	for _, card := range cards {
		assert.Equal(t, CardBlocked, card.Status, card.ID)
	}

	requests := fp.Requests()
	require.Len(t, requests, 1)
	assert.Equal(t, RequestFraudReport, requests[0].Type)
	assert.Equal(t, StatusUrgent, requests[0].Status)

	_, err = svc.RequestChequeBook(ctx, "1234")
	assert.ErrorIs(t, err, ErrInvalid)
	assert.ErrorIs(t, err, ErrAccountFrozen)

	_, err = svc.ToggleInternational(ctx, "1234", false)
	require.NoError(t, err)
	_, err = svc.ToggleInternational(ctx, "1234", true)
	assert.ErrorIs(t, err, ErrAccountFrozen)
}

func TestUnauthenticatedFraudFallsBackToFastPath(t *testing.T) {
	svc, fp := newDemoService(t, downProvider{})

	ref, err := svc.ReportUnauthenticatedFraud(context.Background(), "cust_ref", "stolen card")
	require.NoError(t, err)
	assert.Regexp(t, refPattern("FRAUD"), ref)

	requests := fp.Requests()
	require.Len(t, requests, 1)
	assert.Empty(t, requests[0].CustomerID)
	assert.Equal(t, false, requests[0].Details["authenticated"])
}

func TestToggleInternationalIsIdempotent(t *testing.T) {
	svc, fp := newDemoService(t)
	ctx := context.Background()

	res, err := svc.ToggleInternational(ctx, "1234", true)
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.True(t, res.Enabled)

	res, err = svc.ToggleInternational(ctx, "1234", false)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Regexp(t, refPattern("INTL"), res.Reference)

	res, err = svc.ToggleInternational(ctx, "1234", false)
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Empty(t, res.Reference)

	c, _ := svc.Account(ctx, "1234")
	assert.False(t, c.IntlEnabled)
	assert.Len(t, fp.Requests(), 1)
}

func TestRequestChequeBook(t *testing.T) {
	svc, _ := newDemoService(t)

	res, err := svc.RequestChequeBook(context.Background(), "1234")
	require.NoError(t, err)
	assert.Regexp(t, refPattern("CHQ"), res.Reference)
	assert.Equal(t, "123 Main Street, Springfield", res.Address)
}

func TestRewardsCashValue(t *testing.T) {
	svc, _ := newDemoService(t)

	r, err := svc.Rewards(context.Background(), "1234")
	require.NoError(t, err)
	assert.Equal(t, 12500, r.Points)
	assert.Equal(t, "125", r.CashValue.String())
}

func TestSubmitFeedback(t *testing.T) {
	svc, fp := newDemoService(t)
	ctx := context.Background()

	ref, err := svc.SubmitFeedback(ctx, "", FeedbackComplaint, "the app keeps crashing")
	require.NoError(t, err)
	assert.Regexp(t, refPattern("FB"), ref)

	_, err = svc.SubmitFeedback(ctx, "1234", FeedbackPraise, "great service")
	require.NoError(t, err)

	fb := fp.Feedback()
	require.Len(t, fb, 2)
	assert.Equal(t, StatusPending, fb[0].Status)
	assert.Equal(t, "1234", fb[1].CustomerID)
}

func TestRequestStatement(t *testing.T) {
	fp, err := NewDemoFastPath()
	require.NoError(t, err)

	err = NewService([]Provider{fp}).RequestStatement(context.Background(), "1234", "")
	assert.ErrorIs(t, err, ErrUnavailable)

	d := &recordingDispatcher{}
	svc := NewService([]Provider{fp}, WithStatementDispatcher(d))
	require.NoError(t, svc.RequestStatement(context.Background(), "1234", ""))
	require.Len(t, d.requests, 1)
	assert.Equal(t, "monthly", d.requests[0].Period)
}
