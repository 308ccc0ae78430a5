package scanner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chamasoft/notify-engine/internal/domain/eligibility"
	"github.com/chamasoft/notify-engine/internal/domain/member"
	"github.com/chamasoft/notify-engine/internal/domain/notification"
)

type fakeMembers struct {
	members []*member.Member
	err     error
}

func (f *fakeMembers) ListActive(context.Context) ([]*member.Member, error) {
	return f.members, f.err
}

type fakeOracle struct {
	results map[string]*eligibility.Result
	errs    map[string]error
}

func (f *fakeOracle) Calculate(_ context.Context, userID, _ string) (*eligibility.Result, error) {
	if err := f.errs[userID]; err != nil {
		return nil, err
	}
	return f.results[userID], nil
}

type fakeLog struct {
	latest map[string]*notification.Record
	err    error
}

func (f *fakeLog) FindLatest(_ context.Context, userID string, _ notification.Type) (*notification.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.latest[userID], nil
}

type fakeNotifier struct {
	events   []*notification.Event
	err      error
	allMuted bool
}

func (f *fakeNotifier) Dispatch(_ context.Context, ev *notification.Event) ([]notification.Channel, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.events = append(f.events, ev)
	if f.allMuted {
		return []notification.Channel{}, nil
	}
	return ev.Channels, nil
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var scanNow = time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC)

func newUsecase(members *fakeMembers, oracle *fakeOracle, log *fakeLog, notifier *fakeNotifier) *Usecase {
	return &Usecase{
		Members:     members,
		Oracle:      oracle,
		Log:         log,
		Notifier:    notifier,
		Clock:       fixedClock{t: scanNow},
		DedupWindow: 7 * 24 * time.Hour,
		Logger:      zap.NewNop(),
	}
}

func eligibleMember(userID string) (*member.Member, *eligibility.Result) {
	return &member.Member{UserID: userID, GroupID: "g1", GroupName: "Umoja Chama"},
		&eligibility.Result{IsEligible: true, MaxLoanAmount: 30000, Reasons: []string{"6 months of contributions"}}
}

func TestScan_NotifiesEligibleMember(t *testing.T) {
	m, res := eligibleMember("u1")
	notifier := &fakeNotifier{}
	uc := newUsecase(
		&fakeMembers{members: []*member.Member{m}},
		&fakeOracle{results: map[string]*eligibility.Result{"u1": res}},
		&fakeLog{latest: map[string]*notification.Record{}},
		notifier,
	)

	rep, err := uc.Scan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, rep.EligibilityChecked)
	assert.Equal(t, 1, rep.NotificationsSent)
	require.Len(t, notifier.events, 1)

	ev := notifier.events[0]
	assert.Equal(t, "u1", ev.UserID)
	assert.Equal(t, notification.TypeLoanEligibility, ev.Type)
	assert.Equal(t, "You're Eligible for a Loan!", ev.Title)
	assert.Contains(t, ev.Message, "KES 30,000 in Umoja Chama")
	assert.Contains(t, ev.Message, "6 months of contributions")
	assert.Equal(t, []notification.Channel{notification.ChannelEmail, notification.ChannelInApp}, ev.Channels)
	assert.Equal(t, float64(30000), ev.Metadata["maxLoanAmount"])
}

func TestScan_IneligibleMemberIsCountedButNotNotified(t *testing.T) {
	m, _ := eligibleMember("u1")
	notifier := &fakeNotifier{}
	uc := newUsecase(
		&fakeMembers{members: []*member.Member{m}},
		&fakeOracle{results: map[string]*eligibility.Result{"u1": {IsEligible: false}}},
		&fakeLog{},
		notifier,
	)

	rep, err := uc.Scan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, rep.EligibilityChecked)
	assert.Equal(t, 0, rep.NotificationsSent)
	assert.Empty(t, notifier.events)
}

func TestScan_DedupWindowSuppressesRepeat(t *testing.T) {
	m, res := eligibleMember("u1")
	notifier := &fakeNotifier{}
	uc := newUsecase(
		&fakeMembers{members: []*member.Member{m}},
		&fakeOracle{results: map[string]*eligibility.Result{"u1": res}},
		&fakeLog{latest: map[string]*notification.Record{
			"u1": {UserID: "u1", Type: notification.TypeLoanEligibility, CreatedAt: scanNow.Add(-3 * 24 * time.Hour)},
		}},
		notifier,
	)

	rep, err := uc.Scan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, rep.EligibilityChecked)
	assert.Equal(t, 0, rep.NotificationsSent)
	assert.Empty(t, notifier.events)
}

func TestScan_StaleNotificationDoesNotSuppress(t *testing.T) {
	m, res := eligibleMember("u1")
	notifier := &fakeNotifier{}
	uc := newUsecase(
		&fakeMembers{members: []*member.Member{m}},
		&fakeOracle{results: map[string]*eligibility.Result{"u1": res}},
		&fakeLog{latest: map[string]*notification.Record{
			"u1": {UserID: "u1", Type: notification.TypeLoanEligibility, CreatedAt: scanNow.Add(-8 * 24 * time.Hour)},
		}},
		notifier,
	)

	rep, err := uc.Scan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, rep.NotificationsSent)
}

func TestScan_OracleErrorSkipsMember(t *testing.T) {
	m1, res := eligibleMember("u1")
	m2 := &member.Member{UserID: "u2", GroupID: "g1", GroupName: "Umoja Chama"}
	notifier := &fakeNotifier{}
	uc := newUsecase(
		&fakeMembers{members: []*member.Member{m2, m1}},
		&fakeOracle{
			results: map[string]*eligibility.Result{"u1": res},
			errs:    map[string]error{"u2": errors.New("oracle down")},
		},
		&fakeLog{latest: map[string]*notification.Record{}},
		notifier,
	)

	rep, err := uc.Scan(context.Background())
	require.NoError(t, err)

	// The failed member is not counted as checked; the rest proceed.
	assert.Equal(t, 1, rep.EligibilityChecked)
	assert.Equal(t, 1, rep.NotificationsSent)
}

func TestScan_AllChannelsMutedNotCountedAsSent(t *testing.T) {
	m, res := eligibleMember("u1")
	notifier := &fakeNotifier{allMuted: true}
	uc := newUsecase(
		&fakeMembers{members: []*member.Member{m}},
		&fakeOracle{results: map[string]*eligibility.Result{"u1": res}},
		&fakeLog{latest: map[string]*notification.Record{}},
		notifier,
	)

	rep, err := uc.Scan(context.Background())
	require.NoError(t, err)

	// Dispatch succeeded but delivered on zero channels; that is not a send.
	assert.Equal(t, 1, rep.EligibilityChecked)
	assert.Equal(t, 0, rep.NotificationsSent)
	assert.Len(t, notifier.events, 1)
}

func TestScan_DedupLookupErrorSkipsSend(t *testing.T) {
	m, res := eligibleMember("u1")
	notifier := &fakeNotifier{}
	uc := newUsecase(
		&fakeMembers{members: []*member.Member{m}},
		&fakeOracle{results: map[string]*eligibility.Result{"u1": res}},
		&fakeLog{err: errors.New("db down")},
		notifier,
	)

	rep, err := uc.Scan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, rep.EligibilityChecked)
	assert.Equal(t, 0, rep.NotificationsSent)
}

func TestScan_ListMembersErrorFailsPass(t *testing.T) {
	uc := newUsecase(&fakeMembers{err: errors.New("db down")}, &fakeOracle{}, &fakeLog{}, &fakeNotifier{})

	_, err := uc.Scan(context.Background())
	assert.Error(t, err)
}

func TestFormatAmount(t *testing.T) {
	cases := map[float64]string{
		0:         "0",
		500:       "500",
		30000:     "30,000",
		1234567.5: "1,234,567.5",
		-75000:    "-75,000",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatAmount(in))
	}
}
