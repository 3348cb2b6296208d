package scheduler

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/Dan9191/bank-insights/internal/integrations/webhook"
	"github.com/Dan9191/bank-insights/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type fakeAccounts struct {
	owners []models.AccountOwner
	err    error
}

func (f fakeAccounts) ListAccountOwners(context.Context) ([]models.AccountOwner, error) {
	return f.owners, f.err
}

type fakeAssessor struct {
	risks map[int64]models.OverdraftRisk
	errs  map[int64]error
	calls []float64
}

func (f *fakeAssessor) OverdraftRiskForUser(_ context.Context, userID int64, balance float64) (models.OverdraftRisk, error) {
	f.calls = append(f.calls, balance)
	if err := f.errs[userID]; err != nil {
		return models.OverdraftRisk{}, err
	}
	return f.risks[userID], nil
}

type sentEvent struct {
	event string
	user  *webhook.EventUser
	meta  map[string]any
}

type fakeNotifier struct {
	sent []sentEvent
}

func (f *fakeNotifier) Send(_ context.Context, eventType string, _ any, user *webhook.EventUser, meta map[string]any) bool {
	f.sent = append(f.sent, sentEvent{event: eventType, user: user, meta: meta})
	return true
}

type fakeMailer struct {
	to  []string
	err error
}

func (f *fakeMailer) SendOverdraftAlert(_ context.Context, to, _ string, _ models.OverdraftRisk) error {
	f.to = append(f.to, to)
	return f.err
}

func owner(accountID, userID int64, balance float64, email string) models.AccountOwner {
	return models.AccountOwner{
		Account:  models.Account{ID: accountID, UserID: userID, Balance: balance, Currency: "RUB"},
		Username: "user",
		Email:    email,
	}
}

func TestOverdraftSweep_NotifiesOnlyMediumAndHigh(t *testing.T) {
	accounts := fakeAccounts{owners: []models.AccountOwner{
		owner(10, 1, 100, "low@example.com"),
		owner(11, 2, 200, "medium@example.com"),
		owner(12, 3, 300, "high@example.com"),
		owner(13, 4, 400, "nodata@example.com"),
	}}
	assessor := &fakeAssessor{risks: map[int64]models.OverdraftRisk{
		1: {RiskLevel: models.RiskLow},
		2: {RiskLevel: models.RiskMedium},
		3: {RiskLevel: models.RiskHigh},
		4: {Error: "No historical data"},
	}}
	notifier := &fakeNotifier{}
	mailer := &fakeMailer{}

	sweep := NewOverdraftSweep(accounts, assessor, notifier, mailer, nil, quietLogger())
	result, err := sweep.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, SweepResult{Accounts: 4, AtRisk: 2}, result)
	assert.Equal(t, []float64{100, 200, 300, 400}, assessor.calls, "each account is assessed against its own balance")
	assert.Equal(t, []string{"medium@example.com", "high@example.com"}, mailer.to)

	require.Len(t, notifier.sent, 2)
	assert.Equal(t, webhook.EventOverdraftRisk, notifier.sent[0].event)
	assert.Equal(t, "2", notifier.sent[0].user.ID)
	assert.Equal(t, int64(11), notifier.sent[0].meta["account_id"])
}

func TestOverdraftSweep_ContinuesAfterFailure(t *testing.T) {
	accounts := fakeAccounts{owners: []models.AccountOwner{
		owner(10, 1, 100, "a@example.com"),
		owner(11, 2, 100, "b@example.com"),
		owner(12, 3, 100, "c@example.com"),
	}}
	assessor := &fakeAssessor{
		risks: map[int64]models.OverdraftRisk{2: {RiskLevel: models.RiskHigh}, 3: {RiskLevel: models.RiskHigh}},
		errs:  map[int64]error{1: errors.New("db down")},
	}
	notifier := &fakeNotifier{}
	mailer := &fakeMailer{err: errors.New("smtp down")}

	sweep := NewOverdraftSweep(accounts, assessor, notifier, mailer, nil, quietLogger())
	result, err := sweep.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, SweepResult{Accounts: 3, AtRisk: 2, Failed: 3}, result,
		"accounts whose alert e-mail fails still count as at risk")
	assert.Len(t, notifier.sent, 2, "webhook is sent even when e-mail fails")
}

func TestOverdraftSweep_Job(t *testing.T) {
	sweep := NewOverdraftSweep(fakeAccounts{err: errors.New("db down")}, &fakeAssessor{}, &fakeNotifier{}, nil, nil, quietLogger())
	assert.ErrorContains(t, sweep.Job().Run(context.Background()), "db down")

	accounts := fakeAccounts{owners: []models.AccountOwner{owner(10, 1, 100, "a@example.com")}}
	assessor := &fakeAssessor{risks: map[int64]models.OverdraftRisk{1: {RiskLevel: models.RiskHigh}}}
	notifier := &fakeNotifier{}
	require.NoError(t, NewOverdraftSweep(accounts, assessor, notifier, nil, nil, quietLogger()).Job().Run(context.Background()))
	assert.Len(t, notifier.sent, 1)
}

func TestOverdraftSweep_WithoutMailer(t *testing.T) {
	accounts := fakeAccounts{owners: []models.AccountOwner{owner(10, 1, 100, "a@example.com")}}
	assessor := &fakeAssessor{risks: map[int64]models.OverdraftRisk{1: {RiskLevel: models.RiskMedium}}}
	notifier := &fakeNotifier{}

	result, err := NewOverdraftSweep(accounts, assessor, notifier, nil, nil, quietLogger()).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.AtRisk)
	assert.Len(t, notifier.sent, 1)
}

func TestOverdraftSweep_ListFailure(t *testing.T) {
	sweep := NewOverdraftSweep(fakeAccounts{err: errors.New("db down")}, &fakeAssessor{}, &fakeNotifier{}, nil, nil, quietLogger())
	_, err := sweep.Run(context.Background())
	assert.ErrorContains(t, err, "db down")
}

func TestOverdraftSweep_StopsOnCancelledContext(t *testing.T) {
	accounts := fakeAccounts{owners: []models.AccountOwner{owner(10, 1, 100, "a@example.com")}}
	assessor := &fakeAssessor{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewOverdraftSweep(accounts, assessor, &fakeNotifier{}, nil, nil, quietLogger()).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, assessor.calls)
}
