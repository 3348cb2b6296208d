package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Dan9191/bank-insights/internal/config"
	"github.com/Dan9191/bank-insights/internal/utils"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestSend_Delivers(t *testing.T) {
	var (
		gotAuth string
		gotSig  string
		gotBody []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		gotAuth = r.Header.Get("Authorization")
		gotSig = r.Header.Get(SignatureHeader)
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	n := NewNotifier(&config.Config{WebhookURL: srv.URL, WebhookToken: "tok", HMACSecret: "sig-secret"}, quietLogger())
	n.now = func() time.Time { return time.Date(2024, 6, 15, 15, 0, 0, 0, time.FixedZone("MSK", 3*3600)) }

	user := &EventUser{ID: "7", Email: "ann@example.com", Username: "ann"}
	ok := n.Send(context.Background(), EventOverdraftRisk, map[string]any{"risk_level": "HIGH"}, user, map[string]any{"account_id": 3})
	require.True(t, ok)

	assert.Equal(t, "Bearer tok", gotAuth)
	assert.True(t, utils.VerifySignature(gotBody, gotSig, "sig-secret"))

	var event Event
	require.NoError(t, json.Unmarshal(gotBody, &event))
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, EventOverdraftRisk, event.Event)
	assert.Equal(t, "2024-06-15T12:00:00Z", event.Timestamp)
	assert.Equal(t, map[string]any{"risk_level": "HIGH"}, event.Payload)
	assert.Equal(t, float64(3), event.Meta["account_id"])
	require.NotNil(t, event.User)
	assert.Equal(t, "ann", event.User.Username)
}

func TestSend_OmitsOptionalHeadersAndDefaultsEmptyObjects(t *testing.T) {
	var raw map[string]json.RawMessage
	var hdr http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hdr = r.Header.Clone()
		_ = json.NewDecoder(r.Body).Decode(&raw)
	}))
	defer srv.Close()

	n := NewNotifier(&config.Config{WebhookURL: srv.URL}, quietLogger())
	require.True(t, n.Send(context.Background(), "ping", nil, nil, nil))

	assert.Empty(t, hdr.Get("Authorization"))
	assert.Empty(t, hdr.Get(SignatureHeader))
	assert.JSONEq(t, `{}`, string(raw["payload"]))
	assert.JSONEq(t, `{}`, string(raw["meta"]))
	_, hasUser := raw["user"]
	assert.False(t, hasUser)
}

func TestSend_ServerErrorReturnsFalse(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := NewNotifier(&config.Config{WebhookURL: srv.URL}, quietLogger())
	assert.False(t, n.Send(context.Background(), "ping", nil, nil, nil))
	assert.Equal(t, int32(1), calls.Load(), "failed deliveries are not retried")
}

func TestSend_UnreachableReturnsFalse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	n := NewNotifier(&config.Config{WebhookURL: url}, quietLogger())
	assert.False(t, n.Send(context.Background(), "ping", nil, nil, nil))
}

func TestSend_DisabledWithoutURL(t *testing.T) {
	n := NewNotifier(&config.Config{}, quietLogger())
	n.client = &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
		t.Fatal("no request expected without a webhook URL")
		return nil, nil
	})}

	assert.False(t, n.Enabled())
	assert.False(t, n.Send(context.Background(), "ping", nil, nil, nil))
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }
