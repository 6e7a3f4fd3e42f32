package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEvent() OrderEvent {
	return OrderEvent{
		Type:            EventOrderCreated,
		Reference:       "PV-3F9A12BC4D",
		CustomerName:    "Jane Wanjiru",
		CustomerEmail:   "jane@example.com",
		CustomerPhone:   "0711000001",
		DeliveryAddress: "Maseno University, Hostel B",
		PaymentMethod:   "mpesa",
		Subtotal:        210,
		DeliveryFee:     150,
		Total:           360,
		Items: []EventItem{
			{Name: "ORIS", PricingTier: "Single", Quantity: 1, TotalPrice: 10},
			{Name: "ORIS", PricingTier: "Packet", Quantity: 1, TotalPrice: 200},
		},
		CreatedAt: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
	}
}

func TestWebhookNotifierPostsEvent(t *testing.T) {
	var received OrderEvent
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	err := NewWebhookNotifier(server.URL, "secret").NotifyOrder(context.Background(), sampleEvent())
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret", auth)
	assert.Equal(t, "PV-3F9A12BC4D", received.Reference)
	assert.Len(t, received.Items, 2)
	assert.Equal(t, 360.0, received.Total)
}

func TestWebhookNotifierReportsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gateway down", http.StatusBadGateway)
	}))
	defer server.Close()

	err := NewWebhookNotifier(server.URL, "").NotifyOrder(context.Background(), sampleEvent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestRenderConfirmation(t *testing.T) {
	event := sampleEvent()
	event.CustomerName = "<Jane>"

	body, err := RenderConfirmation(event)
	require.NoError(t, err)
	assert.Contains(t, body, "PV-3F9A12BC4D")
	assert.Contains(t, body, "1x ORIS (Packet)")
	assert.Contains(t, body, "KSh 360.00")
	assert.Contains(t, body, "&lt;Jane&gt;")
}

func TestEmailNotifierSkipsMissingAddress(t *testing.T) {
	event := sampleEvent()
	event.CustomerEmail = ""

	err := NewEmailNotifier(SMTPConfig{Host: "smtp.invalid", From: "orders@puffvibe.co.ke"}).NotifyOrder(context.Background(), event)
	assert.NoError(t, err)
}

type stubNotifier struct {
	err   error
	calls int
}

func (s *stubNotifier) NotifyOrder(context.Context, OrderEvent) error {
	s.calls++
	return s.err
}

func TestMultiJoinsErrors(t *testing.T) {
	failure := errors.New("smtp down")
	ok, failing := &stubNotifier{}, &stubNotifier{err: failure}

	err := Multi{failing, ok, Nop{}}.NotifyOrder(context.Background(), sampleEvent())
	assert.ErrorIs(t, err, failure)
	assert.Equal(t, 1, ok.calls)
	assert.Equal(t, 1, failing.calls)

	assert.NoError(t, Multi{ok}.NotifyOrder(context.Background(), sampleEvent()))
}
