package notifier

import (
	"context"
	"errors"
	"testing"

	"github.com/mailjet/mailjet-apiv3-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gite/pkg/events"
	"gite/pkg/kafka"
	"gite/pkg/logger"
	"gite/pkg/model"
)

type recordingMailer struct {
	sent []Email
	err  error
}

func (m *recordingMailer) Send(_ context.Context, email Email) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, email)
	return nil
}

func eventMessage(t *testing.T, event events.ReservationEvent) kafka.Message {
	t.Helper()
	msg, err := kafka.NewMessage().
		WithKey(event.ReservationID).
		WithValue(event).
		WithEventType(event.Type).
		WithCorrelationID("req-1").
		Build()
	require.NoError(t, err)
	return msg
}

func TestHandle_Created(t *testing.T) {
	mailer := &recordingMailer{}
	n := New(mailer, "owner@example.com", "Gîte", logger.NewNop())

	err := n.Handle(context.Background(), eventMessage(t, events.ReservationEvent{
		Type:          events.TypeReservationCreated,
		ReservationID: "r1",
		Status:        model.StatusPending,
		Reservation: &model.Reservation{
			ID:       "r1",
			Name:     "Marie <Dupont>",
			Email:    "marie@example.com",
			CheckIn:  "2024-07-10",
			CheckOut: "2024-07-13",
			Guests:   2,
			PlanName: "2 NUITS",
			Price:    525,
		},
	}))

	require.NoError(t, err)
	require.Len(t, mailer.sent, 1)
	email := mailer.sent[0]
	assert.Equal(t, "owner@example.com", email.To)
	assert.Equal(t, "[Gîte] Nouvelle demande de réservation", email.Subject)
	assert.Contains(t, email.TextPart, "du 2024-07-10 au 2024-07-13")
	assert.Contains(t, email.TextPart, "525.00 €")
	assert.Contains(t, email.HTMLPart, "Marie &lt;Dupont&gt;")
}

func TestHandle_StatusChanged(t *testing.T) {
	mailer := &recordingMailer{}
	n := New(mailer, "owner@example.com", "", logger.NewNop())

	err := n.Handle(context.Background(), eventMessage(t, events.ReservationEvent{
		Type:           events.TypeReservationStatusChanged,
		ReservationID:  "r1",
		Status:         model.StatusConfirmed,
		PreviousStatus: model.StatusPending,
	}))

	require.NoError(t, err)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "Réservation confirmée", mailer.sent[0].Subject)
	assert.Contains(t, mailer.sent[0].TextPart, "« en attente » à « confirmée »")
}

func TestHandle_Ignored(t *testing.T) {
	mailer := &recordingMailer{}
	n := New(mailer, "owner@example.com", "", logger.NewNop())

	tests := []events.ReservationEvent{
		{Type: events.TypeReservationStatusChanged, ReservationID: "r1", Status: model.StatusPending, PreviousStatus: model.StatusPending},
		{Type: "reservation.archived", ReservationID: "r1"},
	}
	for _, event := range tests {
		require.NoError(t, n.Handle(context.Background(), eventMessage(t, event)))
	}
	assert.Empty(t, mailer.sent)
}

func TestHandle_Errors(t *testing.T) {
	t.Run("mail failure is retried", func(t *testing.T) {
		n := New(&recordingMailer{err: errors.New("smtp down")}, "owner@example.com", "", logger.NewNop())

		err := n.Handle(context.Background(), eventMessage(t, events.ReservationEvent{
			Type:          events.TypeReservationCreated,
			ReservationID: "r1",
		}))
		require.Error(t, err)
		assert.Equal(t, kafka.ErrorTypeTransient, kafka.ClassifyError(err))
	})

	t.Run("bad payload goes to dlq", func(t *testing.T) {
		n := New(&recordingMailer{}, "owner@example.com", "", logger.NewNop())

		err := n.Handle(context.Background(), kafka.Message{Value: []byte("{"), Headers: map[string]string{}})
		require.Error(t, err)
		assert.Equal(t, kafka.ErrorTypePermanent, kafka.ClassifyError(err))
	})
}

type fakeSender struct {
	got *mailjet.MessagesV31
	res *mailjet.ResultsV31
	err error
}

func (f *fakeSender) SendMailV31(data *mailjet.MessagesV31) (*mailjet.ResultsV31, error) {
	f.got = data
	if f.err != nil {
		return nil, f.err
	}
	return f.res, nil
}

func TestMailjetMailer_Send(t *testing.T) {
	sender := &fakeSender{res: &mailjet.ResultsV31{ResultsV31: []mailjet.ResultV31{{Status: "success"}}}}
	m := &MailjetMailer{client: sender, from: "noreply@example.com", fromName: "Gîte"}

	err := m.Send(context.Background(), Email{To: "owner@example.com", Subject: "Hello", TextPart: "body"})
	require.NoError(t, err)

	require.Len(t, sender.got.Info, 1)
	info := sender.got.Info[0]
	assert.Equal(t, "noreply@example.com", info.From.Email)
	assert.Equal(t, "Gîte", info.From.Name)
	assert.Equal(t, "owner@example.com", (*info.To)[0].Email)
	assert.Equal(t, "Hello", info.Subject)
}

func TestMailjetMailer_Failures(t *testing.T) {
	m := &MailjetMailer{client: &fakeSender{err: errors.New("401 unauthorized")}}
	assert.Error(t, m.Send(context.Background(), Email{To: "owner@example.com"}))

	m = &MailjetMailer{client: &fakeSender{res: &mailjet.ResultsV31{ResultsV31: []mailjet.ResultV31{{Status: "error"}}}}}
	assert.Error(t, m.Send(context.Background(), Email{To: "owner@example.com"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, m.Send(ctx, Email{}), context.Canceled)
}
