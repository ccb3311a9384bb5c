// Package notifier turns reservation events into administrator emails.
package notifier

import (
	"context"
	"fmt"
	"html"
	"strings"

	"gite/pkg/events"
	"gite/pkg/kafka"
	"gite/pkg/logger"
	"gite/pkg/model"
)

type Notifier struct {
	mailer  Mailer
	adminTo string
	site    string
	log     *logger.Logger
}

func New(mailer Mailer, adminTo, site string, log *logger.Logger) *Notifier {
	return &Notifier{
		mailer:  mailer,
		adminTo: adminTo,
		site:    site,
		log:     log,
	}
}

// Handle is a kafka.MessageHandler. Mail failures are transient so the
// consumer retries them before sending the event to the DLQ.
func (n *Notifier) Handle(ctx context.Context, msg kafka.Message) error {
	event, err := events.Decode(msg)
	if err != nil {
		return err
	}

	email, ok := n.compose(event)
	if !ok {
		n.log.Debug("Reservation event ignored", "type", event.Type, "reservation_id", event.ReservationID)
		return nil
	}

	if err := n.mailer.Send(ctx, email); err != nil {
		return kafka.NewTransientError("failed to send notification", err)
	}
	n.log.Info("Notification sent",
		"type", event.Type,
		"reservation_id", event.ReservationID,
		"correlation_id", msg.GetCorrelationID(),
	)
	return nil
}

func (n *Notifier) compose(event events.ReservationEvent) (Email, bool) {
	var subject, intro string
	switch event.Type {
	case events.TypeReservationCreated:
		subject = "Nouvelle demande de réservation"
		intro = "Une nouvelle demande de réservation a été reçue."
	case events.TypeReservationStatusChanged:
		if event.Status == event.PreviousStatus {
			return Email{}, false
		}
		subject = fmt.Sprintf("Réservation %s", statusLabel(event.Status))
		intro = fmt.Sprintf("Le statut de la réservation est passé de « %s » à « %s ».",
			statusLabel(event.PreviousStatus), statusLabel(event.Status))
	case events.TypeReservationReplaced:
		subject = "Réservation modifiée"
		intro = "Une réservation a été modifiée depuis l'administration."
	default:
		return Email{}, false
	}
	if n.site != "" {
		subject = fmt.Sprintf("[%s] %s", n.site, subject)
	}

	lines := []string{intro, "", "Référence : " + event.ReservationID}
	if r := event.Reservation; r != nil {
		lines = append(lines, reservationLines(r)...)
	}
	text := strings.Join(lines, "\n")

	return Email{
		To:       n.adminTo,
		Subject:  subject,
		TextPart: text,
		HTMLPart: "<p>" + strings.ReplaceAll(html.EscapeString(text), "\n", "<br>") + "</p>",
	}, true
}

func reservationLines(r *model.Reservation) []string {
	lines := []string{
		"Nom : " + r.Name,
		"Email : " + r.Email,
		"Téléphone : " + r.Phone,
		fmt.Sprintf("Séjour : du %s au %s (%s)", r.CheckIn, r.CheckOut, r.Period),
		fmt.Sprintf("Voyageurs : %d", r.Guests),
		"Forfait : " + r.PlanName,
		fmt.Sprintf("Prix : %.2f €", r.Price),
	}
	if r.Message != "" {
		lines = append(lines, "Message : "+r.Message)
	}
	return lines
}

func statusLabel(status string) string {
	switch status {
	case model.StatusPending:
		return "en attente"
	case model.StatusConfirmed:
		return "confirmée"
	case model.StatusCancelled:
		return "annulée"
	default:
		return status
	}
}
