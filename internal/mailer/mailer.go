// Package mailer renders and sends the reservation email templates over
// SMTP.  It is consumed by the queue consumer, never by request
// handlers, so a slow or unreachable SMTP server can only ever delay
// queued mail.
package mailer

import (
    "context"
    "fmt"
    "os"
    "strconv"
    "time"

    gomail "gopkg.in/gomail.v2"

    "github.com/NizarI20/ServiceHub-sub000/internal/booking"
    "github.com/NizarI20/ServiceHub-sub000/internal/queue"
)

// Mailer holds SMTP connection settings and the sender address.
type Mailer struct {
    host string
    port int
    user string
    pass string
    from string
}

// NewFromEnv builds a Mailer from environment variables.  Supported
// variables are SMTP_HOST, SMTP_PORT, SMTP_USER, SMTP_PASS and
// MAIL_FROM; sensible localhost defaults apply when unset so that a
// development environment without mail configured still starts.
func NewFromEnv() *Mailer {
    host := os.Getenv("SMTP_HOST")
    if host == "" {
        host = "localhost"
    }
    port := 587
    if raw := os.Getenv("SMTP_PORT"); raw != "" {
        if n, err := strconv.Atoi(raw); err == nil {
            port = n
        }
    }
    from := os.Getenv("MAIL_FROM")
    if from == "" {
        from = "no-reply@servicehub.local"
    }
    return &Mailer{
        host: host,
        port: port,
        user: os.Getenv("SMTP_USER"),
        pass: os.Getenv("SMTP_PASS"),
        from: from,
    }
}

// Deliver renders the event's template and sends it.  It implements
// queue.Sender.
func (m *Mailer) Deliver(ctx context.Context, ev queue.ReservationEmailEvent) error {
    subject, body, err := Render(ev.Template, ev.ClientName, ev.ServiceTitle, ev.StartsAt)
    if err != nil {
        return err
    }
    msg := gomail.NewMessage()
    msg.SetHeader("From", m.from)
    msg.SetHeader("To", ev.To)
    msg.SetHeader("Subject", subject)
    msg.SetBody("text/plain", body)

    d := gomail.NewDialer(m.host, m.port, m.user, m.pass)
    return d.DialAndSend(msg)
}

// Render produces the subject and plain-text body for a template.  The
// date is shown as-is when it cannot be parsed so a malformed event
// still yields a readable mail.
func Render(template, clientName, serviceTitle, startsAt string) (subject, body string, err error) {
    when := startsAt
    if t, perr := time.Parse(time.RFC3339, startsAt); perr == nil {
        when = t.UTC().Format("2006-01-02 15:04")
    }
    switch template {
    case booking.TemplateReservationConfirmed:
        subject = fmt.Sprintf("Your reservation for %s is confirmed", serviceTitle)
        body = fmt.Sprintf("Hello %s,\n\nYour reservation for %q on %s has been confirmed by the provider.\n\nSee you there!\n", clientName, serviceTitle, when)
    case booking.TemplateReservationCancelled:
        subject = fmt.Sprintf("Your reservation for %s was declined", serviceTitle)
        body = fmt.Sprintf("Hello %s,\n\nUnfortunately your reservation for %q on %s was declined by the provider.\n\nYou can browse other services any time.\n", clientName, serviceTitle, when)
    case booking.TemplateReservationReminder:
        subject = fmt.Sprintf("Reminder: %s tomorrow", serviceTitle)
        body = fmt.Sprintf("Hello %s,\n\nThis is a reminder that your reservation for %q starts on %s.\n", clientName, serviceTitle, when)
    default:
        return "", "", fmt.Errorf("unknown email template %q", template)
    }
    return subject, body, nil
}
