package services

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/rpupo63/studio-site-backend/models"
	"github.com/rs/zerolog/log"
)

const leadPreviewLength = 140

type emailer interface {
	Send(ctx context.Context, email Email) (string, error)
}

type texter interface {
	Send(ctx context.Context, body string) (string, error)
}

// SettingsReader yields the company settings, whose email receives lead alerts.
type SettingsReader interface {
	Get(ctx context.Context) (*models.CompanySettings, error)
}

// LeadNotifier tells the studio about a new lead over every configured
// channel. A failing channel does not stop the others.
type LeadNotifier struct {
	settings SettingsReader
	email    emailer
	sms      texter
	adminURL string
}

// NewLeadNotifier wires the channels that are configured; nil senders are skipped.
func NewLeadNotifier(settings SettingsReader, email *EmailSender, sms *SMSSender, adminURL string) *LeadNotifier {
	n := &LeadNotifier{settings: settings, adminURL: adminURL}
	if email != nil {
		n.email = email
	}
	if sms != nil {
		n.sms = sms
	}
	return n
}

// Channels lists the enabled channel names.
func (n *LeadNotifier) Channels() []string {
	var channels []string
	if n.email != nil {
		channels = append(channels, "email")
	}
	if n.sms != nil {
		channels = append(channels, "sms")
	}
	return channels
}

// Notify sends the alert for lead. projectName may be empty.
func (n *LeadNotifier) Notify(ctx context.Context, lead *models.Lead, projectName string) error {
	var failures []error
	var sent []string

	if n.email != nil {
		if err := n.sendEmail(ctx, lead, projectName); err != nil {
			log.Error().Err(err).Str("leadId", lead.ID.String()).Msg("Failed to email lead notification")
			failures = append(failures, fmt.Errorf("email: %w", err))
		} else {
			sent = append(sent, "email")
		}
	}

	if n.sms != nil {
		if _, err := n.sms.Send(ctx, leadSMSBody(lead, projectName)); err != nil {
			log.Error().Err(err).Str("leadId", lead.ID.String()).Msg("Failed to text lead notification")
			failures = append(failures, fmt.Errorf("sms: %w", err))
		} else {
			sent = append(sent, "sms")
		}
	}

	if len(sent) > 0 {
		log.Info().Strs("channels", sent).Str("leadId", lead.ID.String()).Msg("Lead notification sent")
	}
	return errors.Join(failures...)
}

func (n *LeadNotifier) sendEmail(ctx context.Context, lead *models.Lead, projectName string) error {
	settings, err := n.settings.Get(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	subject := "New lead from " + lead.Name
	if projectName != "" {
		subject += " about " + projectName
	}

	_, err = n.email.Send(ctx, Email{
		To:      []string{settings.CompanyEmail},
		Subject: subject,
		Html:    leadEmailHTML(lead, projectName, BuildAdminLeadURL(n.adminURL, lead.ID.String())),
		ReplyTo: lead.Email,
	})
	return err
}

func leadEmailHTML(lead *models.Lead, projectName, link string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p><strong>%s</strong> &lt;%s&gt;</p>", html.EscapeString(lead.Name), html.EscapeString(lead.Email))
	if projectName != "" {
		fmt.Fprintf(&b, "<p>Project: %s</p>", html.EscapeString(projectName))
	}
	fmt.Fprintf(&b, "<p>%s</p>", html.EscapeString(lead.Message))
	if link != "" {
		fmt.Fprintf(&b, `<p><a href="%s">Open in admin</a></p>`, html.EscapeString(link))
	}
	return b.String()
}

func leadSMSBody(lead *models.Lead, projectName string) string {
	about := ""
	if projectName != "" {
		about = " (" + projectName + ")"
	}
	return fmt.Sprintf("New lead%s: %s <%s>: %s", about, lead.Name, lead.Email, Truncate(lead.Message, leadPreviewLength))
}
