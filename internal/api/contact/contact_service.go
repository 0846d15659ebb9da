package contact

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/akbarkhoja/portfolio-api/app/observability/metrics"
	"github.com/akbarkhoja/portfolio-api/config"
	"github.com/akbarkhoja/portfolio-api/internal/api"
	"github.com/akbarkhoja/portfolio-api/internal/types"
)

var _ ContactService = (*ContactServiceImpl)(nil)

type ContactService interface {
	// Submit validates the form and relays it: a notification to the
	// site owner and an auto-reply to the sender. Nothing is persisted.
	Submit(ctx context.Context, form types.ContactForm) error
}

type ContactServiceImpl struct {
	logger   *slog.Logger
	mailer   Mailer
	cfg      config.SMTPConfig
	validate *validator.Validate
}

func NewContactService(mailer Mailer, cfg config.SMTPConfig, logger *slog.Logger) *ContactServiceImpl {
	return &ContactServiceImpl{
		logger:   logger,
		mailer:   mailer,
		cfg:      cfg,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (s *ContactServiceImpl) Submit(ctx context.Context, form types.ContactForm) error {
	if err := s.validate.Struct(form); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			field := strings.ToLower(verrs[0].Field())
			metrics.RecordContactSubmission(false)
			return api.ValidationError(fmt.Sprintf("invalid %s", field))
		}
		metrics.RecordContactSubmission(false)
		return api.ValidationError("invalid contact form")
	}

	// Both deliveries in flight at once; either failure fails the
	// submission.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.mailer.Send(gctx, s.ownerNotification(form))
	})
	g.Go(func() error {
		return s.mailer.Send(gctx, s.autoReply(form))
	})
	if err := g.Wait(); err != nil {
		metrics.RecordContactSubmission(false)
		s.logger.ErrorContext(ctx, "Contact relay failed", slog.Any("error", err))
		return fmt.Errorf("contact relay: %w", err)
	}

	metrics.RecordContactSubmission(true)
	s.logger.InfoContext(ctx, "Contact form relayed", slog.String("subject", form.Subject))
	return nil
}

func (s *ContactServiceImpl) ownerNotification(form types.ContactForm) Message {
	var b strings.Builder
	fmt.Fprintf(&b, `<h1>New Contact Form Submission</h1>`)
	fmt.Fprintf(&b, `<h2>Contact Details</h2>`)
	fmt.Fprintf(&b, `<p><strong>Name:</strong> %s</p>`, html.EscapeString(form.Name))
	fmt.Fprintf(&b, `<p><strong>Email:</strong> <a href="mailto:%s">%s</a></p>`,
		html.EscapeString(form.Email), html.EscapeString(form.Email))
	fmt.Fprintf(&b, `<p><strong>Subject:</strong> %s</p>`, html.EscapeString(form.Subject))

	if form.ProjectType != "" || form.Budget != "" || form.Timeline != "" {
		b.WriteString(`<h2>Project Details</h2>`)
		if form.ProjectType != "" {
			fmt.Fprintf(&b, `<p><strong>Project Type:</strong> %s</p>`, html.EscapeString(form.ProjectType))
		}
		if form.Budget != "" {
			fmt.Fprintf(&b, `<p><strong>Budget:</strong> %s</p>`, html.EscapeString(form.Budget))
		}
		if form.Timeline != "" {
			fmt.Fprintf(&b, `<p><strong>Timeline:</strong> %s</p>`, html.EscapeString(form.Timeline))
		}
	}

	b.WriteString(`<h2>Message</h2>`)
	fmt.Fprintf(&b, `<p>%s</p>`, htmlMessage(form.Message))
	fmt.Fprintf(&b, `<hr><p>This message was sent from your portfolio contact form at %s</p>`,
		time.Now().Format(time.RFC1123))

	return Message{
		To:      s.cfg.ContactEmail,
		ReplyTo: form.Email,
		Subject: fmt.Sprintf("New Contact: %s - %s", form.Subject, form.Name),
		HTML:    b.String(),
	}
}

func (s *ContactServiceImpl) autoReply(form types.ContactForm) Message {
	var b strings.Builder
	b.WriteString(`<h1>Thank you for reaching out!</h1>`)
	fmt.Fprintf(&b, `<p>Hi %s,</p>`, html.EscapeString(form.Name))
	fmt.Fprintf(&b, `<p>Thank you for your interest in working together! I've received your message about "<strong>%s</strong>" and I'm excited to learn more about your project.</p>`,
		html.EscapeString(form.Subject))
	b.WriteString(`<h2>What happens next?</h2><ul>`)
	b.WriteString(`<li>I'll review your message within 24 hours</li>`)
	b.WriteString(`<li>I'll send you a detailed response with next steps</li>`)
	b.WriteString(`<li>We can schedule a free consultation call if needed</li>`)
	b.WriteString(`</ul>`)

	b.WriteString(`<h2>Your Message Summary</h2>`)
	if form.ProjectType != "" {
		fmt.Fprintf(&b, `<p><strong>Project Type:</strong> %s</p>`, html.EscapeString(form.ProjectType))
	}
	if form.Budget != "" {
		fmt.Fprintf(&b, `<p><strong>Budget:</strong> %s</p>`, html.EscapeString(form.Budget))
	}
	if form.Timeline != "" {
		fmt.Fprintf(&b, `<p><strong>Timeline:</strong> %s</p>`, html.EscapeString(form.Timeline))
	}
	fmt.Fprintf(&b, `<p>%s</p>`, htmlMessage(form.Message))

	fmt.Fprintf(&b, `<p>Best regards,<br><strong>%s</strong></p>`, html.EscapeString(s.cfg.OwnerName))
	b.WriteString(`<hr><p>This is an automated response. Please don't reply to this email directly.</p>`)

	return Message{
		To:      form.Email,
		Subject: fmt.Sprintf("Thank you for reaching out, %s!", form.Name),
		HTML:    b.String(),
	}
}

func htmlMessage(message string) string {
	return strings.ReplaceAll(html.EscapeString(message), "\n", "<br>")
}
