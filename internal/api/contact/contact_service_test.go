package contact

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akbarkhoja/portfolio-api/config"
	"github.com/akbarkhoja/portfolio-api/internal/api"
	"github.com/akbarkhoja/portfolio-api/internal/types"
)

// fakeMailer records delivered messages; fail makes every send error.
type fakeMailer struct {
	mu   sync.Mutex
	sent []Message
	fail error
}

func (f *fakeMailer) Send(ctx context.Context, msg Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	f.sent = append(f.sent, msg)
	return nil
}

func testSMTPConfig() config.SMTPConfig {
	return config.SMTPConfig{
		From:         "noreply@akbarkhoja.dev",
		ContactEmail: "owner@akbarkhoja.dev",
		OwnerName:    "Akbar Khoja",
	}
}

func validForm() types.ContactForm {
	return types.ContactForm{
		Name:    "Alice",
		Email:   "alice@example.com",
		Subject: "Project inquiry",
		Message: "Hello,\nI'd like to build a site.",
	}
}

func TestSubmit(t *testing.T) {
	logger := slog.Default()

	t.Run("SendsNotificationAndAutoReply", func(t *testing.T) {
		mailer := &fakeMailer{}
		service := NewContactService(mailer, testSMTPConfig(), logger)

		require.NoError(t, service.Submit(context.Background(), validForm()))
		require.Len(t, mailer.sent, 2)

		byRecipient := map[string]Message{}
		for _, m := range mailer.sent {
			byRecipient[m.To] = m
		}

		notification, ok := byRecipient["owner@akbarkhoja.dev"]
		require.True(t, ok, "owner notification missing")
		assert.Equal(t, "New Contact: Project inquiry - Alice", notification.Subject)
		assert.Equal(t, "alice@example.com", notification.ReplyTo)
		assert.Contains(t, notification.HTML, "alice@example.com")
		// Newlines in the message body become line breaks.
		assert.Contains(t, notification.HTML, "Hello,<br>")

		reply, ok := byRecipient["alice@example.com"]
		require.True(t, ok, "auto-reply missing")
		assert.Equal(t, "Thank you for reaching out, Alice!", reply.Subject)
		assert.Contains(t, reply.HTML, "Akbar Khoja")
	})

	t.Run("OptionalProjectFieldsIncluded", func(t *testing.T) {
		mailer := &fakeMailer{}
		service := NewContactService(mailer, testSMTPConfig(), logger)

		form := validForm()
		form.ProjectType = "Web App"
		form.Budget = "$5k"
		form.Timeline = "2 months"

		require.NoError(t, service.Submit(context.Background(), form))
		require.Len(t, mailer.sent, 2)
		for _, m := range mailer.sent {
			assert.Contains(t, m.HTML, "Web App")
			assert.Contains(t, m.HTML, "$5k")
			assert.Contains(t, m.HTML, "2 months")
		}
	})

	t.Run("InvalidEmailRejected", func(t *testing.T) {
		mailer := &fakeMailer{}
		service := NewContactService(mailer, testSMTPConfig(), logger)

		form := validForm()
		form.Email = "not-an-email"

		err := service.Submit(context.Background(), form)
		assert.ErrorIs(t, err, api.ErrValidation)
		assert.Empty(t, mailer.sent)
	})

	t.Run("MissingFieldsRejected", func(t *testing.T) {
		mailer := &fakeMailer{}
		service := NewContactService(mailer, testSMTPConfig(), logger)

		err := service.Submit(context.Background(), types.ContactForm{Email: "alice@example.com"})
		assert.ErrorIs(t, err, api.ErrValidation)
		assert.Empty(t, mailer.sent)
	})

	t.Run("DeliveryFailureSurfaces", func(t *testing.T) {
		mailer := &fakeMailer{fail: errors.New("smtp: connection refused")}
		service := NewContactService(mailer, testSMTPConfig(), logger)

		err := service.Submit(context.Background(), validForm())
		require.Error(t, err)
		assert.NotErrorIs(t, err, api.ErrValidation)
	})

	t.Run("HTMLInMessageEscaped", func(t *testing.T) {
		mailer := &fakeMailer{}
		service := NewContactService(mailer, testSMTPConfig(), logger)

		form := validForm()
		form.Message = `<script>alert("x")</script>`

		require.NoError(t, service.Submit(context.Background(), form))
		for _, m := range mailer.sent {
			assert.NotContains(t, m.HTML, "<script>")
		}
	})
}
