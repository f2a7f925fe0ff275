// Package notifier delivers generated summaries to a recipient through
// the EmailJS transactional-email API.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/repodigest/repodigest/internal/config"
	"github.com/repodigest/repodigest/internal/repourl"
)

const (
	defaultEndpoint = "https://api.emailjs.com/api/v1.0/email/send"
	requestTimeout  = 30 * time.Second

	// fallbackRepoLabel is used when the originating URL cannot be
	// resolved to a repository name.
	fallbackRepoLabel = "GitHub Repository"
)

// Notifier sends a summary to a recipient.
type Notifier interface {
	Send(ctx context.Context, recipient, summary, originURL string) error
}

// EmailJSClient is the concrete Notifier backed by EmailJS.
type EmailJSClient struct {
	cfg        config.EmailJS
	endpoint   string
	httpClient *http.Client
	logger     *log.Logger
	now        func() time.Time
}

// NewEmailJSClient creates a client using a pre-registered EmailJS
// service/template/account triple.
func NewEmailJSClient(cfg config.EmailJS, logger *log.Logger) (*EmailJSClient, error) {
	if cfg.ServiceID == "" || cfg.TemplateID == "" || cfg.PublicKey == "" {
		return nil, errors.New("emailjs service, template, and public key must all be configured")
	}
	return &EmailJSClient{
		cfg:        cfg,
		endpoint:   defaultEndpoint,
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     logger,
		now:        time.Now,
	}, nil
}

type sendRequest struct {
	ServiceID      string         `json:"service_id"`
	TemplateID     string         `json:"template_id"`
	UserID         string         `json:"user_id"`
	TemplateParams templateParams `json:"template_params"`
}

type templateParams struct {
	ToEmail  string `json:"to_email"`
	Summary  string `json:"summary"`
	RepoName string `json:"repo_name"`
	Date     string `json:"date"`
}

// Send delivers the summary. The user has no other notification channel,
// so any non-success response is surfaced verbatim rather than softened.
func (c *EmailJSClient) Send(ctx context.Context, recipient, summary, originURL string) error {
	label := fallbackRepoLabel
	if ref, ok := repourl.Parse(originURL); ok && ref.Label != "" {
		label = ref.Label
	}

	payload, err := json.Marshal(sendRequest{
		ServiceID:  c.cfg.ServiceID,
		TemplateID: c.cfg.TemplateID,
		UserID:     c.cfg.PublicKey,
		TemplateParams: templateParams{
			ToEmail:  recipient,
			Summary:  summary,
			RepoName: label,
			Date:     c.now().Format("1/2/2006"),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to encode email request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Printf("Sending summary email to %s for %s", recipient, label)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call email API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("failed to send email: %s", resp.Status)
	}
	c.logger.Println("Email sent successfully")
	return nil
}
