// Package mailer sends transactional email through the Brevo HTTP API.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Anthon002/NYSCAttendance/internal/config"
)

const sendTimeout = 15 * time.Second

type brevoParty struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type brevoEmail struct {
	Sender      brevoParty   `json:"sender"`
	To          []brevoParty `json:"to"`
	Subject     string       `json:"subject"`
	HTMLContent string       `json:"htmlContent"`
}

type Brevo struct {
	conf   *config.BrevoConfig
	client *http.Client
}

func NewBrevo(conf *config.BrevoConfig) *Brevo {
	return &Brevo{
		conf:   conf,
		client: &http.Client{Timeout: sendTimeout},
	}
}

func (b *Brevo) Send(ctx context.Context, recipientEmail, recipientName, subject, htmlBody string) error {
	payload := brevoEmail{
		Sender:      brevoParty{Name: b.conf.SenderName, Email: b.conf.SenderEmail},
		To:          []brevoParty{{Name: recipientName, Email: recipientEmail}},
		Subject:     subject,
		HTMLContent: htmlBody,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("json.Marshal -> %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.conf.BaseURL+"/smtp/email", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("http.NewRequestWithContext -> %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("api-key", b.conf.APIKey)

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("b.client.Do -> %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))

		return fmt.Errorf("brevo responded with %v: %s", resp.StatusCode, detail)
	}

	return nil
}
