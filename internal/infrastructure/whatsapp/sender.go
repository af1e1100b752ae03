// Package whatsapp is the dispatch adapter: best-effort delivery of
// generated notifications through the WhatsApp Cloud API, plus wa.me
// click-to-chat links for flows where a person does the sending.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config for the Cloud API sender.
type Config struct {
	AccessToken   string
	PhoneNumberID string
	BaseURL       string
	Timeout       time.Duration
}

// Sender posts text messages to the Cloud API. Failures are logged and
// reported as false; they are never fatal.
type Sender struct {
	cfg    Config
	client *http.Client
	log    zerolog.Logger
}

// NewSender creates a sender. Configured reports false when credentials
// are missing, in which case Send always returns false.
func NewSender(cfg Config, log zerolog.Logger) *Sender {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Sender{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
		log:    log,
	}
}

// Configured reports whether the Cloud API credentials are present.
func (s *Sender) Configured() bool {
	return s.cfg.AccessToken != "" && s.cfg.PhoneNumberID != ""
}

type textMessage struct {
	MessagingProduct string `json:"messaging_product"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Text             struct {
		Body string `json:"body"`
	} `json:"text"`
}

// Send delivers text to phone. Best effort: any failure returns false.
func (s *Sender) Send(ctx context.Context, phone, text string) bool {
	if !s.Configured() {
		s.log.Warn().Msg("whatsapp sender not configured, dropping message")
		return false
	}

	to := NormalizePhone(phone)
	if to == "" {
		s.log.Warn().Str("phone", phone).Msg("cannot dispatch to empty phone number")
		return false
	}

	msg := textMessage{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
	}
	msg.Text.Body = text

	body, err := json.Marshal(msg)
	if err != nil {
		s.log.Error().Err(err).Msg("encode whatsapp message")
		return false
	}

	endpoint := fmt.Sprintf("%s/%s/messages", strings.TrimRight(s.cfg.BaseURL, "/"), s.cfg.PhoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		s.log.Error().Err(err).Msg("build whatsapp request")
		return false
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Warn().Err(err).Str("to", to).Msg("whatsapp dispatch failed")
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		s.log.Warn().Int("status", resp.StatusCode).Str("to", to).
			Str("response", string(detail)).Msg("whatsapp dispatch rejected")
		return false
	}

	s.log.Debug().Str("to", to).Msg("whatsapp message sent")
	return true
}

// Link builds a wa.me click-to-chat URL with the message prefilled.
func Link(phone, text string) string {
	return fmt.Sprintf("https://wa.me/%s?text=%s", NormalizePhone(phone), url.QueryEscape(text))
}

// NormalizePhone strips everything but digits (including a leading +).
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
