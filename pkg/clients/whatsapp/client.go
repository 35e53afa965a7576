package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/bbag/minedash/internal/config"
)

// WhatsApp caps text bodies at 4096 characters.
const maxBodyLength = 4096

// Notifier delivers the scheduled analysis to a fixed WhatsApp recipient
// through the Cloud API.
type Notifier struct {
	httpClient    *resty.Client
	phoneNumberID string
	recipient     string
}

// NewNotifier builds a Cloud API client for the configured phone number.
func NewNotifier(cfg config.WhatsAppConfig) *Notifier {
	base := strings.TrimSuffix(cfg.BaseURL, "/")

	restyClient := resty.New().
		SetBaseURL(fmt.Sprintf("%s/%s", base, cfg.APIVersion)).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.AccessToken)).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &Notifier{
		httpClient:    restyClient,
		phoneNumberID: cfg.PhoneNumberID,
		recipient:     cfg.ReportRecipient,
	}
}

type textBody struct {
	Body       string `json:"body"`
	PreviewURL bool   `json:"preview_url"`
}

type messageRequest struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             textBody `json:"text"`
}

type messageResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

// apiError represents a WhatsApp Cloud API error payload.
type apiError struct {
	Error struct {
		Message   string `json:"message"`
		Type      string `json:"type"`
		Code      int    `json:"code"`
		FBTraceID string `json:"fbtrace_id"`
	} `json:"error"`
}

// Notify sends text to the configured recipient, truncated to the API limit.
func (n *Notifier) Notify(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return errors.New("whatsapp message must not be empty")
	}
	if runes := []rune(text); len(runes) > maxBodyLength {
		text = string(runes[:maxBodyLength-1]) + "…"
	}

	payload := messageRequest{
		MessagingProduct: "whatsapp",
		To:               n.recipient,
		Type:             "text",
		Text:             textBody{Body: text},
	}

	result := new(messageResponse)
	apiErr := new(apiError)

	resp, err := n.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(result).
		SetError(apiErr).
		Post(fmt.Sprintf("%s/messages", n.phoneNumberID))
	if err != nil {
		return fmt.Errorf("send whatsapp message: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		code := resp.StatusCode()
		if apiErr.Error.Code != 0 {
			code = apiErr.Error.Code
		}
		return fmt.Errorf("whatsapp api error: code=%d, message=%s", code, apiErr.Error.Message)
	}
	if len(result.Messages) == 0 {
		return errors.New("whatsapp api accepted no message")
	}

	return nil
}
