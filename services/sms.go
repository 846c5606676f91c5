package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ostech-hub/config"
	apperrors "ostech-hub/errors"
	"ostech-hub/logger"
)

// SMSClient sends messages through the Africa's Talking messaging API.
type SMSClient struct {
	apiKey   string
	username string
	baseURL  string
	client   *http.Client
}

// NewSMSClient builds an SMS client from configuration. Missing credentials
// are reported on Send, not here, so the service can run without SMS in
// development.
func NewSMSClient(cfg *config.Config) *SMSClient {
	return &SMSClient{
		apiKey:   cfg.SMSAPIKey,
		username: cfg.SMSUsername,
		baseURL:  strings.TrimSuffix(cfg.SMSBaseURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type smsResponse struct {
	SMSMessageData struct {
		Message    string `json:"Message"`
		Recipients []struct {
			Number string `json:"number"`
			Status string `json:"status"`
		} `json:"Recipients"`
	} `json:"SMSMessageData"`
}

// Send delivers one SMS to an international-format phone number. It returns
// an error for configuration problems, transport failures and gateway
// rejections alike; callers treat all of them as "not sent".
func (c *SMSClient) Send(ctx context.Context, phoneNumber, message string) error {
	if c.apiKey == "" || c.username == "" {
		return apperrors.NewConfigError("Africa's Talking credentials not configured")
	}

	form := url.Values{}
	form.Set("username", c.username)
	form.Set("to", phoneNumber)
	form.Set("message", message)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/version1/messaging", strings.NewReader(form.Encode()))
	if err != nil {
		return apperrors.E(apperrors.Notification, "error building SMS request", err)
	}
	req.Header.Set("apiKey", c.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return apperrors.E(apperrors.Notification, "error sending SMS", err)
	}
	defer resp.Body.Close()

	var result smsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return apperrors.E(apperrors.Notification, "error decoding SMS gateway response", err)
	}

	recipients := result.SMSMessageData.Recipients
	if len(recipients) == 0 || recipients[0].Status != "Success" {
		status := result.SMSMessageData.Message
		if len(recipients) > 0 {
			status = recipients[0].Status
		}
		return apperrors.NewNotificationError(fmt.Sprintf("SMS sending failed: %s", status))
	}

	logger.Info("SMS sent successfully to: %s", phoneNumber)
	return nil
}
