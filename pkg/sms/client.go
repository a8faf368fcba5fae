package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"phone-auth/pkg/utils"

	"go.uber.org/zap"
)

// Client talks to the SMS gateway HTTP API.
type Client struct {
	baseURL string
	apiKey  string
	from    string
	http    *http.Client
	log     *zap.Logger
}

type sendResponse struct {
	Code int `json:"code"`
	Data struct {
		MessageID string `json:"messageId"`
	} `json:"data"`
}

func NewClient(config utils.SMSConfig, log *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		apiKey:  config.APIKey,
		from:    config.From,
		http:    &http.Client{Timeout: 10 * time.Second},
		log:     log.With(zap.String("sms", "gateway")),
	}
}

func (c *Client) Send(ctx context.Context, number, code string) error {
	form := url.Values{
		"apiKey":    {c.apiKey},
		"recipient": {number},
		"text":      {fmt.Sprintf("Verification code: %s", code)},
	}
	if c.from != "" {
		form.Set("from", c.from)
	}

	endpoint := c.baseURL + "/service/message/sendsmsmessage"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build SMS request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send SMS request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read SMS response: %w", err)
	}

	var result sendResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("parse SMS response: %w", err)
	}
	if result.Code != 0 {
		return fmt.Errorf("gateway returned error code: %d", result.Code)
	}

	c.log.Info("SMS sent",
		zap.String("number", number),
		zap.String("message_id", result.Data.MessageID),
	)
	return nil
}
