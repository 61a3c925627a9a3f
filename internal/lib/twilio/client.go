// Package twilio отправляет SMS через REST API Twilio.
package twilio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"

	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/rentflow/internal/config"
)

// ErrNotConfigured учётные данные Twilio не заданы.
var ErrNotConfigured = errors.New("twilio is not configured")

// Client клиент Twilio Messages API.
type Client struct {
	accountSID string
	authToken  string
	from       string
	apiURL     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient создаёт клиента. Отправка ограничена cfg.TwilioRatePerSecond
// сообщениями в секунду.
func NewClient(cfg config.Twilio, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	limit := rate.Inf
	if cfg.TwilioRatePerSecond > 0 {
		limit = rate.Limit(cfg.TwilioRatePerSecond)
	}
	return &Client{
		accountSID: cfg.TwilioAccountSID,
		authToken:  cfg.TwilioAuthToken,
		from:       cfg.TwilioPhoneNumber,
		apiURL:     strings.TrimRight(cfg.TwilioBaseURL, "/"),
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, 1),
	}
}

// SendSMS отправляет текст body на номер to. Номер приводится к E.164.
func (c *Client) SendSMS(ctx context.Context, to, body string) (*MessageResponse, error) {
	const op = "twilio.SendSMS"
	if c.accountSID == "" || c.authToken == "" || c.from == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrNotConfigured)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	form := url.Values{}
	form.Set("To", FormatPhone(to))
	form.Set("From", c.from)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.apiURL, url.PathEscape(c.accountSID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.SetBasicAuth(c.accountSID, c.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: resp.Status}
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		apiErr.StatusCode = resp.StatusCode
		return nil, fmt.Errorf("%s: %w", op, apiErr)
	}

	var msg MessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&msg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &msg, nil
}

// FormatPhone приводит номер к E.164: оставляет только цифры, к десятизначному
// номеру добавляет +1, к остальным +.
func FormatPhone(phone string) string {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, phone)
	if len(digits) == 10 {
		return "+1" + digits
	}
	return "+" + digits
}
