// Package sms delivers out-of-band alert messages through the Twilio REST API.
package sms

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/meditrack/meditrack-api/pkg/config"
	"github.com/meditrack/meditrack-api/pkg/logger"
)

// ReasonNotConfigured is the Result.Error reported when credentials or a recipient are missing.
const ReasonNotConfigured = "sms not configured"

// Result mirrors the non-fatal outcome handed back to callers.
type Result struct {
	Success bool   `json:"success"`
	SID     string `json:"sid,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Sender is the escalation channel surface.
type Sender interface {
	SendCriticalAlert(ctx context.Context, hospitalName, message string) Result
}

type messageResponse struct {
	SID     string `json:"sid"`
	Status  string `json:"status"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// Client posts messages to one configured recipient.
type Client struct {
	http       *resty.Client
	accountSID string
	from       string
	recipient  string
	enabled    bool
	logg       *logger.Logger
}

func NewClient(cfg config.SMSConfig, logg *logger.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(timeout).
		SetBasicAuth(cfg.AccountSID, cfg.AuthToken).
		SetHeader("Accept", "application/json")

	return &Client{
		http:       httpClient,
		accountSID: cfg.AccountSID,
		from:       cfg.FromNumber,
		recipient:  strings.TrimSpace(cfg.DistrictOfficePhone),
		enabled:    cfg.Configured(),
		logg:       logg,
	}
}

// Enabled reports whether credentials and a recipient are present.
func (c *Client) Enabled() bool {
	return c != nil && c.enabled && c.recipient != ""
}

// SendCriticalAlert formats and sends a critical alert to the district officer.
// It never returns an error; failures are reported in the Result.
func (c *Client) SendCriticalAlert(ctx context.Context, hospitalName, message string) Result {
	if !c.Enabled() {
		if c != nil && c.logg != nil {
			c.logg.Info(ctx, "sms.skipped_not_configured")
		}
		return Result{Success: false, Error: ReasonNotConfigured}
	}
	return c.Send(ctx, c.recipient, FormatCriticalAlert(hospitalName, message))
}

// Send delivers body to the given E.164 number.
func (c *Client) Send(ctx context.Context, to, body string) Result {
	if c == nil || !c.enabled {
		return Result{Success: false, Error: ReasonNotConfigured}
	}

	var ok, failed messageResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"To":   to,
			"From": c.from,
			"Body": body,
		}).
		SetResult(&ok).
		SetError(&failed).
		Post(fmt.Sprintf("/2010-04-01/Accounts/%s/Messages.json", c.accountSID))
	if err != nil {
		c.logError(ctx, "sms.send_failed", err)
		return Result{Success: false, Error: err.Error()}
	}
	if resp.IsError() {
		msg := failed.Message
		if msg == "" {
			msg = fmt.Sprintf("twilio returned status %d", resp.StatusCode())
		}
		c.logError(ctx, "sms.send_rejected", fmt.Errorf("%s", msg))
		return Result{Success: false, Error: msg}
	}

	if c.logg != nil {
		c.logg.Info(c.logg.WithField(ctx, "sms_sid", ok.SID), "sms.sent")
	}
	return Result{Success: true, SID: ok.SID}
}

func (c *Client) logError(ctx context.Context, msg string, err error) {
	if c.logg != nil {
		c.logg.Error(ctx, msg, err)
	}
}

// FormatCriticalAlert renders the SMS body sent for a critical alert.
func FormatCriticalAlert(hospitalName, message string) string {
	return fmt.Sprintf("CRITICAL ALERT - %s\n\n%s\n\nMediTrack System", hospitalName, message)
}
