package callmebot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// Practical limit the gateway accepts per message.
	MaxMessageLength = 4096

	defaultTimeout = 30 * time.Second
)

var nonDigits = regexp.MustCompile(`[^0-9]`)

// Client wraps the CallMeBot HTTP relay gateway. One outbound GET per
// message, no retries; a failed send is reported once.
type Client struct {
	httpClient *http.Client
	baseURL    string
	batchDelay time.Duration
}

func New(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		batchDelay: time.Second,
	}
}

// CleanPhoneNumber strips everything but digits from a raw phone number.
// Fails if fewer than 10 digits remain.
func CleanPhoneNumber(raw string) (string, error) {
	cleaned := nonDigits.ReplaceAllString(raw, "")
	if len(cleaned) < 10 {
		return "", fmt.Errorf("phone number too short after cleaning: %q", raw)
	}
	return cleaned, nil
}

// MessageCheck reports whether a message fits the gateway limit. The
// preview is the truncated variant; the caller decides whether to use it,
// outgoing messages are never truncated here.
type MessageCheck struct {
	Length  int    `json:"length"`
	TooLong bool   `json:"tooLong"`
	Preview string `json:"preview,omitempty"`
}

// CheckMessage validates message text against gateway constraints.
func CheckMessage(text string) (MessageCheck, error) {
	if strings.TrimSpace(text) == "" {
		return MessageCheck{}, errors.New("message text is empty")
	}

	check := MessageCheck{Length: len(text)}
	if len(text) > MaxMessageLength {
		check.TooLong = true
		// Back up to a rune boundary so the cut never splits an emoji.
		cut := MaxMessageLength - 3
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		check.Preview = text[:cut] + "..."
	}
	return check, nil
}

// SendWhatsApp delivers one message through the gateway. Any non-2xx
// status, transport error or timeout is a failure. Returns the gateway's
// reply body, JSON-decoded when possible, raw text otherwise.
func (c *Client) SendWhatsApp(ctx context.Context, phone, message, apiKey string) (string, error) {
	cleaned, err := CleanPhoneNumber(phone)
	if err != nil {
		return "", err
	}
	if _, err := CheckMessage(message); err != nil {
		return "", err
	}
	if apiKey == "" {
		return "", errors.New("api key is required")
	}

	params := url.Values{}
	params.Set("phone", cleaned)
	params.Set("text", message)
	params.Set("apikey", apiKey)

	endpoint := c.baseURL + "/whatsapp.php?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	body := decodeBody(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return body, fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, body)
	}

	return body, nil
}

// Status probes gateway reachability.
func (c *Client) Status(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}
	return nil
}

// BatchMessage is one entry of a batch send.
type BatchMessage struct {
	PhoneNumber string
	Message     string
	APIKey      string
}

// BatchResult is the outcome for one batch entry.
type BatchResult struct {
	PhoneNumber string `json:"phoneNumber"`
	Success     bool   `json:"success"`
	Response    string `json:"response,omitempty"`
	Error       string `json:"error,omitempty"`
}

// BatchReport aggregates a whole batch.
type BatchReport struct {
	Total      int           `json:"total"`
	Successful int           `json:"successful"`
	Failed     int           `json:"failed"`
	Results    []BatchResult `json:"results"`
}

// SendBatch sends messages one at a time, pausing between sends to stay
// under the gateway's rate limit. One item's failure does not abort the
// rest of the batch.
func (c *Client) SendBatch(ctx context.Context, messages []BatchMessage) BatchReport {
	report := BatchReport{Total: len(messages)}

	for i, msg := range messages {
		if i > 0 && c.batchDelay > 0 {
			select {
			case <-ctx.Done():
				report.Failed += len(messages) - i
				for _, rest := range messages[i:] {
					report.Results = append(report.Results, BatchResult{
						PhoneNumber: rest.PhoneNumber,
						Error:       ctx.Err().Error(),
					})
				}
				return report
			case <-time.After(c.batchDelay):
			}
		}

		result := BatchResult{PhoneNumber: msg.PhoneNumber}
		reply, err := c.SendWhatsApp(ctx, msg.PhoneNumber, msg.Message, msg.APIKey)
		if err != nil {
			result.Error = err.Error()
			report.Failed++
		} else {
			result.Success = true
			result.Response = reply
			report.Successful++
		}
		report.Results = append(report.Results, result)
	}

	return report
}

func decodeBody(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 64*1024))
	if err != nil {
		return ""
	}

	var decoded interface{}
	if json.Unmarshal(raw, &decoded) == nil {
		if compact, err := json.Marshal(decoded); err == nil {
			return string(compact)
		}
	}
	return strings.TrimSpace(string(raw))
}
