package campus

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cadudev/timetable_bot/internal/model"
	"go.uber.org/zap"
)

// StatusError ответ сервера с кодом, отличным от 200.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("campus dual returned status %d", e.Code)
}

// ClientConfig параметры подключения к Campus Dual.
type ClientConfig struct {
	BaseURL string
	UserID  string
	Hash    string
	Timeout time.Duration
	// InsecureSkipVerify отключает проверку TLS сертификата.
	// Явный opt-in, по умолчанию сертификат проверяется.
	InsecureSkipVerify bool
}

// Client клиент эндпоинта room/json самообслуживания Campus Dual.
// Ретраев нет: политика повторов остаётся за вызывающей стороной.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userID     string
	hash       string
	logger     *zap.Logger
}

// NewClient создаёт клиент Campus Dual.
func NewClient(cfg ClientConfig, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	transport := http.DefaultTransport
	if cfg.InsecureSkipVerify {
		logger.Warn("TLS certificate verification is DISABLED for Campus Dual requests")
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		baseURL: cfg.BaseURL,
		userID:  cfg.UserID,
		hash:    cfg.Hash,
		logger:  logger,
	}
}

// FetchEntries запрашивает полный список занятий.
// Сервер отвечает либо голым JSON-массивом, либо объектом {"entries": [...]}.
func (c *Client) FetchEntries(ctx context.Context) ([]model.ScheduleEntry, error) {
	reqURL := fmt.Sprintf("%s/room/json?userid=%s&hash=%s",
		c.baseURL, url.QueryEscape(c.userID), url.QueryEscape(c.hash))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch timetable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	entries, err := decodeEntries(body)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("Fetched timetable entries", zap.Int("count", len(entries)))
	return entries, nil
}

func decodeEntries(body []byte) ([]model.ScheduleEntry, error) {
	// Сначала пробуем голый массив
	var entries []model.ScheduleEntry
	if err := json.Unmarshal(body, &entries); err == nil {
		return entries, nil
	}

	// Затем обёртку с полем entries
	var wrapped struct {
		Entries []model.ScheduleEntry `json:"entries"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return wrapped.Entries, nil
}
