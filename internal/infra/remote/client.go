package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"newsquiz/internal/domain"
	"newsquiz/internal/logger"
)

// Client loads the full question dataset from the aggregation API.
type Client struct {
	url    string
	client *http.Client
	log    *logger.Logger
}

// NewClient constructs a client for url with a request timeout.
func NewClient(url string, timeout time.Duration, log *logger.Logger) *Client {
	return &Client{
		url:    url,
		client: &http.Client{Timeout: timeout},
		log:    logger.OrNop(log),
	}
}

// LoadDataset implements app.DatasetSource.
func (c *Client) LoadDataset(ctx context.Context) (domain.Dataset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch quiz dataset: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read quiz dataset: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("quiz dataset request failed with status %d", resp.StatusCode)
	}

	records, err := DecodeRecords(body)
	if err != nil {
		return nil, err
	}
	ds, skipped := domain.DatasetFromRecords(records)
	if len(skipped) > 0 {
		c.log.Debug("skipped records with unknown game type", "gameTypes", skipped)
	}
	return ds, nil
}

// DecodeRecords accepts a bare record array or a gateway envelope whose body is the array or a
// JSON string holding it.
func DecodeRecords(payload []byte) ([]domain.QuizRecord, error) {
	payload = bytes.TrimSpace(payload)
	if len(payload) > 0 && payload[0] == '[' {
		return decodeArray(payload)
	}

	var envelope struct {
		Body json.RawMessage `json:"body"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, fmt.Errorf("decode quiz dataset: %w", err)
	}
	body := bytes.TrimSpace(envelope.Body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return nil, fmt.Errorf("decode quiz dataset: no records in payload")
	}
	if body[0] == '"' {
		var inner string
		if err := json.Unmarshal(body, &inner); err != nil {
			return nil, fmt.Errorf("decode quiz dataset body: %w", err)
		}
		body = []byte(inner)
	}
	return decodeArray(body)
}

func decodeArray(raw []byte) ([]domain.QuizRecord, error) {
	var records []domain.QuizRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode quiz records: %w", err)
	}
	return records, nil
}
