// Package classifier talks to the external text-classification and
// entity-extraction endpoints. Any non-200 response is a hard failure that
// aborts the sync pass in progress.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

type Client struct {
	classifyEndpoint string
	extractEndpoint  string
	httpClient       *http.Client
}

func NewClient(classifyEndpoint, extractEndpoint string) *Client {
	return &Client{
		classifyEndpoint: classifyEndpoint,
		extractEndpoint:  extractEndpoint,
		httpClient:       &http.Client{},
	}
}

type textRequest struct {
	Text string `json:"text"`
}

func (c *Client) post(ctx context.Context, endpoint, text string) ([]byte, error) {
	body, err := json.Marshal(textRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upstream error (%d): %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}

// Classify sends normalized text to the classification endpoint. Two
// response shapes are in the wild: the current object shape
// {"category": ..., "confidence": ...} and the legacy array of scored labels
// [{"Name": ..., "Score": ...}], from which the highest score wins.
func (c *Client) Classify(ctx context.Context, text string) (*Result, error) {
	respBody, err := c.post(ctx, c.classifyEndpoint, text)
	if err != nil {
		return nil, err
	}

	result := &Result{Raw: json.RawMessage(respBody)}

	var scores []ScoredLabel
	if err := json.Unmarshal(respBody, &scores); err == nil {
		best := ScoredLabel{Score: 0}
		for _, label := range scores {
			if label.Score > best.Score {
				best = label
			}
		}
		result.Category = best.Name
		result.Score = best.Score
		return result, nil
	}

	var payload struct {
		Category   string  `json:"category"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal(respBody, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse classification response: %w", err)
	}

	result.Category = payload.Category
	result.Score = payload.Confidence
	return result, nil
}

// ExtractEntities sends normalized text to the entity-extraction endpoint
// and returns the recognized entities in upstream order.
func (c *Client) ExtractEntities(ctx context.Context, text string) ([]Entity, error) {
	respBody, err := c.post(ctx, c.extractEndpoint, text)
	if err != nil {
		return nil, err
	}

	var raw []wireEntity
	if err := json.Unmarshal(respBody, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse entity response: %w", err)
	}

	return parseEntities(raw), nil
}
