package devolucion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"envase-return-backend/config"
)

// Outcome is what a remote write attempt can actually tell us. The
// endpoint acknowledges nothing, so the two outcomes are "the request
// left and nothing broke on the wire" and "the transport failed".
type Outcome string

const (
	OutcomeSubmittedUnconfirmed Outcome = "submitted-unconfirmed"
	OutcomeTransportFailed      Outcome = "transport-failed"
)

// Writer posts return records to the Apps Script registration
// endpoint.
type Writer struct {
	url    string
	client *http.Client
}

// NewWriter creates a remote writer for the configured script URL.
func NewWriter(cfg *config.WriterConfig) *Writer {
	return &Writer{
		url: cfg.ScriptURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type registerPayload struct {
	Action string   `json:"action"`
	Data   []Record `json:"data"`
}

// Register sends the records as a single register action. Any response
// at all counts as submitted-unconfirmed; only a transport-level
// failure is reported, with the error describing it.
func (w *Writer) Register(ctx context.Context, records []Record) (Outcome, error) {
	body, err := json.Marshal(registerPayload{Action: "register", Data: records})
	if err != nil {
		return OutcomeTransportFailed, fmt.Errorf("failed to marshal register payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewBuffer(body))
	if err != nil {
		return OutcomeTransportFailed, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return OutcomeTransportFailed, fmt.Errorf("register request failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	return OutcomeSubmittedUnconfirmed, nil
}
