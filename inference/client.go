// Package inference is the boundary to the external audio classification
// pipeline. The service only consumes it as "given audio, return a label and
// a confidence"; feature extraction and model internals live elsewhere.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/itzjapcee-code/mosquito-tracker/logging"
)

// Result is one classification outcome.
type Result struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Classifier classifies raw audio with a named model.
type Classifier interface {
	Classify(ctx context.Context, audio []byte, model string) (*Result, error)
}

// HTTPClassifier calls the external inference service over HTTP, guarded by a
// circuit breaker so a dead pipeline fails fast instead of stalling every
// request.
type HTTPClassifier struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

func NewHTTPClassifier(baseURL string) *HTTPClassifier {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "InferenceServiceCB",
		MaxRequests: 1,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})
	return &HTTPClassifier{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
		breaker: breaker,
	}
}

// Classify posts the audio to the inference service and decodes the label and
// confidence it returns.
func (c *HTTPClassifier) Classify(ctx context.Context, audio []byte, model string) (*Result, error) {
	body, err := c.breaker.Execute(func() (interface{}, error) {
		url := fmt.Sprintf("%s/classify?model=%s", c.baseURL, model)
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(audio))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "audio/wav")

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("inference service returned status %d", resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	})
	if err != nil {
		return nil, fmt.Errorf("inference call failed: %v", err)
	}

	var result Result
	if err := json.Unmarshal(body.([]byte), &result); err != nil {
		return nil, fmt.Errorf("failed to decode inference result: %v", err)
	}
	if result.Confidence < 0 || result.Confidence > 1 {
		return nil, fmt.Errorf("inference confidence out of range: %f", result.Confidence)
	}
	return &result, nil
}
