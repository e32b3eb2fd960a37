package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cerradowatch/fire-risk-chat/internal/domain"
	"github.com/cerradowatch/fire-risk-chat/internal/observability"
)

// Client implements domain.Predictor against the model-serving HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a predictor client.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		metrics: metrics,
	}
}

type predictRequest struct {
	Region         string  `json:"region"`
	Year           int     `json:"year"`
	Month          int     `json:"month"`
	HistoricalMean float64 `json:"historical_mean"`
}

type predictResponse struct {
	Predicted float64 `json:"predicted"`
}

// Predict requests an on-demand estimate for (region, period). historicalMean
// anchors the model when it has no better signal for the region.
func (c *Client) Predict(ctx context.Context, region string, p domain.Period, historicalMean float64) (float64, error) {
	payload, err := json.Marshal(predictRequest{
		Region:         region,
		Year:           p.Year,
		Month:          p.Month,
		HistoricalMean: historicalMean,
	})
	if err != nil {
		return 0, fmt.Errorf("encode predict request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.PredictorRequests.WithLabelValues("error").Inc()
		return 0, fmt.Errorf("predict request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.metrics.PredictorRequests.WithLabelValues("error").Inc()
		return 0, fmt.Errorf("predictor API error: status %d: %s", resp.StatusCode, body)
	}

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		c.metrics.PredictorRequests.WithLabelValues("error").Inc()
		return 0, fmt.Errorf("decode response: %w", err)
	}
	if out.Predicted < 0 {
		c.metrics.PredictorRequests.WithLabelValues("error").Inc()
		return 0, fmt.Errorf("predictor returned negative value %f", out.Predicted)
	}

	c.metrics.PredictorRequests.WithLabelValues("success").Inc()
	return out.Predicted, nil
}
