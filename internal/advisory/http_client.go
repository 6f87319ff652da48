package advisory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spec-kit/complaint-service/internal/config"
)

// ErrDisabled is returned when no advisory endpoint is configured.
var ErrDisabled = errors.New("advisory endpoint not configured")

type httpAdvisor struct {
	url    string
	client *http.Client
}

// NewHTTPAdvisor builds an Advisor backed by a JSON-over-HTTP endpoint.
func NewHTTPAdvisor(cfg config.AdvisoryConfig) Advisor {
	return &httpAdvisor{
		url:    cfg.URL,
		client: &http.Client{Timeout: cfg.Timeout()},
	}
}

type explainResponse struct {
	Explanation string `json:"explanation"`
}

func (a *httpAdvisor) ExplainEscalation(ctx context.Context, req Request) (string, error) {
	if strings.TrimSpace(a.url) == "" {
		return "", ErrDisabled
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("advisory returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return "", err
	}

	var parsed explainResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", err
	}
	return strings.TrimSpace(parsed.Explanation), nil
}
