package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/chandan-mishra846/ecommerce-backend/internal/model"
)

// maxErrorBody caps how much of a failed response is read for its message.
const maxErrorBody = 64 << 10

// apiClient performs authenticated JSON calls against a gateway REST API.
type apiClient struct {
	name       string
	baseURL    string
	httpClient *http.Client
	authorize  func(*http.Request)
}

type apiErrorBody struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
		Message     string `json:"message"`
	} `json:"error"`
}

func (c *apiClient) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(c.baseURL, "/")+path, body)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", c.name, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s request failed: %v", model.ErrGatewayUnavailable, c.name, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: %s returned status %d", model.ErrGatewayUnavailable, c.name, resp.StatusCode)
	case resp.StatusCode >= 400:
		return c.rejection(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode %s response: %v", model.ErrGatewayUnavailable, c.name, err)
	}
	return nil
}

func (c *apiClient) rejection(resp *http.Response) error {
	var body apiErrorBody
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	_ = json.Unmarshal(raw, &body)

	msg := body.Error.Description
	if msg == "" {
		msg = body.Error.Message
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return model.ErrGatewayRejected.WithMessage("%s rejected the request: %s", c.name, msg)
}
