package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"marvin/internal/capability"
	"marvin/internal/logging"
)

// maxFetchBytes caps how much of a response body is returned to the model.
const maxFetchBytes = 64 * 1024

// NewWebCapability builds the URL-fetch capability. client may be nil, in
// which case a default client with a 30s timeout is used.
func NewWebCapability(client *http.Client) *capability.Capability {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &capability.Capability{
		Name:             "web",
		SupportedActions: []string{"fetch"},
		RequiredParams:   []string{"url"},
		Description:      "Fetches the contents of a URL.",
		Examples: map[string]string{
			"fetch": `<capability name="web" action="fetch" url="https://example.com" />`,
		},
		Handler: func(ctx context.Context, params map[string]string, content string) (string, error) {
			url := params["url"]
			if url == "" {
				url = strings.TrimSpace(content)
			}
			if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
				url = "https://" + url
			}

			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return "", fmt.Errorf("invalid url %q: %w", url, err)
			}
			req.Header.Set("User-Agent", "marvin/1.0")

			resp, err := client.Do(req)
			if err != nil {
				return "", fmt.Errorf("fetch failed: %w", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return "", fmt.Errorf("fetch failed: HTTP %s", resp.Status)
			}

			body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
			if err != nil {
				return "", fmt.Errorf("reading response: %w", err)
			}

			logging.Dispatch("Fetched %d bytes from %s", len(body), url)
			return string(body), nil
		},
	}
}
