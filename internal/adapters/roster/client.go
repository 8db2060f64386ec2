// Package roster adapts the study roster web service to the roster client
// port. The service returns, for every enrolled participant, which site they
// attend; the pipeline rewrites its site lookup csv from that answer.
package roster

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/example/museqc/internal/core/sitelookup"
	"github.com/example/museqc/internal/ports/secondary"
)

// Client implements secondary.RosterClient over HTTP with basic auth.
type Client struct {
	url         string
	credentials string
	httpClient  *http.Client
}

var _ secondary.RosterClient = (*Client)(nil)

// NewClient creates a roster client. credentials is the "user:password" pair
// for basic auth.
func NewClient(url, credentials string) *Client {
	return &Client{
		url:         url,
		credentials: credentials,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
}

// participantSite is one entry of the roster response.
type participantSite struct {
	WestonID string `json:"wwid"`
	Site     string `json:"site"`
}

// DownloadSiteLookup fetches the roster and rewrites the site lookup csv at
// destPath.
func (c *Client) DownloadSiteLookup(ctx context.Context, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return fmt.Errorf("failed to build roster request: %w", err)
	}
	req.Header.Set("Authorization",
		"Basic "+base64.StdEncoding.EncodeToString([]byte(c.credentials)))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("roster request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("roster request returned status %s", resp.Status)
	}

	var participants []participantSite
	if err := json.NewDecoder(resp.Body).Decode(&participants); err != nil {
		return fmt.Errorf("failed to decode roster response: %w", err)
	}
	if len(participants) == 0 {
		return fmt.Errorf("roster returned no participants")
	}

	var b strings.Builder
	b.WriteString(sitelookup.Header)
	b.WriteString("\n")
	for _, p := range participants {
		fmt.Fprintf(&b, "%s,%s\n", p.WestonID, p.Site)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("failed to create lookup table directory: %w", err)
	}
	if err := os.WriteFile(destPath, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write lookup table: %w", err)
	}
	return nil
}
