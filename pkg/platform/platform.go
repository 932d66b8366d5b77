// Package platform is the typed surface over the hosting platform CLI:
// site listing and domain lifecycle.
package platform

import (
	"context"
	"encoding/json"

	"gitlab.com/tozd/go/errors"

	"github.com/rapyd-cloud/wpmigrate/pkg/execx"
)

// Site is one hosted site as reported by the platform.
type Site struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	PrimaryDomain string `json:"primary_domain"`
	Webroot       string `json:"webroot"`
}

// Client runs platform CLI commands.
type Client struct {
	runner execx.Runner
	bin    string
}

// New creates a Client. bin is usually "rapyd".
func New(runner execx.Runner, bin string) *Client {
	if bin == "" {
		bin = "rapyd"
	}
	return &Client{runner: runner, bin: bin}
}

// ListSites returns the sites visible to the operator.
func (c *Client) ListSites(ctx context.Context) ([]Site, error) {
	out, err := c.runner.Run(ctx, execx.Command{
		Name: c.bin,
		Args: []string{"sites", "list", "--output=json"},
	})
	if err != nil {
		return nil, errors.Errorf("listing sites: %w", err)
	}

	var sites []Site
	if err := json.Unmarshal(out, &sites); err != nil {
		return nil, errors.Errorf("parsing sites list: %w", err)
	}
	return sites, nil
}

// SetPrimaryDomain assigns the primary domain of a site.
func (c *Client) SetPrimaryDomain(ctx context.Context, siteID, domain string) error {
	_, err := c.runner.Run(ctx, execx.Command{
		Name: c.bin,
		Args: []string{"domains", "set-primary", siteID, domain},
	})
	if err != nil {
		return errors.Errorf("setting primary domain: %w", err)
	}
	return nil
}
