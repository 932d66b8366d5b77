package platform

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"github.com/rapyd-cloud/wpmigrate/pkg/execx"
)

func TestClient_ListSites(t *testing.T) {
	runner := execx.NewFake()
	runner.Respond("rapyd sites list --output=json", []byte(`[
		{"id": "s-101", "name": "blog", "primary_domain": "blog.example.com", "webroot": "/var/www/blog"},
		{"id": "s-102", "name": "shop", "primary_domain": "shop.example.com", "webroot": "/var/www/shop"}
	]`), nil)

	c := New(runner, "rapyd")
	sites, err := c.ListSites(context.Background())
	require.NoError(t, err)

	require.Len(t, sites, 2)
	assert.Equal(t, "s-101", sites[0].ID)
	assert.Equal(t, "shop.example.com", sites[1].PrimaryDomain)
}

func TestClient_ListSites_BadJSON(t *testing.T) {
	runner := execx.NewFake()
	runner.Respond("rapyd sites list --output=json", []byte("not json"), nil)

	c := New(runner, "")
	_, err := c.ListSites(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing sites list")
}

func TestClient_SetPrimaryDomain(t *testing.T) {
	runner := execx.NewFake()
	c := New(runner, "rapyd")

	require.NoError(t, c.SetPrimaryDomain(context.Background(), "s-101", "new.example.com"))
	lines := runner.CommandLines()
	require.Len(t, lines, 1)
	assert.Equal(t, "rapyd domains set-primary s-101 new.example.com", lines[0])
}

func TestClient_SetPrimaryDomain_Error(t *testing.T) {
	runner := execx.NewFake()
	runner.Respond("rapyd domains set-primary s-1 d.example.com", nil, errors.New("domain not attached"))

	c := New(runner, "rapyd")
	err := c.SetPrimaryDomain(context.Background(), "s-1", "d.example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "domain not attached")
}
