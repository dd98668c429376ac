package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wahlware/wahlhost/internal/config"
	"github.com/wahlware/wahlhost/pkg/schemas"
)

func prodConfig() *config.AppConfig {
	return &config.AppConfig{RootDomain: "wahlhost.de"}
}

func devConfig() *config.AppConfig {
	return &config.AppConfig{RootDomain: "wahlhost.de", DevMode: true, DevShortname: "test"}
}

func TestSubdomainLabel(t *testing.T) {
	assert.Equal(t, "acme", subdomainLabel("acme.wahlhost.de", "wahlhost.de"))
	assert.Equal(t, "acme", subdomainLabel("acme.wahlhost.de:8080", "wahlhost.de"))
	assert.Equal(t, "acme", subdomainLabel("ACME.wahlhost.de", "wahlhost.de"))
	assert.Equal(t, "", subdomainLabel("wahlhost.de", "wahlhost.de"))
	assert.Equal(t, "", subdomainLabel("a.b.wahlhost.de", "wahlhost.de"))
	assert.Equal(t, "", subdomainLabel("example.com", "wahlhost.de"))
}

func TestResolveShortname_DevPrecedence(t *testing.T) {
	cnf := devConfig()

	q := &schemas.RouteQuery{Shortname: "fromquery", OverrideValue: "fromcookie"}
	assert.Equal(t, "fromcookie", resolveShortname(cnf, q))

	q = &schemas.RouteQuery{Shortname: "fromquery"}
	assert.Equal(t, "fromquery", resolveShortname(cnf, q))

	q = &schemas.RouteQuery{}
	assert.Equal(t, "test", resolveShortname(cnf, q))
}

func TestResolveShortname_ProdIgnoresDevInputs(t *testing.T) {
	cnf := prodConfig()

	q := &schemas.RouteQuery{Host: "acme.wahlhost.de", Shortname: "fromquery", OverrideValue: "fromcookie"}
	assert.Equal(t, "acme", resolveShortname(cnf, q))

	q = &schemas.RouteQuery{Host: "wahlhost.de", Shortname: "fromquery"}
	assert.Equal(t, "", resolveShortname(cnf, q))
}

func TestDecideRoute_RootHostServes(t *testing.T) {
	q := &schemas.RouteQuery{Host: "wahlhost.de", Path: "/dashboard"}

	d := decideRoute(prodConfig(), q, "", false)

	assert.True(t, d.IsRoot)
	assert.False(t, d.Redirect)
	assert.True(t, d.Prefetch)
}

func TestDecideRoute_RootHostStripsStrayShortname(t *testing.T) {
	q := &schemas.RouteQuery{Host: "wahlhost.de", Path: "/vote", Shortname: "acme"}

	d := decideRoute(prodConfig(), q, "", false)

	assert.True(t, d.IsRoot)
	assert.True(t, d.Redirect)
	assert.Equal(t, "/vote", d.TargetURL)
	assert.True(t, d.Prefetch)
}

func TestDecideRoute_KnownSubdomainServes(t *testing.T) {
	q := &schemas.RouteQuery{Host: "acme.wahlhost.de", Path: "/vote"}

	d := decideRoute(prodConfig(), q, "acme", true)

	assert.False(t, d.IsRoot)
	assert.Equal(t, "acme", d.Shortname)
	assert.False(t, d.Redirect)
	assert.True(t, d.Prefetch)
}

func TestDecideRoute_SubdomainStripsStrayShortname(t *testing.T) {
	q := &schemas.RouteQuery{Host: "acme.wahlhost.de", Path: "/vote", Shortname: "other"}

	d := decideRoute(prodConfig(), q, "acme", true)

	assert.False(t, d.IsRoot)
	assert.Equal(t, "acme", d.Shortname)
	assert.True(t, d.Redirect)
	assert.Equal(t, "/vote", d.TargetURL)
	assert.True(t, d.Prefetch)
}

func TestDecideRoute_UnknownSubdomainRedirectsToRoot(t *testing.T) {
	q := &schemas.RouteQuery{Host: "ghost.wahlhost.de", Path: "/vote"}

	d := decideRoute(prodConfig(), q, "ghost", false)

	assert.True(t, d.Redirect)
	assert.Equal(t, "https://wahlhost.de/", d.TargetURL)
	assert.False(t, d.Prefetch)
}

func TestDecideRoute_RootOnlyPathBouncesOffSubdomain(t *testing.T) {
	q := &schemas.RouteQuery{Host: "acme.wahlhost.de", Path: "/dashboard/settings"}

	d := decideRoute(prodConfig(), q, "acme", true)

	assert.True(t, d.Redirect)
	assert.Equal(t, "https://wahlhost.de/dashboard/settings", d.TargetURL)
	assert.False(t, d.Prefetch)
}

func TestDecideRoute_DevCanonicalForm(t *testing.T) {
	q := &schemas.RouteQuery{Host: "localhost:3000", Path: "/vote", Shortname: "acme"}

	d := decideRoute(devConfig(), q, "acme", true)

	assert.True(t, d.IsRoot)
	assert.Equal(t, "acme", d.Shortname)
	assert.False(t, d.Redirect)
}

func TestDecideRoute_DevRedirectsToQueryParamForm(t *testing.T) {
	q := &schemas.RouteQuery{Host: "localhost:3000", Path: "/vote"}

	d := decideRoute(devConfig(), q, "acme", true)

	assert.True(t, d.Redirect)
	assert.Equal(t, "/vote?shortname=acme", d.TargetURL)
	assert.True(t, d.Prefetch)
}

func TestDecideRoute_DevStripsUnknownShortname(t *testing.T) {
	q := &schemas.RouteQuery{Host: "localhost:3000", Path: "/vote", Shortname: "ghost"}

	d := decideRoute(devConfig(), q, "ghost", false)

	assert.True(t, d.Redirect)
	assert.Equal(t, "/vote", d.TargetURL)
}
