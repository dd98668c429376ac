package services

import (
	"context"
	"net"
	"net/url"
	"strings"

	"github.com/wahlware/wahlhost/internal/config"
	"github.com/wahlware/wahlhost/pkg/schemas"
	"github.com/wahlware/wahlhost/pkg/types"
	"go.uber.org/zap"
)

// rootOnlyPaths are served on the root domain only. A subdomain hit on one of
// them is bounced back to the canonical root URL.
var rootOnlyPaths = []string{"/login", "/signup", "/dashboard", "/admin"}

// RoutingService turns a request's host and path into a navigation decision:
// root or election subdomain, the effective shortname, and whether the client
// should redirect. In dev mode the shortname travels as a query parameter on
// the root host so local setups work without wildcard DNS.
type RoutingService struct {
	cnf    *config.AppConfig
	wahlen *WahlService
	logger *zap.SugaredLogger
}

func NewRoutingService(cnf *config.AppConfig, wahlen *WahlService, logger *zap.SugaredLogger) *RoutingService {
	return &RoutingService{cnf: cnf, wahlen: wahlen, logger: logger}
}

func (rs *RoutingService) Resolve(ctx context.Context, q *schemas.RouteQuery) (*schemas.RouteDecision, *types.AppError) {
	if appErr := checkInput(q); appErr != nil {
		return nil, appErr
	}

	shortname := resolveShortname(rs.cnf, q)

	known := false
	if shortname != "" {
		if _, appErr := rs.wahlen.GetWahlByShortname(ctx, shortname); appErr == nil {
			known = true
		} else if appErr.Code != types.CodeNotFound {
			return nil, appErr
		}
	}

	decision := decideRoute(rs.cnf, q, shortname, known)
	return &decision, nil
}

// resolveShortname picks the effective shortname for a request. Dev mode
// prefers the override cookie, then the query parameter, then the configured
// fallback. Outside dev mode only the subdomain label counts.
func resolveShortname(cnf *config.AppConfig, q *schemas.RouteQuery) string {
	if cnf.DevMode {
		if q.OverrideValue != "" {
			return q.OverrideValue
		}
		if q.Shortname != "" {
			return q.Shortname
		}
		return cnf.DevShortname
	}
	if label := subdomainLabel(q.Host, cnf.RootDomain); label != "" {
		return label
	}
	return ""
}

// subdomainLabel returns the single label in front of the root domain, or ""
// when the host is the root domain itself or unrelated to it.
func subdomainLabel(host, root string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.ToLower(host)
	if host == root || !strings.HasSuffix(host, "."+root) {
		return ""
	}
	label := strings.TrimSuffix(host, "."+root)
	if strings.Contains(label, ".") {
		return ""
	}
	return label
}

func normalizePath(path string) string {
	if path == "" || !strings.HasPrefix(path, "/") {
		return "/" + path
	}
	return path
}

func isRootOnlyPath(path string) bool {
	for _, p := range rootOnlyPaths {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

// decideRoute is the pure decision core. Prefetch is only allowed for
// same-host relative targets; any absolute redirect disables it.
func decideRoute(cnf *config.AppConfig, q *schemas.RouteQuery, shortname string, known bool) schemas.RouteDecision {
	path := normalizePath(q.Path)

	if cnf.DevMode {
		return decideDevRoute(q, shortname, known, path)
	}

	label := subdomainLabel(q.Host, cnf.RootDomain)

	if label == "" {
		// Root host. A shortname query parameter is a dev-mode leftover
		// and gets stripped.
		if q.Shortname != "" {
			return schemas.RouteDecision{
				IsRoot:    true,
				Redirect:  true,
				TargetURL: path,
				Prefetch:  true,
			}
		}
		return schemas.RouteDecision{IsRoot: true, Prefetch: true}
	}

	if !known {
		return schemas.RouteDecision{
			IsRoot:    false,
			Shortname: shortname,
			Redirect:  true,
			TargetURL: "https://" + cnf.RootDomain + "/",
		}
	}

	if isRootOnlyPath(path) {
		return schemas.RouteDecision{
			IsRoot:    false,
			Shortname: shortname,
			Redirect:  true,
			TargetURL: "https://" + cnf.RootDomain + path,
		}
	}

	// Shortname query parameters only mean something in dev mode; on a real
	// subdomain a stray one gets stripped.
	if q.Shortname != "" {
		return schemas.RouteDecision{
			IsRoot:    false,
			Shortname: shortname,
			Redirect:  true,
			TargetURL: path,
			Prefetch:  true,
		}
	}

	return schemas.RouteDecision{IsRoot: false, Shortname: shortname, Prefetch: true}
}

func decideDevRoute(q *schemas.RouteQuery, shortname string, known bool, path string) schemas.RouteDecision {
	if shortname == "" || !known {
		// Strip a stray or unknown shortname parameter.
		if q.Shortname != "" {
			return schemas.RouteDecision{
				IsRoot:    true,
				Redirect:  true,
				TargetURL: path,
				Prefetch:  true,
			}
		}
		return schemas.RouteDecision{IsRoot: true, Prefetch: true}
	}

	// Canonical dev form keeps the shortname in the query string.
	if q.Shortname == shortname {
		return schemas.RouteDecision{IsRoot: true, Shortname: shortname, Prefetch: true}
	}

	v := url.Values{}
	v.Set("shortname", shortname)
	return schemas.RouteDecision{
		IsRoot:    true,
		Shortname: shortname,
		Redirect:  true,
		TargetURL: path + "?" + v.Encode(),
		Prefetch:  true,
	}
}
