package controller

import (
	"net/http"

	"github.com/wahlware/wahlhost/internal/version"
	"github.com/wahlware/wahlhost/pkg/httputil"
	"github.com/wahlware/wahlhost/pkg/schemas"
)

// ResolveRoute answers navigation decisions for the frontend. The host
// defaults to the request's own Host header; the dev override cookie is read
// here so the service stays transport-free.
func (c *Controller) ResolveRoute(w http.ResponseWriter, r *http.Request) {
	query := schemas.RouteQuery{
		Host:      r.URL.Query().Get("host"),
		Path:      r.URL.Query().Get("path"),
		Shortname: r.URL.Query().Get("shortname"),
	}
	if query.Host == "" {
		query.Host = r.Host
	}
	if cookie, err := r.Cookie("shortname-override"); err == nil {
		query.OverrideValue = cookie.Value
	}

	res, appErr := c.RoutingService.Resolve(r.Context(), &query)
	if appErr != nil {
		httputil.NewError(w, r, appErr)
		return
	}
	httputil.JSON(w, http.StatusOK, res)
}

func (c *Controller) GetVersion(w http.ResponseWriter, r *http.Request) {
	httputil.JSON(w, http.StatusOK, version.GetVersionInfo())
}
