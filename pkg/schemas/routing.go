package schemas

// RouteQuery describes one incoming navigation to resolve: the request's
// host header, the logical path, a shortname query param (dev mode) and an
// optional dev-mode override cookie value.
type RouteQuery struct {
	Host          string `json:"host" validate:"required"`
	Path          string `json:"path"`
	Shortname     string `json:"shortname"`
	OverrideValue string `json:"override"`
}

type RouteDecision struct {
	IsRoot    bool   `json:"isRoot"`
	Shortname string `json:"shortname"`
	Redirect  bool   `json:"redirect"`
	TargetURL string `json:"targetUrl"`
	Prefetch  bool   `json:"prefetch"`
}
