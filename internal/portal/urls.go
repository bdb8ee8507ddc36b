package portal

import "strings"

// APIBase is the fixed path prefix every portal endpoint lives under.
const APIBase = "/portal-api"

// Endpoint builds a normalized backend-relative path rooted at APIBase.
// It never double-prefixes: a path that already carries the base segment
// is stripped before the base is re-applied, so Endpoint(Endpoint(p)) ==
// Endpoint(p) for every p. Empty input yields the bare base.
func Endpoint(path string) string {
	if path == "" {
		return APIBase
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if path == APIBase || strings.HasPrefix(path, APIBase+"/") {
		path = strings.TrimPrefix(path, APIBase)
	}
	if path == "" {
		return APIBase
	}
	return APIBase + path
}
