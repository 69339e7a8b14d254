package router

import (
	"github.com/smarthome/camserve/routing"
)

// Resolution is the outcome of resolving a path against an app tree. A miss
// is a Resolution with Type routing.NOTFOUND, not an error.
type Resolution struct {
	// App is the innermost mounted app the path resolved to.
	App *App
	// Path is the request path with every mount prefix stripped.
	Path  string
	Route *routing.Route
	Match []string
	Type  routing.ResolutionType
	// HeaderMode is the effective mode: the route's option, the app default
	// for unset options, or skip for a miss.
	HeaderMode routing.HeaderMode
}

// Found reports whether a route matched.
func (r Resolution) Found() bool {
	return r.Route != nil
}
