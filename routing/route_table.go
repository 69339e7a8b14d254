package routing

// RouteTable is an ordered list of routes. Lookups walk it in registration
// order and the first match wins. It is filled during setup and read-only
// once serving starts.
type RouteTable struct {
	routes []*Route
}

// Add appends route to the table.
func (rt *RouteTable) Add(route *Route) {
	rt.routes = append(rt.routes, route)
}

// Routes returns the entries in registration order.
func (rt *RouteTable) Routes() []*Route {
	return rt.routes
}

func (rt *RouteTable) Len() int {
	return len(rt.routes)
}

// Resolve finds the first route matching path.
func (rt *RouteTable) Resolve(path string) (*Route, []string, ResolutionType) {
	for _, r := range rt.routes {
		if lit, ok := r.Pattern.(Literal); ok {
			if string(lit) == path {
				return r, nil, EXACT
			}
			continue
		}
		if m, ok := r.Pattern.Match(path); ok {
			return r, m, CAPTURED
		}
	}
	return nil, nil, NOTFOUND
}
