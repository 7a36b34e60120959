package ratelimit

import (
	"strings"
)

// unlimitedPaths are never throttled.
var unlimitedPaths = map[string]bool{
	"GET /health": true,
}

// MatchEndpoint matches a request path and method to an endpoint
// configuration and returns it with the key requests sharing its bucket use.
// Exact matches win over prefix matches; a configured path ending in "/"
// matches every path below it. Returns nil when nothing matches.
func MatchEndpoint(path string, method string, configs []EndpointConfig) (*EndpointConfig, string) {
	if unlimitedPaths[method+" "+path] {
		return &EndpointConfig{Path: path, Method: method}, path
	}

	for i := range configs {
		if configs[i].Method == method && configs[i].Path == path {
			return &configs[i], configs[i].Path
		}
	}

	var best *EndpointConfig
	for i := range configs {
		c := &configs[i]
		if c.Method != method || !strings.HasSuffix(c.Path, "/") || !strings.HasPrefix(path, c.Path) {
			continue
		}
		// Longest prefix wins.
		if best == nil || len(c.Path) > len(best.Path) {
			best = c
		}
	}
	if best == nil {
		return nil, ""
	}
	return best, best.Path
}
