package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"sharegate/internal/constants"
)

// getClientIP extracts the client IP address from the request
// It checks proxy headers first, then falls back to RemoteAddr
func getClientIP(r *http.Request) string {
	// Check X-Forwarded-For header first (reverse proxy)
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// Take the first IP in the chain (original client)
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	// Check X-Real-IP header
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	// Fall back to RemoteAddr
	ip := r.RemoteAddr
	// Remove port if present
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}

// apiKey extracts the caller's API key, if presented.
func apiKey(r *http.Request) string {
	return r.Header.Get(constants.HeaderXAPIKey)
}

// params holds merged request parameters. The legacy clients send query
// parameters even on POST; JSON bodies are the native form here. Both are
// read, body values win.
type params struct {
	values map[string]interface{}
}

// parseParams merges query string and JSON body parameters.
func parseParams(r *http.Request) *params {
	p := &params{values: make(map[string]interface{})}

	for key, vals := range r.URL.Query() {
		if len(vals) > 0 {
			p.values[key] = vals[0]
		}
	}

	if r.Body != nil && r.Method != http.MethodGet {
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			for key, val := range body {
				p.values[key] = val
			}
		}
	}

	return p
}

// Get returns a string parameter, empty when absent.
func (p *params) Get(name string) string {
	switch v := p.values[name].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// GetBool returns a boolean parameter and whether it was present and valid.
func (p *params) GetBool(name string) (bool, bool) {
	switch v := p.values[name].(type) {
	case bool:
		return v, true
	case string:
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return false, false
		}
		return parsed, true
	default:
		return false, false
	}
}

// GetInt64 returns an integer parameter and whether it was present and valid.
func (p *params) GetInt64(name string) (int64, bool) {
	switch v := p.values[name].(type) {
	case float64:
		return int64(v), true
	case string:
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}
