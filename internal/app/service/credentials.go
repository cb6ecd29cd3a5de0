package service

import "strings"

// placeholderKeys are sample values shipped in env templates; they never authenticate.
var placeholderKeys = map[string]struct{}{
	"youretherscanapikey": {},
	"etherscan_api_key":   {},
	"your_api_key":        {},
}

// hasUsableKey reports whether key looks like a real explorer credential.
func hasUsableKey(key string) bool {
	key = strings.TrimSpace(key)
	if key == "" {
		return false
	}
	_, placeholder := placeholderKeys[strings.ToLower(key)]
	return !placeholder
}
