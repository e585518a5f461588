package lifi

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	DefaultAPIBase     = "https://li.quest/v1"
	DefaultIntentsBase = "https://intents.li.fi/v1"
	APIKeyHeader       = "x-lifi-api-key"
)

// ForwardURL joins path onto base without losing base's own path segments,
// then appends rawQuery unchanged.
// Example: ForwardURL("https://li.quest/v1", "/tokens", "chains=137") => "https://li.quest/v1/tokens?chains=137"
func ForwardURL(base, path, rawQuery string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid upstream base %q: %w", base, err)
	}
	if b.Scheme == "" || b.Host == "" {
		return "", fmt.Errorf("invalid upstream base %q: scheme and host are required", base)
	}
	if !strings.HasSuffix(b.Path, "/") {
		b.Path += "/"
	}

	ref, err := url.Parse(strings.TrimLeft(path, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid upstream path %q: %w", path, err)
	}

	u := b.ResolveReference(ref)
	switch {
	case rawQuery == "":
	case u.RawQuery == "":
		u.RawQuery = rawQuery
	default:
		u.RawQuery += "&" + rawQuery
	}
	return u.String(), nil
}
