package entity

// Upstream names one of the aggregator base URLs a request is forwarded to.
type Upstream int

const (
	// UpstreamAPI is the main aggregator REST API.
	UpstreamAPI Upstream = iota
	// UpstreamIntents is the intents API used for intent status lookups.
	UpstreamIntents
)

// ForwardRequest describes a request forwarded verbatim to the aggregator.
type ForwardRequest struct {
	Upstream Upstream
	Method   string
	Path     string
	RawQuery string // forwarded verbatim
	Body     []byte
}

// UpstreamResponse is the unmodified status and body returned by the aggregator.
type UpstreamResponse struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// CacheKey identifies the request for response caching.
func (r ForwardRequest) CacheKey() string {
	prefix := "api"
	if r.Upstream == UpstreamIntents {
		prefix = "intents"
	}
	return prefix + ":" + r.Method + ":" + r.Path + "?" + r.RawQuery
}

// OK reports whether the upstream answered with a 2xx status.
func (r *UpstreamResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
