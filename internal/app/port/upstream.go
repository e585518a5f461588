package port

import (
	"context"

	"bridge_gateway/internal/domain/entity"
)

// Forwarder sends a request to the aggregator and returns its raw answer.
// Implemented by the LI.FI client and by the caching proxy service in front of it.
type Forwarder interface {
	Forward(ctx context.Context, req entity.ForwardRequest) (*entity.UpstreamResponse, error)
}
