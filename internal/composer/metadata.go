package composer

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/23skdu/graphserving/internal/metadata"
	"github.com/23skdu/graphserving/internal/metrics"
)

const methodGetMetadata = "get_metadata"

// GetMetadata returns the flattened graph summary loaded once at
// startup. It touches neither the index nor any partition, so it
// bypasses the executor entirely.
func (c *Composer) GetMetadata(_ context.Context) (*metadata.Snapshot, error) {
	timer := prometheus.NewTimer(metrics.RequestLatencySeconds.WithLabelValues(methodGetMetadata))
	defer timer.ObserveDuration()
	metrics.RequestsTotal.WithLabelValues(methodGetMetadata, "ok").Inc()

	snap := c.meta.Snapshot()
	return &snap, nil
}
