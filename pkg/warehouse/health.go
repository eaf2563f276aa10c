package warehouse

import (
	"context"
	"time"
)

// HealthStatus reports warehouse connectivity and pool statistics for the
// operational health endpoint (§4.1 "a lightweight probe returning a
// boolean").
type HealthStatus struct {
	Healthy         bool          `json:"healthy"`
	ResponseTime    time.Duration `json:"response_time_ms"`
	OpenConnections int           `json:"open_connections"`
	InUse           int           `json:"in_use"`
	Idle            int           `json:"idle"`
}

// Health pings the pool and reports its statistics.
func (c *Client) Health(ctx context.Context) HealthStatus {
	start := time.Now()
	err := c.DB.PingContext(ctx)
	stats := c.DB.Stats()
	return HealthStatus{
		Healthy:         err == nil,
		ResponseTime:    time.Since(start),
		OpenConnections: stats.OpenConnections,
		InUse:           stats.InUse,
		Idle:            stats.Idle,
	}
}
