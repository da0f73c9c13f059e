package plot

import (
	"context"
	"math/rand"
	"time"
)

// StartSimulation meters a random walk into every metric until ctx is done.
// Useful to check the page without a training process attached.
func (d *Dashboard) StartSimulation(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()

		metrics := d.monitor.MetricNames()
		current := make(map[string]float64, len(metrics))
		for _, metric := range metrics {
			current[metric] = 1.0
		}

		for step := 1; ; step++ {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			for _, metric := range metrics {
				// drift downwards like a loss curve, with noise
				next := current[metric]*0.99 + (rand.Float64()-0.5)*0.05
				current[metric] = next

				if err := d.monitor.Meter(metric, next); err != nil {
					d.log.WithError(err).Error("Simulation failed to meter ", metric)
				}
			}

			if step%100 == 0 {
				d.monitor.SetEpoch(step / 100)
				d.monitor.Log("simulated epoch finished")
			}
		}
	}()
}
