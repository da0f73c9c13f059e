package client

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/raykavin/tutor/pkg/core"
	"github.com/samber/lo"
	"github.com/schollz/progressbar/v3"
)

// ReplayOption configures Replay
type ReplayOption func(*replayOptions)

type replayOptions struct {
	output  io.Writer
	metrics []string
}

// WithProgressOutput sets where the progress bar is drawn. Defaults to stderr.
func WithProgressOutput(w io.Writer) ReplayOption {
	return func(o *replayOptions) {
		o.output = w
	}
}

// WithMetrics restricts the replay to the given metrics
func WithMetrics(names ...string) ReplayOption {
	return func(o *replayOptions) {
		o.metrics = names
	}
}

// Replay pushes every sample of a stored backup into the dashboard, metric by
// metric in name order, then logs which backup was replayed.
func (c *Client) Replay(ctx context.Context, backup core.Backup, options ...ReplayOption) error {
	opts := replayOptions{output: os.Stderr}
	for _, option := range options {
		option(&opts)
	}

	names := lo.Keys(backup.Metrics)
	if len(opts.metrics) > 0 {
		names = lo.Intersect(names, opts.metrics)
	}
	slices.Sort(names)

	total := lo.SumBy(names, func(name string) int {
		return backup.Metrics[name].Length()
	})

	c.log.Infof("Replaying %d samples of backup %d", total, backup.ID)

	progressBar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(opts.output),
		progressbar.OptionSetDescription(fmt.Sprintf("backup %d", backup.ID)),
		progressbar.OptionShowCount(),
	)

	for _, name := range names {
		for _, value := range backup.Metrics[name] {
			if err := c.Meter(ctx, name, value); err != nil {
				return fmt.Errorf("failed to replay %s: %w", name, err)
			}

			if err := progressBar.Add(1); err != nil {
				c.log.Warnf("update progressbar fail: %v", err)
			}
		}
	}

	if err := progressBar.Close(); err != nil {
		c.log.Warnf("Failed to close progress bar: %s", err.Error())
	}

	return c.Log(ctx, fmt.Sprintf("replayed backup %d (epoch %d)", backup.ID, backup.Epoch))
}
