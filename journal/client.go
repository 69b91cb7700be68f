package journal

import (
	"context"

	"github.com/benbjohnson/clock"
	"github.com/calvinmclean/babyapi"
	"github.com/pkg/errors"
)

type Client struct {
	client *babyapi.Client[*Measurement]
	clock  clock.Clock
}

// NewClient creates a client for the journal at addr. A nil clock uses the wall clock.
func NewClient(addr string, clk clock.Clock) *Client {
	if clk == nil {
		clk = clock.New()
	}
	return &Client{
		client: babyapi.NewClient[*Measurement](addr, basePath),
		clock:  clk,
	}
}

// Record posts a measurement stamped with the current time and returns it with its assigned ID
func (c *Client) Record(ctx context.Context, moduleID string, steps int64) (*Measurement, error) {
	resp, err := c.client.Post(ctx, &Measurement{
		ModuleID:   moduleID,
		Steps:      steps,
		RecordedAt: c.clock.Now().UTC(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "error recording measurement")
	}
	return resp.Data, nil
}

func (c *Client) Get(ctx context.Context, id string) (*Measurement, error) {
	resp, err := c.client.Get(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "error getting measurement %q", id)
	}
	return resp.Data, nil
}
