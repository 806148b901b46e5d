// Package remote executes read-only GraphQL queries against another service, retrying
// transient failures and reporting everything else as a typed *Error.
package remote

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/meitrex/course-service/log"
	"github.com/mitchellh/mapstructure"
)

const DefaultMaxAttempts = 3

type ClientConfig struct {
	transport      Transport
	maxAttempts    int
	newBackOff     func() backoff.BackOff
	attemptTimeout time.Duration
	logger         log.Logger
}

// NewClientConfig defaults to three attempts, no wait between attempts and no per-attempt timeout.
func NewClientConfig(transport Transport, logger log.Logger) *ClientConfig {
	return &ClientConfig{
		transport:   transport,
		maxAttempts: DefaultMaxAttempts,
		newBackOff:  func() backoff.BackOff { return &backoff.ZeroBackOff{} },
		logger:      logger,
	}
}

func (cfg *ClientConfig) WithMaxAttempts(maxAttempts int) *ClientConfig {
	cfg.maxAttempts = maxAttempts
	return cfg
}

// WithBackOff sets the policy for waiting between attempts. A fresh policy is created per logical call;
// a policy returning backoff.Stop ends the call early.
func (cfg *ClientConfig) WithBackOff(newBackOff func() backoff.BackOff) *ClientConfig {
	cfg.newBackOff = newBackOff
	return cfg
}

func (cfg *ClientConfig) WithAttemptTimeout(timeout time.Duration) *ClientConfig {
	cfg.attemptTimeout = timeout
	return cfg
}

func (cfg ClientConfig) NewClient() *Client {
	maxAttempts := cfg.maxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Client{
		transport:      cfg.transport,
		maxAttempts:    maxAttempts,
		newBackOff:     cfg.newBackOff,
		attemptTimeout: cfg.attemptTimeout,
		logger:         cfg.logger.With("component", "remote"),
	}
}

// Client holds only configuration fixed at construction and is safe for concurrent use.
type Client struct {
	transport      Transport
	maxAttempts    int
	newBackOff     func() backoff.BackOff
	attemptTimeout time.Duration
	logger         log.Logger
}

func (c *Client) MaxAttempts() int {
	return c.maxAttempts
}

// Execute runs req and decodes the extracted list into []T. Every failure is returned as *Error.
func Execute[T any](ctx context.Context, c *Client, req *Request) ([]T, error) {
	data, err := c.Run(ctx, req)
	if err != nil {
		return nil, err
	}

	items, ok := data.([]interface{})
	if !ok {
		items = []interface{}{data}
	}

	rows := make([]T, 0, len(items))
	if err := decode(items, &rows); err != nil {
		return nil, newError(FieldAccessError, req.message(fmt.Sprintf("unable to read %s: %s", req.field, err)), err)
	}
	return rows, nil
}

// ExecuteOne runs a request for a single entity and decodes it into T.
func ExecuteOne[T any](ctx context.Context, c *Client, req *Request) (T, error) {
	var row T
	req = req.withArity(Single)
	data, err := c.Run(ctx, req)
	if err != nil {
		return row, err
	}
	if err := decode(data, &row); err != nil {
		return row, newError(FieldAccessError, req.message(fmt.Sprintf("unable to read %s: %s", req.field, err)), err)
	}
	return row, nil
}

// Run executes req, retrying only transport or server failures, and returns the raw value of
// the requested field.
func (c *Client) Run(ctx context.Context, req *Request) (interface{}, error) {
	if invalid := req.validate(); invalid != nil {
		c.observe(req, 0, Outcome{Err: invalid})
		return nil, invalid
	}

	policy := c.newBackOff()
	var last Outcome

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		last = c.attempt(ctx, req)
		c.observe(req, attempt, last)

		if last.Succeeded() {
			return last.Data, nil
		}
		if !last.Err.Kind.Retryable() || attempt == c.maxAttempts {
			break
		}

		wait := policy.NextBackOff()
		if wait == backoff.Stop {
			break
		}
		if err := sleep(ctx, wait); err != nil {
			break
		}
	}

	return nil, Unwrap(last.Err)
}

func (c *Client) attempt(ctx context.Context, req *Request) Outcome {
	if err := ctx.Err(); err != nil {
		return failure(TransportOrServerError, req.message(err.Error()), err)
	}

	attemptCtx := ctx
	if c.attemptTimeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, c.attemptTimeout)
		defer cancel()
	}

	result, err := c.transport.Execute(attemptCtx, req.document, req.variables)
	return Classify(req, result, err)
}

func (c *Client) observe(req *Request, attempt int, outcome Outcome) {
	classification := outcome.Classification()
	metricsAttempts.WithLabelValues(req.field, classification).Inc()

	if outcome.Succeeded() {
		c.logger.Debug("remote query attempt succeeded",
			"field", req.field,
			"attempt", attempt)
		return
	}

	c.logger.Warn("remote query attempt failed",
		"field", req.field,
		"attempt", attempt,
		"maxAttempts", c.maxAttempts,
		"classification", classification,
		"error", outcome.Err.Message)
}

func sleep(ctx context.Context, wait time.Duration) error {
	if wait <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func decode(input interface{}, result interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.TextUnmarshallerHookFunc(),
		TagName:    "json",
		Result:     result,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}
