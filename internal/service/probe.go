package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// connection pooling limits so probing many agents does not exhaust
// local sockets
const (
	probeMaxIdleConns        = 100
	probeMaxIdleConnsPerHost = 2
	probeIdleConnTimeout     = 60 * time.Second
)

// ProbeResult is the explicit outcome of a single liveness probe.
// Failures are data, not errors: the monitor folds every non-OK result
// into an inactive status signal and never aborts on one.
type ProbeResult struct {
	// OK is true only for an HTTP 200 response within the timeout.
	OK bool

	// StatusCode is the HTTP status, zero when no response was received.
	StatusCode int

	// ObservedAt is when the probe completed.
	ObservedAt time.Time

	// Err holds the transport error for non-OK outcomes, nil on a plain
	// non-200 response.
	Err error
}

// Prober issues bounded-timeout GET probes against agent endpoints.
type Prober struct {
	client  *http.Client
	timeout time.Duration
}

func NewProber(timeout time.Duration) *Prober {
	return &Prober{
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        probeMaxIdleConns,
				MaxIdleConnsPerHost: probeMaxIdleConnsPerHost,
				IdleConnTimeout:     probeIdleConnTimeout,
			},
		},
		timeout: timeout,
	}
}

// Probe issues a GET against endpoint + "/ping". It always returns a
// result; a timeout, connection error, or non-200 status is an Err or
// StatusCode on the result, never a raised error.
func (p *Prober) Probe(ctx context.Context, endpoint string) ProbeResult {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	url := strings.TrimRight(endpoint, "/") + "/ping"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ProbeResult{ObservedAt: time.Now().UTC(), Err: fmt.Errorf("build probe request: %w", err)}
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return ProbeResult{ObservedAt: time.Now().UTC(), Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))

	return ProbeResult{
		OK:         resp.StatusCode == http.StatusOK,
		StatusCode: resp.StatusCode,
		ObservedAt: time.Now().UTC(),
	}
}
