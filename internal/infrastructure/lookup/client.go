// Package lookup implements the outbound client for the external
// family-tree service and the normalization of its responses into domain
// records.
package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/famscope/famscope/internal/application/report"
	"github.com/famscope/famscope/internal/domain/person"
	"github.com/famscope/famscope/internal/infrastructure/monitoring/logging"
	"github.com/famscope/famscope/pkg/errors"
)

// foundMessage is the envelope message the upstream sends when the subject
// exists.  Anything else is a not-found, not a fault.
const foundMessage = "found data"

// maxBodyBytes caps upstream response reads.
const maxBodyBytes = 10 << 20

// envelope is the upstream response wire format.
type envelope struct {
	Message string  `json:"message"`
	Result  *result `json:"result"`
}

type result struct {
	Person       person.Record   `json:"person"`
	Quantity     int             `json:"quantity"`
	Coincidences []person.Record `json:"coincidences"`
}

// Observer receives upstream call outcomes for metrics.
type Observer interface {
	ObserveLookup(outcome string, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveLookup(string, time.Duration) {}

// Client queries the family-tree HTTP API.  It implements
// report.TreeProvider.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     logging.Logger
	observer   Observer
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the transport, for tests and custom timeouts.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithObserver wires upstream latency metrics.
func WithObserver(obs Observer) ClientOption {
	return func(c *Client) { c.observer = obs }
}

// NewClient builds a lookup client for baseURL.  timeout bounds each
// upstream call; zero means no client-side limit beyond the context.
func NewClient(baseURL string, timeout time.Duration, log logging.Logger, opts ...ClientOption) *Client {
	if log == nil {
		log = logging.NewNopLogger()
	}
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     log.Named("lookup"),
		observer:   nopObserver{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FamilyTree queries the upstream for one document id and normalizes the
// response.  A well-formed "no data" answer maps to ErrCodeLookupNotFound;
// transport and decode failures map to upstream-fault codes.
func (c *Client) FamilyTree(ctx context.Context, dni string) (*report.LookupResult, error) {
	start := time.Now()

	reqURL := fmt.Sprintf("%s?dni=%s", c.baseURL, url.QueryEscape(dni))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeLookupFailed, "building lookup request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observer.ObserveLookup("transport_error", time.Since(start))
		return nil, errors.Wrap(err, errors.ErrCodeLookupFailed, "family-tree service unreachable")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		c.observer.ObserveLookup("transport_error", time.Since(start))
		return nil, errors.Wrap(err, errors.ErrCodeLookupFailed, "reading lookup response")
	}

	if resp.StatusCode == http.StatusNotFound {
		c.observer.ObserveLookup("not_found", time.Since(start))
		return nil, errors.New(errors.ErrCodeLookupNotFound, "no family records for dni").
			WithDetail(dni)
	}
	if resp.StatusCode != http.StatusOK {
		c.observer.ObserveLookup("upstream_error", time.Since(start))
		return nil, errors.Newf(errors.ErrCodeLookupFailed,
			"family-tree service returned status %d", resp.StatusCode)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		c.observer.ObserveLookup("decode_error", time.Since(start))
		return nil, errors.Wrap(err, errors.ErrCodeLookupDecode, "decoding lookup response")
	}

	if env.Message != foundMessage || env.Result == nil || env.Result.Person == nil {
		c.observer.ObserveLookup("not_found", time.Since(start))
		c.logger.Debug("upstream reported no data",
			logging.String("dni", dni), logging.String("message", env.Message))
		return nil, errors.New(errors.ErrCodeLookupNotFound, "no family records for dni").
			WithDetail(dni)
	}

	out := &report.LookupResult{
		Principal: person.Normalize(env.Result.Person, person.SchemaAuto),
		Quantity:  env.Result.Quantity,
		Relatives: make([]person.Person, 0, len(env.Result.Coincidences)),
	}
	for _, rec := range env.Result.Coincidences {
		out.Relatives = append(out.Relatives, person.Normalize(rec, person.SchemaAuto))
	}

	c.observer.ObserveLookup("ok", time.Since(start))
	c.logger.Debug("family tree resolved",
		logging.String("dni", dni),
		logging.Int("relatives", len(out.Relatives)),
		logging.Duration("elapsed", time.Since(start)))
	return out, nil
}
