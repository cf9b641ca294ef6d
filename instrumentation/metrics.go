// Package instrumentation provides OpenTelemetry metric instruments
// for the token and authorization endpoints.
package instrumentation

import (
	"context"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "github.com/oauthkit/go-oauth1-server"

// Metrics holds the metric instruments of the provider's flow.
type Metrics struct {
	RequestTokensIssued   metric.Int64Counter
	AccessTokensIssued    metric.Int64Counter
	AuthorizationsStarted metric.Int64Counter
	DecisionsRecorded     metric.Int64Counter
	ProblemsReported      metric.Int64Counter
}

// New creates the metric instruments on the given provider. A nil
// provider yields no-op instruments with zero overhead.
func New(provider metric.MeterProvider) (*Metrics, error) {
	if provider == nil {
		provider = noop.NewMeterProvider()
	}
	meter := provider.Meter(meterName)

	m := &Metrics{}
	var err error

	m.RequestTokensIssued, err = meter.Int64Counter(
		"oauth.request_tokens.issued",
		metric.WithDescription("Number of request tokens issued"),
		metric.WithUnit("{token}"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "[instrumentation.New] request_tokens.issued")
	}

	m.AccessTokensIssued, err = meter.Int64Counter(
		"oauth.access_tokens.issued",
		metric.WithDescription("Number of access tokens issued"),
		metric.WithUnit("{token}"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "[instrumentation.New] access_tokens.issued")
	}

	m.AuthorizationsStarted, err = meter.Int64Counter(
		"oauth.authorizations.started",
		metric.WithDescription("Number of authorization dialogs started"),
		metric.WithUnit("{dialog}"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "[instrumentation.New] authorizations.started")
	}

	m.DecisionsRecorded, err = meter.Int64Counter(
		"oauth.decisions.recorded",
		metric.WithDescription("Number of user decisions processed"),
		metric.WithUnit("{decision}"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "[instrumentation.New] decisions.recorded")
	}

	m.ProblemsReported, err = meter.Int64Counter(
		"oauth.problems.reported",
		metric.WithDescription("Number of protocol problems reported to consumers"),
		metric.WithUnit("{problem}"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "[instrumentation.New] problems.reported")
	}

	return m, nil
}

// RecordRequestTokenIssued records a request token issuance.
func (m *Metrics) RecordRequestTokenIssued(ctx context.Context, consumerKey string) {
	m.RequestTokensIssued.Add(ctx, 1, metric.WithAttributes(
		attribute.String("consumer_key", consumerKey),
	))
}

// RecordAccessTokenIssued records a request token exchange.
func (m *Metrics) RecordAccessTokenIssued(ctx context.Context, consumerKey string) {
	m.AccessTokensIssued.Add(ctx, 1, metric.WithAttributes(
		attribute.String("consumer_key", consumerKey),
	))
}

// RecordAuthorizationStarted records the start of an authorization
// dialog.
func (m *Metrics) RecordAuthorizationStarted(ctx context.Context) {
	m.AuthorizationsStarted.Add(ctx, 1)
}

// RecordDecision records the user's decision.
func (m *Metrics) RecordDecision(ctx context.Context, allowed bool) {
	m.DecisionsRecorded.Add(ctx, 1, metric.WithAttributes(
		attribute.Bool("allowed", allowed),
	))
}

// RecordProblem records a protocol problem reported to a consumer.
func (m *Metrics) RecordProblem(ctx context.Context, problemCode string) {
	m.ProblemsReported.Add(ctx, 1, metric.WithAttributes(
		attribute.String("problem", problemCode),
	))
}
