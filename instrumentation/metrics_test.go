package instrumentation_test

import (
	"context"
	"testing"

	"github.com/oauthkit/go-oauth1-server/instrumentation"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultsToNoop(t *testing.T) {
	m, err := instrumentation.New(nil)
	require.NoError(t, err)
	require.NotNil(t, m.RequestTokensIssued)

	// No-op instruments must accept records without a configured
	// exporter.
	ctx := context.Background()
	m.RecordRequestTokenIssued(ctx, "dpf43f3p2l4k3l03")
	m.RecordAccessTokenIssued(ctx, "dpf43f3p2l4k3l03")
	m.RecordAuthorizationStarted(ctx)
	m.RecordDecision(ctx, true)
	m.RecordProblem(ctx, "token_rejected")
}
