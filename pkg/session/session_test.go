package session

import (
	"context"
	"testing"
	"time"

	"github.com/de-tools/price-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext_DefaultsToUnauthorized(t *testing.T) {
	s := FromContext(context.Background())
	assert.False(t, s.Authorized)
	assert.Nil(t, s.References)
}

func TestWithReferences_KeepsAuthorization(t *testing.T) {
	ctx := WithSession(context.Background(), Session{Authorized: true, Subject: "analyst"})
	pair := domain.NewReferencePair(
		time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 12, 8, 0, 0, 0, 0, time.UTC),
	)

	ctx = WithReferences(ctx, pair)
	s := FromContext(ctx)

	assert.True(t, s.Authorized)
	assert.Equal(t, "analyst", s.Subject)
	require.NotNil(t, s.References)
	assert.Equal(t, pair, *s.References)
}
