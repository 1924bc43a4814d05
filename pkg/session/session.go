package session

import (
	"context"

	"github.com/de-tools/price-atlas/pkg/models/domain"
)

// Session is the request-scoped state of a dashboard visit.
type Session struct {
	Authorized bool
	Subject    string
	// References is nil until the caller picks two reference dates.
	References *domain.ReferencePair
}

type sessionKey struct{}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// FromContext returns the session attached to ctx, or an unauthorized
// zero session when there is none.
func FromContext(ctx context.Context) Session {
	s, _ := ctx.Value(sessionKey{}).(Session)
	return s
}

// WithReferences returns a copy of the session in ctx carrying pair.
func WithReferences(ctx context.Context, pair domain.ReferencePair) context.Context {
	s := FromContext(ctx)
	s.References = &pair
	return WithSession(ctx, s)
}
