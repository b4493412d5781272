package types

import (
	"context"

	"internscout/internal/domain"
)

// Connector turns one source URL into zero or more raw posting records.
// Implementations may return an error; the dispatcher absorbs it.
type Connector interface {
	Name() string
	Extract(ctx context.Context, url string) ([]domain.Raw, error)
}

// ConnectorFunc adapts a function to the Connector interface.
type ConnectorFunc struct {
	ID string
	Fn func(ctx context.Context, url string) ([]domain.Raw, error)
}

func (c ConnectorFunc) Name() string { return c.ID }

func (c ConnectorFunc) Extract(ctx context.Context, url string) ([]domain.Raw, error) {
	return c.Fn(ctx, url)
}
