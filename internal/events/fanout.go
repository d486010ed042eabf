package events

import (
	"context"
	"errors"
)

// Fanout publishes every event to each publisher in order. A failing
// publisher does not stop the rest; their errors are joined.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, ev Event) error {
	var errs []error
	for _, p := range f {
		if err := p.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
