// Package audit combines audit sinks.
package audit

import (
	"context"
	"errors"

	"starbots/internal/app/ports"
	"starbots/internal/domain/bot"
)

// Fanout appends every entry to all sinks and joins their errors.
type Fanout []ports.AuditSink

func (f Fanout) Append(ctx context.Context, entry bot.AuditEntry) error {
	var errs []error
	for _, sink := range f {
		if err := sink.Append(ctx, entry); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
