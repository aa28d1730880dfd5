package contract

import "context"

// UpdateRepository remembers which webhook updates were already processed.
type UpdateRepository interface {
	// MarkProcessed records the update id and reports whether it was new.
	MarkProcessed(ctx context.Context, updateID int64) (bool, error)
}
