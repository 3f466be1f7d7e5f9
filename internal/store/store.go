// Package store provides durable per-user record storage behind a
// common Repository interface, backed by either a JSON file or
// PostgreSQL.
package store

import (
	"context"

	"github.com/hoyolink/hoyolink/internal/models"
)

// Repository defines the persistence operations required by the
// command layer. Implementations must make each Put and Delete a
// whole-record write keyed by user ID; concurrent writers for
// different users are safe, and the last write wins for the same user.
type Repository interface {
	// Get loads the record for userID. The second return value is
	// false when no record exists.
	Get(ctx context.Context, userID string) (models.UserRecord, bool, error)
	// Put stores rec under userID, replacing any previous record.
	Put(ctx context.Context, userID string, rec models.UserRecord) error
	// Delete destroys the record for userID. Deleting a missing
	// record is not an error.
	Delete(ctx context.Context, userID string) error
	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)
}
