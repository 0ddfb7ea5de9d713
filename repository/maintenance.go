package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/whoami669/my-bot/database"

	"github.com/jackc/pgx/v5"
)

// ActivityRetention is how long raw message activity is kept. Insights never
// look further back than a week.
const ActivityRetention = 30 * 24 * time.Hour

// PruneActivity deletes message activity older than before across every guild
func PruneActivity(ctx context.Context, db *database.DB, before time.Time) (int64, error) {
	var deleted int64
	err := db.WithTransaction(ctx, func(tx pgx.Tx) error {
		result, err := tx.Exec(ctx, `DELETE FROM message_activity WHERE created_at < $1`, before)
		if err != nil {
			return fmt.Errorf("failed to prune message activity: %w", err)
		}
		deleted = result.RowsAffected()
		return nil
	})
	return deleted, err
}
