package repository

import (
	"context"
	"fmt"

	"github.com/whoami669/my-bot/database"
	"github.com/whoami669/my-bot/models"
)

// ContentRepository implements the ContentRepository interface
type ContentRepository struct {
	q       Queryable
	guildID int64
}

// NewContentRepository creates a content repository outside a transaction
func NewContentRepository(db *database.DB, guildID int64) *ContentRepository {
	return &ContentRepository{q: db.Pool, guildID: guildID}
}

func newContentRepository(tx Queryable, guildID int64) *ContentRepository {
	return &ContentRepository{q: tx, guildID: guildID}
}

// Create stores generated promotional content
func (r *ContentRepository) Create(ctx context.Context, content *models.GeneratedContent) error {
	hashtags := content.Hashtags
	if hashtags == nil {
		hashtags = []string{}
	}

	query := `
		INSERT INTO generated_content
		(guild_id, requested_by, platform, content_type, caption, hashtags,
		 image_prompt, call_to_action, platform_notes, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		r.guildID,
		content.RequestedBy,
		content.Platform,
		content.ContentType,
		content.Caption,
		hashtags,
		content.ImagePrompt,
		content.CallToAction,
		content.PlatformNotes,
		content.ImageURL,
	).Scan(&content.ID, &content.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to store %s content: %w", content.Platform, err)
	}

	content.GuildID = r.guildID
	return nil
}
