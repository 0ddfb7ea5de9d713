package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/whoami669/my-bot/database"
	"github.com/whoami669/my-bot/models"
	"github.com/whoami669/my-bot/service"

	"github.com/jackc/pgx/v5"
)

const accountColumns = `id, guild_id, discord_id, balance, last_daily, daily_streak,
	last_work, last_crime, last_rob, created_at, updated_at`

// cooldownColumns maps each cooldown to the column holding its last use
var cooldownColumns = map[service.CooldownKind]string{
	service.CooldownDaily: "last_daily",
	service.CooldownWork:  "last_work",
	service.CooldownCrime: "last_crime",
	service.CooldownRob:   "last_rob",
}

// AccountRepository implements the AccountRepository interface
type AccountRepository struct {
	q       Queryable
	guildID int64
}

// NewAccountRepository creates an account repository outside a transaction
func NewAccountRepository(db *database.DB, guildID int64) *AccountRepository {
	return &AccountRepository{q: db.Pool, guildID: guildID}
}

func newAccountRepository(tx Queryable, guildID int64) *AccountRepository {
	return &AccountRepository{q: tx, guildID: guildID}
}

func scanAccount(row pgx.Row) (*models.Account, error) {
	var a models.Account
	err := row.Scan(
		&a.ID,
		&a.GuildID,
		&a.DiscordID,
		&a.Balance,
		&a.LastDaily,
		&a.DailyStreak,
		&a.LastWork,
		&a.LastCrime,
		&a.LastRob,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetByDiscordID retrieves an account by Discord ID
func (r *AccountRepository) GetByDiscordID(ctx context.Context, discordID int64) (*models.Account, error) {
	query := `SELECT ` + accountColumns + `
		FROM economy_accounts
		WHERE guild_id = $1 AND discord_id = $2`

	account, err := scanAccount(r.q.QueryRow(ctx, query, r.guildID, discordID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account %d: %w", discordID, err)
	}

	return account, nil
}

// GetOrCreateForUpdate creates the account if missing and locks its row
func (r *AccountRepository) GetOrCreateForUpdate(ctx context.Context, discordID int64) (*models.Account, bool, error) {
	insert := `
		INSERT INTO economy_accounts (guild_id, discord_id)
		VALUES ($1, $2)
		ON CONFLICT (guild_id, discord_id) DO NOTHING
	`

	tag, err := r.q.Exec(ctx, insert, r.guildID, discordID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create account %d: %w", discordID, err)
	}
	created := tag.RowsAffected() == 1

	query := `SELECT ` + accountColumns + `
		FROM economy_accounts
		WHERE guild_id = $1 AND discord_id = $2
		FOR UPDATE`

	account, err := scanAccount(r.q.QueryRow(ctx, query, r.guildID, discordID))
	if err != nil {
		return nil, false, fmt.Errorf("failed to lock account %d: %w", discordID, err)
	}

	return account, created, nil
}

// UpdateBalance sets a member's balance
func (r *AccountRepository) UpdateBalance(ctx context.Context, discordID int64, newBalance int64) error {
	query := `
		UPDATE economy_accounts
		SET balance = $3, updated_at = NOW()
		WHERE guild_id = $1 AND discord_id = $2
	`

	result, err := r.q.Exec(ctx, query, r.guildID, discordID, newBalance)
	if err != nil {
		return fmt.Errorf("failed to update balance for user %d: %w", discordID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("account for user %d not found", discordID)
	}

	return nil
}

// UpdateDaily stores the daily claim time and streak
func (r *AccountRepository) UpdateDaily(ctx context.Context, discordID int64, claimedAt time.Time, streak int) error {
	query := `
		UPDATE economy_accounts
		SET last_daily = $3, daily_streak = $4, updated_at = NOW()
		WHERE guild_id = $1 AND discord_id = $2
	`

	result, err := r.q.Exec(ctx, query, r.guildID, discordID, claimedAt, streak)
	if err != nil {
		return fmt.Errorf("failed to update daily for user %d: %w", discordID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("account for user %d not found", discordID)
	}

	return nil
}

// UpdateCooldown stores the last use of a cooldown-gated action
func (r *AccountRepository) UpdateCooldown(ctx context.Context, discordID int64, kind service.CooldownKind, at time.Time) error {
	column, ok := cooldownColumns[kind]
	if !ok {
		return fmt.Errorf("unknown cooldown %q", kind)
	}

	query := fmt.Sprintf(`
		UPDATE economy_accounts
		SET %s = $3, updated_at = NOW()
		WHERE guild_id = $1 AND discord_id = $2
	`, column)

	result, err := r.q.Exec(ctx, query, r.guildID, discordID, at)
	if err != nil {
		return fmt.Errorf("failed to update %s cooldown for user %d: %w", kind, discordID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("account for user %d not found", discordID)
	}

	return nil
}

// GetTopBalances returns the richest accounts with a positive balance
func (r *AccountRepository) GetTopBalances(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	query := `
		SELECT discord_id, balance
		FROM economy_accounts
		WHERE guild_id = $1 AND balance > 0
		ORDER BY balance DESC, discord_id ASC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, r.guildID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top balances: %w", err)
	}
	defer rows.Close()

	var entries []*models.LeaderboardEntry
	for rows.Next() {
		entry := &models.LeaderboardEntry{Rank: len(entries) + 1}
		if err := rows.Scan(&entry.DiscordID, &entry.Value); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leaderboard: %w", err)
	}

	return entries, nil
}

// GetRank returns the 1-based balance rank, or 0 when the account does not exist
func (r *AccountRepository) GetRank(ctx context.Context, discordID int64) (int, error) {
	query := `
		SELECT 1 + (
			SELECT COUNT(*)
			FROM economy_accounts other
			WHERE other.guild_id = a.guild_id AND other.balance > a.balance
		)
		FROM economy_accounts a
		WHERE a.guild_id = $1 AND a.discord_id = $2
	`

	var rank int
	err := r.q.QueryRow(ctx, query, r.guildID, discordID).Scan(&rank)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get rank for user %d: %w", discordID, err)
	}

	return rank, nil
}
