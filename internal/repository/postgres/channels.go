package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/jafarshop/pimsync/internal/domain"
)

type channelRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewChannelRepository creates a new channel repository
func NewChannelRepository(db *sql.DB, logger *zap.Logger) *channelRepository {
	return &channelRepository{
		db:     db,
		logger: logger,
	}
}

func (r *channelRepository) List(ctx context.Context) ([]*domain.Channel, error) {
	query := `
		SELECT c.code,
			COALESCE(array_agg(DISTINCT cl.locale_code) FILTER (WHERE cl.locale_code IS NOT NULL), '{}'),
			COALESCE(array_agg(DISTINCT cc.currency_code) FILTER (WHERE cc.currency_code IS NOT NULL), '{}')
		FROM channels c
		LEFT JOIN channel_locales cl ON cl.channel_code = c.code
		LEFT JOIN channel_currencies cc ON cc.channel_code = c.code
		GROUP BY c.code
		ORDER BY c.code ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list channels", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var channels []*domain.Channel
	for rows.Next() {
		var ch domain.Channel
		if err := rows.Scan(&ch.Code, pq.Array(&ch.Locales), pq.Array(&ch.Currencies)); err != nil {
			return nil, err
		}
		channels = append(channels, &ch)
	}

	return channels, rows.Err()
}
