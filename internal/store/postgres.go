package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"colorrush/internal/domain"
	"colorrush/internal/logger"
)

// PostgresStore keeps each user document as a JSONB row. Collection
// appends run inside a transaction with a row lock so interleaved saves
// from multiple sessions never clobber each other's entries.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a store backed by the given pool
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Get(ctx context.Context, userID string) (*domain.UserDocument, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT user_id, display_name, points, stats, game_history, recent_bets, created_at, updated_at
		FROM user_documents
		WHERE user_id = $1`, userID)

	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, userID)
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return doc, nil
}

func (s *PostgresStore) Create(ctx context.Context, doc *domain.UserDocument) error {
	statsJSON, historyJSON, betsJSON, err := marshalCollections(doc.Stats, doc.History, doc.RecentBets)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO user_documents (user_id, display_name, points, stats, game_history, recent_bets)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			points = EXCLUDED.points,
			stats = EXCLUDED.stats,
			game_history = EXCLUDED.game_history,
			recent_bets = EXCLUDED.recent_bets,
			updated_at = NOW()`,
		doc.UserID, doc.DisplayName, doc.Points, statsJSON, historyJSON, betsJSON)
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}
	return nil
}

func (s *PostgresStore) MergeFields(ctx context.Context, userID string, points int, stats domain.Stats, displayName string) error {
	statsJSON, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE user_documents
		SET points = $2,
		    stats = $3,
		    display_name = CASE WHEN $4 = '' THEN display_name ELSE $4 END,
		    updated_at = NOW()
		WHERE user_id = $1`,
		userID, points, statsJSON, displayName)
	if err != nil {
		return fmt.Errorf("failed to merge fields: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, userID)
	}
	return nil
}

func (s *PostgresStore) AppendHistory(ctx context.Context, userID string, entries []domain.HistoryEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return s.appendCollection(ctx, userID, "game_history", func(raw []byte) ([]byte, error) {
		var current []domain.HistoryEntry
		if err := json.Unmarshal(raw, &current); err != nil {
			return nil, fmt.Errorf("failed to unmarshal history: %w", err)
		}
		current = append(current, entries...)
		if len(current) > domain.HistoryStoreCap {
			current = current[len(current)-domain.HistoryStoreCap:]
		}
		return json.Marshal(current)
	})
}

func (s *PostgresStore) AppendBets(ctx context.Context, userID string, bets []domain.Bet) error {
	if len(bets) == 0 {
		return nil
	}
	return s.appendCollection(ctx, userID, "recent_bets", func(raw []byte) ([]byte, error) {
		var current []domain.Bet
		if err := json.Unmarshal(raw, &current); err != nil {
			return nil, fmt.Errorf("failed to unmarshal bets: %w", err)
		}
		current = append(append([]domain.Bet{}, bets...), current...)
		if len(current) > domain.RecentBetsStoreCap {
			current = current[:domain.RecentBetsStoreCap]
		}
		return json.Marshal(current)
	})
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// appendCollection rewrites one JSONB column under a row lock
func (s *PostgresStore) appendCollection(ctx context.Context, userID, column string, mutate func([]byte) ([]byte, error)) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			logger.FromContext(ctx).Error("Failed to rollback transaction", "error", rbErr)
		}
	}()

	var raw []byte
	query := fmt.Sprintf(`SELECT %s FROM user_documents WHERE user_id = $1 FOR UPDATE`, column)
	if err := tx.QueryRow(ctx, query, userID).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, userID)
		}
		return fmt.Errorf("failed to lock document: %w", err)
	}

	updated, err := mutate(raw)
	if err != nil {
		return err
	}

	query = fmt.Sprintf(`UPDATE user_documents SET %s = $2, updated_at = NOW() WHERE user_id = $1`, column)
	if _, err := tx.Exec(ctx, query, userID, updated); err != nil {
		return fmt.Errorf("failed to update collection: %w", err)
	}

	return tx.Commit(ctx)
}

func scanDocument(row pgx.Row) (*domain.UserDocument, error) {
	var (
		doc         domain.UserDocument
		statsRaw    []byte
		historyRaw  []byte
		betsRaw     []byte
		createdAt   time.Time
		updatedAt   time.Time
		displayName *string
	)

	if err := row.Scan(&doc.UserID, &displayName, &doc.Points, &statsRaw, &historyRaw, &betsRaw, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	if displayName != nil {
		doc.DisplayName = *displayName
	}
	doc.CreatedAt = createdAt
	doc.UpdatedAt = updatedAt

	if err := json.Unmarshal(statsRaw, &doc.Stats); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stats: %w", err)
	}
	if err := json.Unmarshal(historyRaw, &doc.History); err != nil {
		return nil, fmt.Errorf("failed to unmarshal history: %w", err)
	}
	if err := json.Unmarshal(betsRaw, &doc.RecentBets); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bets: %w", err)
	}
	return &doc, nil
}

func marshalCollections(stats domain.Stats, history []domain.HistoryEntry, bets []domain.Bet) (statsJSON, historyJSON, betsJSON []byte, err error) {
	if history == nil {
		history = []domain.HistoryEntry{}
	}
	if bets == nil {
		bets = []domain.Bet{}
	}

	statsJSON, err = json.Marshal(stats)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal stats: %w", err)
	}
	historyJSON, err = json.Marshal(history)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal history: %w", err)
	}
	betsJSON, err = json.Marshal(bets)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal bets: %w", err)
	}
	return statsJSON, historyJSON, betsJSON, nil
}
