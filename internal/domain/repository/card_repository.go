package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"mesto_backend/internal/domain/model"
)

type CardRepository interface {
	// Create assigns card.ID and card.CreatedAt and stores the record.
	Create(ctx context.Context, card *model.Card) error
	FindAll(ctx context.Context) ([]model.Card, error)
	FindByID(ctx context.Context, id string) (*model.Card, error)
	DeleteByID(ctx context.Context, id string) error
	// AddLike and RemoveLike are atomic set operations on likes and return
	// the card as stored after the change.
	AddLike(ctx context.Context, cardID, userID string) (*model.Card, error)
	RemoveLike(ctx context.Context, cardID, userID string) (*model.Card, error)
}

type pgCardRepository struct {
	db *sql.DB
}

func NewPgCardRepository(db *sql.DB) CardRepository {
	return &pgCardRepository{db: db}
}

const cardColumns = `id, name, link, owner, likes, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*model.Card, error) {
	card := &model.Card{}
	var likes []byte
	if err := row.Scan(&card.ID, &card.Name, &card.Link, &card.Owner, &likes, &card.CreatedAt); err != nil {
		return nil, err
	}
	card.Likes = []string{}
	if len(likes) > 0 {
		if err := json.Unmarshal(likes, &card.Likes); err != nil {
			return nil, fmt.Errorf("decode likes: %w", err)
		}
	}
	return card, nil
}

func (r *pgCardRepository) Create(ctx context.Context, card *model.Card) error {
	const op = "pgCardRepository.Create"
	if err := CheckCard(op, card); err != nil {
		return err
	}
	id := NewID()
	createdAt := time.Now().UTC().Truncate(time.Millisecond)
	query := `INSERT INTO cards (id, name, link, owner, likes, created_at)
	          VALUES ($1, $2, $3, $4, '[]'::jsonb, $5)`
	if _, err := r.db.ExecContext(ctx, query, id, card.Name, card.Link, card.Owner, createdAt); err != nil {
		return classifyPgError(op, err)
	}
	card.ID = id
	card.CreatedAt = createdAt
	card.Likes = []string{}
	return nil
}

func (r *pgCardRepository) FindAll(ctx context.Context) ([]model.Card, error) {
	const op = "pgCardRepository.FindAll"
	rows, err := r.db.QueryContext(ctx, `SELECT `+cardColumns+` FROM cards ORDER BY created_at, id`)
	if err != nil {
		return nil, classifyPgError(op, err)
	}
	defer rows.Close()

	cards := []model.Card{}
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, classifyPgError(op, err)
		}
		cards = append(cards, *card)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyPgError(op, err)
	}
	return cards, nil
}

func (r *pgCardRepository) FindByID(ctx context.Context, id string) (*model.Card, error) {
	const op = "pgCardRepository.FindByID"
	if _, err := parseID(op, id); err != nil {
		return nil, err
	}
	card, err := scanCard(r.db.QueryRowContext(ctx, `SELECT `+cardColumns+` FROM cards WHERE id = $1`, id))
	if err != nil {
		return nil, classifyPgError(op, err)
	}
	return card, nil
}

func (r *pgCardRepository) DeleteByID(ctx context.Context, id string) error {
	const op = "pgCardRepository.DeleteByID"
	if _, err := parseID(op, id); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM cards WHERE id = $1`, id)
	if err != nil {
		return classifyPgError(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return classifyPgError(op, err)
	}
	if n == 0 {
		return NewStorageError(op, OutcomeNotFound, sql.ErrNoRows)
	}
	return nil
}

func (r *pgCardRepository) AddLike(ctx context.Context, cardID, userID string) (*model.Card, error) {
	const op = "pgCardRepository.AddLike"
	query := `UPDATE cards
	          SET likes = CASE WHEN likes ? $2::text THEN likes ELSE likes || jsonb_build_array($2::text) END
	          WHERE id = $1
	          RETURNING ` + cardColumns
	return r.updateLikes(ctx, op, query, cardID, userID)
}

func (r *pgCardRepository) RemoveLike(ctx context.Context, cardID, userID string) (*model.Card, error) {
	const op = "pgCardRepository.RemoveLike"
	query := `UPDATE cards
	          SET likes = likes - $2::text
	          WHERE id = $1
	          RETURNING ` + cardColumns
	return r.updateLikes(ctx, op, query, cardID, userID)
}

func (r *pgCardRepository) updateLikes(ctx context.Context, op, query, cardID, userID string) (*model.Card, error) {
	if _, err := parseID(op, cardID); err != nil {
		return nil, err
	}
	if _, err := parseID(op, userID); err != nil {
		return nil, err
	}
	card, err := scanCard(r.db.QueryRowContext(ctx, query, cardID, userID))
	if err != nil {
		return nil, classifyPgError(op, err)
	}
	return card, nil
}
