package repository

import (
	"context"
	"database/sql"
	"errors"

	"mesto_backend/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type UserRepository interface {
	// Create assigns user.ID and stores the record. A taken email yields
	// OutcomeDuplicate.
	Create(ctx context.Context, user *model.User) error
	FindAll(ctx context.Context) ([]model.User, error)
	// FindByID never loads the password hash.
	FindByID(ctx context.Context, id string) (*model.User, error)
	// FindByEmailWithPassword is the only lookup that loads the hash.
	FindByEmailWithPassword(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, id string, update model.UserUpdate) (*model.User, error)
}

type pgUserRepository struct {
	db *sql.DB
}

func NewPgUserRepository(db *sql.DB) UserRepository {
	return &pgUserRepository{db: db}
}

func (r *pgUserRepository) Create(ctx context.Context, user *model.User) error {
	const op = "pgUserRepository.Create"
	if err := CheckUser(op, user); err != nil {
		return err
	}
	id := NewID()
	query := `INSERT INTO users (id, name, about, avatar, email, password)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query, id, user.Name, user.About, user.Avatar, user.Email, user.Password)
	if err != nil {
		return classifyPgError(op, err)
	}
	user.ID = id
	return nil
}

func (r *pgUserRepository) FindAll(ctx context.Context) ([]model.User, error) {
	const op = "pgUserRepository.FindAll"
	query := `SELECT id, name, about, avatar, email FROM users ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, classifyPgError(op, err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var user model.User
		if err := rows.Scan(&user.ID, &user.Name, &user.About, &user.Avatar, &user.Email); err != nil {
			return nil, classifyPgError(op, err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyPgError(op, err)
	}
	return users, nil
}

func (r *pgUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	const op = "pgUserRepository.FindByID"
	if _, err := parseID(op, id); err != nil {
		return nil, err
	}
	query := `SELECT id, name, about, avatar, email FROM users WHERE id = $1`
	user := &model.User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Name, &user.About, &user.Avatar, &user.Email,
	)
	if err != nil {
		return nil, classifyPgError(op, err)
	}
	return user, nil
}

func (r *pgUserRepository) FindByEmailWithPassword(ctx context.Context, email string) (*model.User, error) {
	const op = "pgUserRepository.FindByEmailWithPassword"
	query := `SELECT id, name, about, avatar, email, password FROM users WHERE email = $1`
	user := &model.User{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID, &user.Name, &user.About, &user.Avatar, &user.Email, &user.Password,
	)
	if err != nil {
		return nil, classifyPgError(op, err)
	}
	return user, nil
}

func (r *pgUserRepository) Update(ctx context.Context, id string, update model.UserUpdate) (*model.User, error) {
	const op = "pgUserRepository.Update"
	if _, err := parseID(op, id); err != nil {
		return nil, err
	}
	if err := CheckUserUpdate(op, update); err != nil {
		return nil, err
	}
	query := `UPDATE users
	          SET name = COALESCE($2, name), about = COALESCE($3, about), avatar = COALESCE($4, avatar)
	          WHERE id = $1
	          RETURNING id, name, about, avatar, email`
	user := &model.User{}
	err := r.db.QueryRowContext(ctx, query, id, update.Name, update.About, update.Avatar).Scan(
		&user.ID, &user.Name, &user.About, &user.Avatar, &user.Email,
	)
	if err != nil {
		return nil, classifyPgError(op, err)
	}
	return user, nil
}

// classifyPgError folds database/sql and PostgreSQL errors into an Outcome.
func classifyPgError(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return NewStorageError(op, OutcomeNotFound, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return NewStorageError(op, OutcomeDuplicate, err)
		case "22P02", "23502", "23514", "22001": // bad text repr, not null, check, too long
			return NewStorageError(op, OutcomeInvalid, err)
		}
	}
	return NewStorageError(op, OutcomeFailure, err)
}
