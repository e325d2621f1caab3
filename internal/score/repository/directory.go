package repository

import (
	"context"
	"errors"

	"ioiscore/internal/common/db"
	"ioiscore/internal/score/model"
)

var ErrContestNotFound = errors.New("contest not found")

// DirectoryRepository answers who is in a contest and which problems it
// carries. Every registered contestant appears on the leaderboard whether
// or not they submitted anything.
type DirectoryRepository interface {
	ContestExists(ctx context.Context, contestID int64) error
	ListContestants(ctx context.Context, contestID int64) ([]model.User, error)
	ListProblems(ctx context.Context, contestID int64) ([]model.Problem, error)
}

type MySQLDirectoryRepository struct {
	db db.Database
}

func NewDirectoryRepository(database db.Database) DirectoryRepository {
	return &MySQLDirectoryRepository{db: database}
}

func (r *MySQLDirectoryRepository) ContestExists(ctx context.Context, contestID int64) error {
	query := "SELECT id FROM contest WHERE id = ?"
	var id int64
	if err := r.db.QueryRow(ctx, query, contestID).Scan(&id); err != nil {
		if db.IsNoRows(err) {
			return ErrContestNotFound
		}
		return err
	}
	return nil
}

func (r *MySQLDirectoryRepository) ListContestants(ctx context.Context, contestID int64) ([]model.User, error) {
	query := `
		SELECT u.id, u.username
		FROM contest_user cu
		JOIN user u ON u.id = cu.user_id
		WHERE cu.contest_id = ?
		ORDER BY u.id ASC`
	rows, err := r.db.Query(ctx, query, contestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *MySQLDirectoryRepository) ListProblems(ctx context.Context, contestID int64) ([]model.Problem, error) {
	query := `
		SELECT p.id, p.title
		FROM contest_problem cp
		JOIN problem p ON p.id = cp.problem_id
		WHERE cp.contest_id = ?
		ORDER BY cp.ordinal ASC, p.id ASC`
	rows, err := r.db.Query(ctx, query, contestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var problems []model.Problem
	for rows.Next() {
		var p model.Problem
		if err := rows.Scan(&p.ID, &p.Title); err != nil {
			return nil, err
		}
		problems = append(problems, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return problems, nil
}
