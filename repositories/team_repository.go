package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jdvalencia/lineup-showdown/models"
	"github.com/lib/pq"
)

var (
	ErrTeamNotFound = errors.New("team not found")
	ErrTeamConflict = errors.New("team id already exists")
)

// TeamRepository stores each team as one JSONB document keyed by its id.
// Methods taking a SQLExecutor run against it when non-nil, so the player
// move can read and write both documents inside one transaction.
type TeamRepository interface {
	List(ctx context.Context) ([]models.Team, error)
	GetByID(ctx context.Context, exec SQLExecutor, id string) (*models.Team, error)
	GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id string) (*models.Team, error)
	Create(ctx context.Context, team *models.Team) error
	Update(ctx context.Context, exec SQLExecutor, team *models.Team) error
	Upsert(ctx context.Context, team *models.Team) error
	Delete(ctx context.Context, id string) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTeamRepository) List(ctx context.Context) ([]models.Team, error) {
	query := `SELECT doc FROM teams ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	defer rows.Close()

	var teams []models.Team
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan team document: %w", err)
		}
		var team models.Team
		if err := json.Unmarshal(raw, &team); err != nil {
			return nil, fmt.Errorf("decode team document: %w", err)
		}
		teams = append(teams, team)
	}
	return teams, rows.Err()
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, exec SQLExecutor, id string) (*models.Team, error) {
	query := `SELECT doc FROM teams WHERE id = $1`
	return r.getOne(ctx, r.getExecutor(exec), query, id)
}

// GetByIDForUpdate locks the document row for the calling transaction.
func (r *postgresTeamRepository) GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id string) (*models.Team, error) {
	query := `SELECT doc FROM teams WHERE id = $1 FOR UPDATE`
	return r.getOne(ctx, r.getExecutor(exec), query, id)
}

func (r *postgresTeamRepository) getOne(ctx context.Context, exec SQLExecutor, query, id string) (*models.Team, error) {
	var raw []byte
	err := exec.QueryRowContext(ctx, query, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTeamNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get team %q: %w", id, err)
	}

	var team models.Team
	if err := json.Unmarshal(raw, &team); err != nil {
		return nil, fmt.Errorf("decode team document %q: %w", id, err)
	}
	return &team, nil
}

func (r *postgresTeamRepository) Create(ctx context.Context, team *models.Team) error {
	raw, err := json.Marshal(team)
	if err != nil {
		return fmt.Errorf("encode team document: %w", err)
	}

	query := `INSERT INTO teams (id, doc) VALUES ($1, $2)`
	_, err = r.db.ExecContext(ctx, query, team.ID, raw)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrTeamConflict
		}
		return fmt.Errorf("create team %q: %w", team.ID, err)
	}
	return nil
}

func (r *postgresTeamRepository) Update(ctx context.Context, exec SQLExecutor, team *models.Team) error {
	raw, err := json.Marshal(team)
	if err != nil {
		return fmt.Errorf("encode team document: %w", err)
	}

	query := `UPDATE teams SET doc = $2 WHERE id = $1`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, team.ID, raw)
	if err != nil {
		return fmt.Errorf("update team %q: %w", team.ID, err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

// Upsert writes the document regardless of prior existence. Backup import
// overwrites matching documents by id with this.
func (r *postgresTeamRepository) Upsert(ctx context.Context, team *models.Team) error {
	raw, err := json.Marshal(team)
	if err != nil {
		return fmt.Errorf("encode team document: %w", err)
	}

	query := `
		INSERT INTO teams (id, doc) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc`
	_, err = r.db.ExecContext(ctx, query, team.ID, raw)
	if err != nil {
		return fmt.Errorf("upsert team %q: %w", team.ID, err)
	}
	return nil
}

func (r *postgresTeamRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM teams WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete team %q: %w", id, err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}
