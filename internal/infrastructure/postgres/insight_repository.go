package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pennyflow/backend/internal/domain/entity"
	"github.com/pennyflow/backend/internal/domain/repository"
)

type InsightRepository struct {
	pool *pgxpool.Pool
}

func NewInsightRepository(pool *pgxpool.Pool) *InsightRepository {
	return &InsightRepository{pool: pool}
}

func (r *InsightRepository) ListClasses(ctx context.Context) ([]entity.InsightClass, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, key, name, is_builtin, created_at, updated_at
		FROM insight_classes
		ORDER BY key
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.InsightClass
	for rows.Next() {
		var c entity.InsightClass
		if err := rows.Scan(&c.ID, &c.Key, &c.Name, &c.IsBuiltin, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *InsightRepository) GetClassByKey(ctx context.Context, key string) (*entity.InsightClass, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, key, name, is_builtin, created_at, updated_at
		FROM insight_classes
		WHERE key = $1
	`, key)

	var c entity.InsightClass
	if err := row.Scan(&c.ID, &c.Key, &c.Name, &c.IsBuiltin, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *InsightRepository) ListBuiltinWithPrefs(ctx context.Context, userID string) ([]entity.InsightPrefView, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT ic.id, ic.key, ic.name, ic.is_builtin, COALESCE(p.enable, TRUE)
		FROM insight_classes ic
		LEFT JOIN user_insight_prefs p
			ON p.insight_class_id = ic.id AND p.user_id = $1
		WHERE ic.is_builtin = TRUE
		ORDER BY ic.id
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.InsightPrefView
	for rows.Next() {
		var v entity.InsightPrefView
		if err := rows.Scan(&v.InsightClassID, &v.Key, &v.Name, &v.IsBuiltin, &v.Enable); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *InsightRepository) GetBuiltinByKeys(ctx context.Context, keys []string) ([]entity.InsightClass, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, key, name, is_builtin, created_at, updated_at
		FROM insight_classes
		WHERE key = ANY($1) AND is_builtin = TRUE
	`, keys)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.InsightClass
	for rows.Next() {
		var c entity.InsightClass
		if err := rows.Scan(&c.ID, &c.Key, &c.Name, &c.IsBuiltin, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *InsightRepository) UpsertPref(ctx context.Context, pref entity.UserInsightPref) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_insight_prefs (user_id, insight_class_id, enable)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, insight_class_id) DO UPDATE SET enable = EXCLUDED.enable
	`, pref.UserID, pref.InsightClassID, pref.Enable)
	return err
}

var _ repository.InsightRepository = (*InsightRepository)(nil)
