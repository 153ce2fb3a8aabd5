package repository

import (
	"context"

	"github.com/pennyflow/backend/internal/domain/entity"
)

// InsightRepository covers insight classes and per-user preferences.
type InsightRepository interface {
	// ListClasses returns the full insight class catalog, builtin or not.
	ListClasses(ctx context.Context) ([]entity.InsightClass, error)
	// GetClassByKey returns ErrNotFound for unknown keys.
	GetClassByKey(ctx context.Context, key string) (*entity.InsightClass, error)
	// ListBuiltinWithPrefs returns every builtin insight class joined with the
	// user's preference, ordered by class id.
	ListBuiltinWithPrefs(ctx context.Context, userID string) ([]entity.InsightPrefView, error)
	GetBuiltinByKeys(ctx context.Context, keys []string) ([]entity.InsightClass, error)
	UpsertPref(ctx context.Context, pref entity.UserInsightPref) error
}
