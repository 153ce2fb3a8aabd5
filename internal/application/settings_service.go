package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/pennyflow/backend/internal/domain/entity"
	repo "github.com/pennyflow/backend/internal/domain/repository"
	"github.com/pennyflow/backend/pkg/helpers"
)

var (
	ErrNoFieldsUpdated   = errors.New("no profile fields were updated")
	ErrNoUpdatesProvided = errors.New("no preference updates provided")
	ErrInvalidClassKeys  = errors.New("invalid insight class keys")
	ErrInvalidClass      = errors.New("insight class not found")
)

// SettingsService covers profile updates and insight preference management
// for authenticated users.
type SettingsService struct {
	Users    repo.UserRepository
	Insights repo.InsightRepository
	Logger   *logrus.Logger
}

func NewSettingsService(users repo.UserRepository, insights repo.InsightRepository, logger *logrus.Logger) *SettingsService {
	return &SettingsService{Users: users, Insights: insights, Logger: logger}
}

type UpdateProfileInput struct {
	Name              string
	Country           string
	City              string
	PreferredCurrency string
}

// UpdateProfile applies the non-empty fields of in to the user's profile.
// At least one field must change.
func (s *SettingsService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}

	updated := false
	if name := helpers.NormalizeName(in.Name); name != "" {
		u.Name = name
		updated = true
	}
	if in.Country != "" {
		u.Country = in.Country
		updated = true
	}
	if in.City != "" {
		u.City = in.City
		updated = true
	}
	if in.PreferredCurrency != "" {
		u.PreferredCurrency = in.PreferredCurrency
		updated = true
	}
	if !updated {
		return nil, ErrNoFieldsUpdated
	}

	if err := s.Users.UpdateProfile(ctx, u); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.WithField("user_id", u.ID).Info("user profile updated")
	}
	return u, nil
}

// ListInsightClasses returns the whole class catalog, builtin or not.
func (s *SettingsService) ListInsightClasses(ctx context.Context) ([]entity.InsightClass, error) {
	return s.Insights.ListClasses(ctx)
}

// GetInsightClass resolves one class by its key.
func (s *SettingsService) GetInsightClass(ctx context.Context, key string) (*entity.InsightClass, error) {
	c, err := s.Insights.GetClassByKey(ctx, key)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidClass
		}
		return nil, err
	}
	return c, nil
}

// ListInsightPrefs returns the caller's preference for every builtin insight
// class; classes the user never touched default to enabled.
func (s *SettingsService) ListInsightPrefs(ctx context.Context, userID string) ([]entity.InsightPrefView, error) {
	return s.Insights.ListBuiltinWithPrefs(ctx, userID)
}

type InsightPrefUpdate struct {
	Key    string
	Enable bool
}

// UpdateInsightPrefs upserts the given per-class toggles. Every key must name
// a builtin insight class; unknown keys reject the whole batch.
func (s *SettingsService) UpdateInsightPrefs(ctx context.Context, userID string, updates []InsightPrefUpdate) error {
	if len(updates) == 0 {
		return ErrNoUpdatesProvided
	}

	keys := make([]string, 0, len(updates))
	for _, u := range updates {
		keys = append(keys, u.Key)
	}
	classes, err := s.Insights.GetBuiltinByKeys(ctx, keys)
	if err != nil {
		return err
	}
	byKey := make(map[string]entity.InsightClass, len(classes))
	for _, c := range classes {
		byKey[c.Key] = c
	}
	for _, k := range keys {
		if _, ok := byKey[k]; !ok {
			return ErrInvalidClassKeys
		}
	}

	for _, upd := range updates {
		pref := entity.UserInsightPref{
			UserID:         userID,
			InsightClassID: byKey[upd.Key].ID,
			Enable:         upd.Enable,
		}
		if err := s.Insights.UpsertPref(ctx, pref); err != nil {
			return err
		}
	}
	if s.Logger != nil {
		s.Logger.WithField("user_id", userID).Info("insight prefs updated")
	}
	return nil
}
