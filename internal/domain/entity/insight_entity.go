package entity

import "time"

// InsightClass is a category of spending insight the system can generate.
// Builtin classes ship with the product; users toggle them per account.
type InsightClass struct {
	ID        string
	Key       string
	Name      string
	IsBuiltin bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserInsightPref is a per-user toggle for an insight class.
type UserInsightPref struct {
	UserID         string
	InsightClassID string
	Enable         bool
}

// InsightPrefView is an insight class joined with the caller's preference.
// Enable defaults to true when the user has never set a preference.
type InsightPrefView struct {
	InsightClassID string
	Key            string
	Name           string
	IsBuiltin      bool
	Enable         bool
}
