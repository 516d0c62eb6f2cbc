package repository

import (
	"strings"

	"gorm.io/gorm"
)

// Sentinels used by the catalog UI to mean "no filter on this field".
const (
	AllSubjects   = "All Subjects"
	AllLevels     = "All Levels"
	AllCategories = "All Categories"
)

// Filter is the caller-held filter state for a catalog listing. The zero
// value (or any field at its sentinel) applies no constraint for that field.
type Filter struct {
	Search   string
	Subject  string
	Level    string
	Category string
}

func (f Filter) IsZero() bool {
	return strings.TrimSpace(f.Search) == "" &&
		(f.Subject == "" || f.Subject == AllSubjects) &&
		(f.Level == "" || f.Level == AllLevels) &&
		(f.Category == "" || f.Category == AllCategories)
}

// Apply composes the filter into a query over the resources table, newest
// first. The search term matches title, description or subject as a
// case-insensitive substring (OR group); subject/level/category are exact,
// case-sensitive equality matches conjoined with the search clause. Apply is
// side-effect-free: the same filter always yields an equivalent query.
func (f Filter) Apply(db *gorm.DB) *gorm.DB {
	if term := strings.TrimSpace(f.Search); term != "" {
		pattern := "%" + strings.ToLower(term) + "%"
		db = db.Where(
			"(LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(subject) LIKE ?)",
			pattern, pattern, pattern,
		)
	}

	if f.Subject != "" && f.Subject != AllSubjects {
		db = db.Where("subject = ?", f.Subject)
	}

	if f.Level != "" && f.Level != AllLevels {
		db = db.Where("level = ?", f.Level)
	}

	if f.Category != "" && f.Category != AllCategories {
		db = db.Where("category = ?", f.Category)
	}

	return db.Order("created_at DESC")
}
