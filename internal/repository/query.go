package repository

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListParams carries the owner scope, filters, ordering and window of a list query.
// SortColumn must already be resolved from a request-level allow-list.
type ListParams struct {
	UserID     string
	Search     string
	Status     string
	CampaignID *uint
	SortColumn string
	Descending bool
	Limit      int
	Offset     int
}

// StatusCount is one row of a GROUP BY status aggregate
type StatusCount struct {
	CampaignID uint
	Status     string
	Count      int64
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching s anywhere in the column
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// ownedBy scopes a query to rows of a single user
func ownedBy(userID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
}

// searchColumn applies a case-sensitive substring match on one column
func searchColumn(column, term string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if term == "" {
			return db
		}
		return db.Where(clause.Expr{
			SQL:  "? LIKE ?",
			Vars: []interface{}{clause.Column{Name: column}, containsPattern(term)},
		})
	}
}

// withStatus filters by an exact status when one is given
func withStatus(status string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if status == "" {
			return db
		}
		return db.Where("status = ?", status)
	}
}

// orderAndPage applies the resolved sort column and the page window
func orderAndPage(p ListParams) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if p.SortColumn != "" {
			db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: p.SortColumn}, Desc: p.Descending})
		}
		if p.Limit > 0 {
			db = db.Limit(p.Limit).Offset(p.Offset)
		}
		return db
	}
}
