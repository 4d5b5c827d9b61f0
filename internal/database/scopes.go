package database

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Limit bounds a query to n rows. Non-positive values leave it unbounded.
func Limit(n int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if n <= 0 {
			return db
		}
		return db.Limit(n)
	}
}

// OrderBy sorts a query by a single column. An empty column leaves the
// order to the database.
func OrderBy(column string, desc bool) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if column == "" {
			return db
		}
		return db.Order(clause.OrderByColumn{
			Column: clause.Column{Table: clause.CurrentTable, Name: column},
			Desc:   desc,
		})
	}
}
