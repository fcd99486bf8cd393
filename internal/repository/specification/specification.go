package specification

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Specification narrows a GORM query.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}

type ByID struct {
	ID uuid.UUID
}

func (s ByID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id = ?", s.ID)
}

type ByName struct {
	Name string
}

func (s ByName) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("name = ?", s.Name)
}

type OrderBy struct {
	Field string
	Desc  bool
}

func (s OrderBy) Apply(db *gorm.DB) *gorm.DB {
	direction := "ASC"
	if s.Desc {
		direction = "DESC"
	}
	return db.Order(fmt.Sprintf("%s %s", s.Field, direction))
}

func apply(db *gorm.DB, specs ...Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

// Apply runs every specification against db in order.
func Apply(db *gorm.DB, specs ...Specification) *gorm.DB {
	return apply(db, specs...)
}
