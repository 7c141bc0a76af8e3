package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Product represents an item on the shop menu.
type Product struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"type:varchar(255);not null"`
	NameKey     string          `json:"-" gorm:"type:varchar(255);uniqueIndex;not null"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Description string          `json:"description" gorm:"type:text"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NormalizeName returns the case-normalized form of a product name. The
// uniqueness constraint on products is defined over this value, so names
// differing only in case or surrounding whitespace collide.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
