package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrAssetNotFound   = errors.New("asset not found")
	ErrInvalidAsset    = errors.New("invalid asset")
	ErrInvalidCategory = errors.New("invalid category")
	ErrDuplicateSymbol = errors.New("symbol already assigned")
)

// NamedEntity is the input to symbol assignment: something an import
// script wants listed under a ticker.
type NamedEntity struct {
	Name          string   `json:"name"`
	Category      Category `json:"category"`
	VariationHint string   `json:"variation_hint,omitempty"`
}

func (e NamedEntity) IsValid() bool {
	return strings.TrimSpace(e.Name) != "" && e.Category.IsValid()
}

// Asset is the persisted record a symbol is written back to.
type Asset struct {
	ID            string    `json:"id" gorm:"primaryKey;size:36"`
	Symbol        string    `json:"symbol" gorm:"size:64;not null;uniqueIndex"`
	Name          string    `json:"name" gorm:"not null"`
	Category      Category  `json:"category" gorm:"size:16;not null;index"`
	VariationHint string    `json:"variation_hint,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func NewAsset(entity NamedEntity, symbol string) Asset {
	now := time.Now().UTC()
	return Asset{
		ID:            uuid.New().String(),
		Symbol:        symbol,
		Name:          entity.Name,
		Category:      entity.Category,
		VariationHint: entity.VariationHint,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func (a Asset) IsValid() bool {
	return a.ID != "" &&
		a.Symbol != "" &&
		strings.TrimSpace(a.Name) != "" &&
		a.Category.IsValid()
}

// Entity returns the naming input the asset was created from.
func (a Asset) Entity() NamedEntity {
	return NamedEntity{Name: a.Name, Category: a.Category, VariationHint: a.VariationHint}
}

// Rename assigns a new symbol and bumps UpdatedAt.
func (a *Asset) Rename(symbol string) {
	a.Symbol = symbol
	a.UpdatedAt = time.Now().UTC()
}
