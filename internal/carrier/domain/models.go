// Package domain contains the carrier registry reference models.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type CarrierStatus string

const (
	CarrierStatusActive   CarrierStatus = "active"
	CarrierStatusInactive CarrierStatus = "inactive"
	CarrierStatusRunoff   CarrierStatus = "runoff"
)

// Line identifies a product line the engine can quote.
type Line string

const (
	LinePMI   Line = "pmi"
	LineTitle Line = "title"
)

// Carrier is an insurance carrier known to the registry. The engine never
// mutates carriers; ingestion owns their lifecycle.
type Carrier struct {
	ID           snowflake.ID  `gorm:"primaryKey"`
	NAICCode     string        `gorm:"column:naic_code;type:text;not null;uniqueIndex"`
	LegalName    string        `gorm:"type:text;not null"`
	Slug         string        `gorm:"type:text;not null;uniqueIndex"`
	AMBestRating *string       `gorm:"column:am_best_rating;type:text"`
	Status       CarrierStatus `gorm:"type:text;not null;default:active"`
	CreatedAt    time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Carrier) TableName() string { return "hermes_carriers" }

// CarrierLicense records a carrier's authority to write a line in a state.
// Appetite filtering is a plain lookup against these rows.
type CarrierLicense struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	CarrierID snowflake.ID `gorm:"not null;index:idx_carrier_licenses_key,unique"`
	State     string       `gorm:"type:text;not null;index:idx_carrier_licenses_key,unique"`
	Line      Line         `gorm:"type:text;not null;index:idx_carrier_licenses_key,unique"`
	Active    bool         `gorm:"not null;default:true"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (CarrierLicense) TableName() string { return "hermes_carrier_licenses" }
