// Package domain holds the append-only quote audit trail. Entries are
// written exactly once per top-level quote request and never mutated; the
// column layout matches the warehouse analytics schema.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// PMIQuoteLog is the audit record for one PMI quote request.
type PMIQuoteLog struct {
	ID               snowflake.ID   `gorm:"primaryKey"`
	RequestData      datatypes.JSON `gorm:"not null"`
	ResponseData     datatypes.JSON `gorm:"not null"`
	CarriersQuoted   int            `gorm:"not null;default:0"`
	BestRate         *float64       ``
	BestCarrierID    *snowflake.ID  ``
	ProcessingTimeMS float64        `gorm:"column:processing_time_ms"`
	Source           string         `gorm:"type:text;not null;default:api"`
	IPAddress        *string        `gorm:"column:ip_address;type:text"`
	CreatedAt        time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (PMIQuoteLog) TableName() string { return "hermes_pmi_quote_log" }

// TitleQuoteLog is the audit record for one title quote request.
type TitleQuoteLog struct {
	ID               snowflake.ID   `gorm:"primaryKey"`
	RequestData      datatypes.JSON `gorm:"not null"`
	ResponseData     datatypes.JSON `gorm:"not null"`
	CarriersQuoted   int            `gorm:"not null;default:0"`
	BestPremium      *float64       ``
	BestCarrierID    *snowflake.ID  ``
	ProcessingTimeMS float64        `gorm:"column:processing_time_ms"`
	Source           string         `gorm:"type:text;not null;default:api"`
	IPAddress        *string        `gorm:"column:ip_address;type:text"`
	CreatedAt        time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (TitleQuoteLog) TableName() string { return "hermes_title_quote_log" }
