package models

import "time"

const (
	EventTypeGeneral = "general"

	RecurrenceNone    = ""
	RecurrenceWeekly  = "weekly"
	RecurrenceMonthly = "monthly"
	RecurrenceYearly  = "yearly"
)

type Event struct {
	ID                string    `gorm:"primaryKey"`
	Title             string    `gorm:"not null"`
	Description       string    `gorm:"not null;default:''"`
	EventDate         time.Time `gorm:"type:date;not null;index"`
	EventTime         string    `gorm:"not null;default:''"`
	EventType         string    `gorm:"not null;default:general"`
	Location          string    `gorm:"not null;default:''"`
	IsRecurring       bool      `gorm:"not null;default:false"`
	RecurrencePattern string    `gorm:"not null;default:''"`
	CreatedBy         string    `gorm:"not null;default:''"`
	CreatedAt         time.Time `gorm:"not null"`
}
