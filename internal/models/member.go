package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type Member struct {
	ID             uint          `gorm:"primaryKey"`
	FullName       string        `gorm:"not null"`
	SearchName     string        `gorm:"not null;index"`
	Gender         Gender        `gorm:"not null;default:male"`
	PhoneMobile    string        `gorm:"not null;default:''"`
	PhoneHome      string        `gorm:"not null;default:''"`
	Email          string        `gorm:"not null;default:''"`
	BirthDate      *time.Time    `gorm:"type:date"`
	RepentanceDate *time.Time    `gorm:"type:date"`
	BaptismDate    *time.Time    `gorm:"type:date"`
	JoinDate       *time.Time    `gorm:"type:date"`
	DepartureDate  *time.Time    `gorm:"type:date"`
	MaritalStatus  MaritalStatus `gorm:"not null;default:unspecified"`
	SocialStatus   SocialStatus  `gorm:"not null;default:unspecified"`
	Education      string        `gorm:"not null;default:''"`
	Profession     string        `gorm:"not null;default:''"`
	Notes          string        `gorm:"not null;default:''"`
	HolySpirit     bool          `gorm:"not null;default:false"`
	IsActive       bool          `gorm:"not null;index"`
	PhotoURL       string        `gorm:"not null;default:''"`
	DistrictID     *uint         `gorm:"index"`
	Services       []ServiceAssignment
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (member *Member) BeforeSave(*gorm.DB) error {
	member.SearchName = NormalizeSearchName(member.FullName)
	return nil
}

// NormalizeSearchName lower-cases with full Unicode folding, which SQLite's
// lower() does not do for Cyrillic names.
func NormalizeSearchName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

func (member *Member) IsBaptized() bool {
	return member.BaptismDate != nil && !member.BaptismDate.IsZero()
}

// MemberActivation sets the active flag. Deactivating stamps the departure
// date with At unless one is already set; reactivating clears it.
type MemberActivation struct {
	Active bool
	At     time.Time
}

// MemberFilter narrows a member listing. Zero values disable a filter.
type MemberFilter struct {
	SearchName    string
	ActiveOnly    bool
	Gender        Gender
	ServiceTypeID uint
	DistrictID    uint
}

type ServiceType struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"not null;uniqueIndex"`
}

type ServiceAssignment struct {
	ID            uint        `gorm:"primaryKey"`
	MemberID      uint        `gorm:"not null;index"`
	ServiceTypeID uint        `gorm:"not null;index"`
	ServiceType   ServiceType `gorm:"constraint:OnDelete:RESTRICT"`
	IsActive      bool        `gorm:"not null"`
	StartDate     *time.Time  `gorm:"type:date"`
	EndDate       *time.Time  `gorm:"type:date"`
}

type District struct {
	ID         uint   `gorm:"primaryKey"`
	Number     int    `gorm:"not null;uniqueIndex"`
	Area       string `gorm:"not null;default:''"`
	LeaderName string `gorm:"not null;default:''"`
}

type Presbyter struct {
	ID       uint   `gorm:"primaryKey"`
	MemberID uint   `gorm:"not null;index"`
	Member   Member `gorm:"constraint:OnDelete:CASCADE"`
}

type Deacon struct {
	ID          uint   `gorm:"primaryKey"`
	MemberID    uint   `gorm:"not null;index"`
	Member      Member `gorm:"constraint:OnDelete:CASCADE"`
	PresbyterID *uint
}
