package models

import (
	"errors"
	"strings"
)

var (
	ErrUnknownRole          = errors.New("unknown role")
	ErrUnknownGender        = errors.New("unknown gender")
	ErrUnknownMaritalStatus = errors.New("unknown marital status")
	ErrUnknownSocialStatus  = errors.New("unknown social status")
)

// Unspecified is the stored value for legacy or missing enumerated fields.
const Unspecified = "unspecified"

type Role string

const (
	RoleAdmin     Role = "admin"
	RolePresbyter Role = "presbyter"
	RoleDeacon    Role = "deacon"
	RoleUser      Role = "user"
)

func Roles() []Role {
	return []Role{RoleAdmin, RolePresbyter, RoleDeacon, RoleUser}
}

func ParseRole(raw string) (Role, error) {
	candidate := Role(strings.ToLower(strings.TrimSpace(raw)))
	for _, role := range Roles() {
		if candidate == role {
			return role, nil
		}
	}
	return "", ErrUnknownRole
}

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func ParseGender(raw string) (Gender, error) {
	switch Gender(strings.ToLower(strings.TrimSpace(raw))) {
	case GenderMale:
		return GenderMale, nil
	case GenderFemale:
		return GenderFemale, nil
	default:
		return "", ErrUnknownGender
	}
}

type MaritalStatus string

const (
	MaritalSingle      MaritalStatus = "single"
	MaritalMarried     MaritalStatus = "married"
	MaritalWidowed     MaritalStatus = "widowed"
	MaritalDivorced    MaritalStatus = "divorced"
	MaritalUnspecified MaritalStatus = Unspecified
)

func MaritalStatuses() []MaritalStatus {
	return []MaritalStatus{MaritalSingle, MaritalMarried, MaritalWidowed, MaritalDivorced, MaritalUnspecified}
}

// ParseMaritalStatus maps an empty value to MaritalUnspecified.
func ParseMaritalStatus(raw string) (MaritalStatus, error) {
	candidate := MaritalStatus(strings.ToLower(strings.TrimSpace(raw)))
	if candidate == "" {
		return MaritalUnspecified, nil
	}
	for _, status := range MaritalStatuses() {
		if candidate == status {
			return status, nil
		}
	}
	return "", ErrUnknownMaritalStatus
}

type SocialStatus string

const (
	SocialEmployed     SocialStatus = "employed"
	SocialSelfEmployed SocialStatus = "self_employed"
	SocialStudent      SocialStatus = "student"
	SocialPupil        SocialStatus = "pupil"
	SocialRetired      SocialStatus = "retired"
	SocialUnemployed   SocialStatus = "unemployed"
	SocialHomemaker    SocialStatus = "homemaker"
	SocialPreschool    SocialStatus = "preschool"
	SocialUnspecified  SocialStatus = Unspecified
)

func SocialStatuses() []SocialStatus {
	return []SocialStatus{
		SocialEmployed,
		SocialSelfEmployed,
		SocialStudent,
		SocialPupil,
		SocialRetired,
		SocialUnemployed,
		SocialHomemaker,
		SocialPreschool,
		SocialUnspecified,
	}
}

// ParseSocialStatus maps an empty value to SocialUnspecified.
func ParseSocialStatus(raw string) (SocialStatus, error) {
	candidate := SocialStatus(strings.ToLower(strings.TrimSpace(raw)))
	if candidate == "" {
		return SocialUnspecified, nil
	}
	for _, status := range SocialStatuses() {
		if candidate == status {
			return status, nil
		}
	}
	return "", ErrUnknownSocialStatus
}
