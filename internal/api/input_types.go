package api

import (
	"encoding/json"
	"errors"

	"github.com/terraincognita07/ekklesia/internal/services"
)

type credentialsInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

type serviceAssignmentPayload struct {
	ServiceTypeID uint   `json:"service_type_id"`
	IsActive      *bool  `json:"is_active"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
}

type memberPayload struct {
	FullName       string                     `json:"full_name"`
	Gender         string                     `json:"gender"`
	PhoneMobile    string                     `json:"phone_mobile"`
	PhoneHome      string                     `json:"phone_home"`
	Email          string                     `json:"email"`
	BirthDate      string                     `json:"birth_date"`
	RepentanceDate string                     `json:"repentance_date"`
	BaptismDate    string                     `json:"baptism_date"`
	JoinDate       string                     `json:"join_date"`
	MaritalStatus  string                     `json:"marital_status"`
	SocialStatus   string                     `json:"social_status"`
	Education      string                     `json:"education"`
	Profession     string                     `json:"profession"`
	Notes          string                     `json:"notes"`
	HolySpirit     bool                       `json:"holy_spirit"`
	DistrictID     *uint                      `json:"district_id"`
	Services       []serviceAssignmentPayload `json:"services"`
}

// memberPatchPayload mirrors memberPayload with every field optional. A
// present "district_id": null detaches the member from its district.
type memberPatchPayload struct {
	FullName       *string                     `json:"full_name"`
	Gender         *string                     `json:"gender"`
	PhoneMobile    *string                     `json:"phone_mobile"`
	PhoneHome      *string                     `json:"phone_home"`
	Email          *string                     `json:"email"`
	BirthDate      *string                     `json:"birth_date"`
	RepentanceDate *string                     `json:"repentance_date"`
	BaptismDate    *string                     `json:"baptism_date"`
	JoinDate       *string                     `json:"join_date"`
	MaritalStatus  *string                     `json:"marital_status"`
	SocialStatus   *string                     `json:"social_status"`
	Education      *string                     `json:"education"`
	Profession     *string                     `json:"profession"`
	Notes          *string                     `json:"notes"`
	HolySpirit     *bool                       `json:"holy_spirit"`
	IsActive       *bool                       `json:"is_active"`
	DistrictID     nullableUint                `json:"district_id"`
	Services       *[]serviceAssignmentPayload `json:"services"`
}

type nullableUint struct {
	Set   bool
	Value *uint
}

func (field *nullableUint) UnmarshalJSON(data []byte) error {
	field.Set = true
	if string(data) == "null" {
		field.Value = nil
		return nil
	}
	var value uint
	if err := json.Unmarshal(data, &value); err != nil {
		return errors.New("district_id must be a positive integer or null")
	}
	field.Value = &value
	return nil
}

type roleInput struct {
	Role string `json:"role"`
}

type eventPayload struct {
	Title             string `json:"title"`
	Description       string `json:"description"`
	EventDate         string `json:"event_date"`
	EventTime         string `json:"event_time"`
	EventType         string `json:"event_type"`
	Location          string `json:"location"`
	IsRecurring       bool   `json:"is_recurring"`
	RecurrencePattern string `json:"recurrence_pattern"`
}

type eventPatchPayload struct {
	Title             *string `json:"title"`
	Description       *string `json:"description"`
	EventDate         *string `json:"event_date"`
	EventTime         *string `json:"event_time"`
	EventType         *string `json:"event_type"`
	Location          *string `json:"location"`
	IsRecurring       *bool   `json:"is_recurring"`
	RecurrencePattern *string `json:"recurrence_pattern"`
}

func (payload memberPayload) toInput() services.MemberInput {
	return services.MemberInput{
		FullName:       payload.FullName,
		Gender:         payload.Gender,
		PhoneMobile:    payload.PhoneMobile,
		PhoneHome:      payload.PhoneHome,
		Email:          payload.Email,
		BirthDate:      payload.BirthDate,
		RepentanceDate: payload.RepentanceDate,
		BaptismDate:    payload.BaptismDate,
		JoinDate:       payload.JoinDate,
		MaritalStatus:  payload.MaritalStatus,
		SocialStatus:   payload.SocialStatus,
		Education:      payload.Education,
		Profession:     payload.Profession,
		Notes:          payload.Notes,
		HolySpirit:     payload.HolySpirit,
		DistrictID:     payload.DistrictID,
		Services:       toAssignmentInputs(payload.Services),
	}
}

func (payload memberPatchPayload) toPatch() services.MemberPatch {
	patch := services.MemberPatch{
		FullName:       payload.FullName,
		Gender:         payload.Gender,
		PhoneMobile:    payload.PhoneMobile,
		PhoneHome:      payload.PhoneHome,
		Email:          payload.Email,
		BirthDate:      payload.BirthDate,
		RepentanceDate: payload.RepentanceDate,
		BaptismDate:    payload.BaptismDate,
		JoinDate:       payload.JoinDate,
		MaritalStatus:  payload.MaritalStatus,
		SocialStatus:   payload.SocialStatus,
		Education:      payload.Education,
		Profession:     payload.Profession,
		Notes:          payload.Notes,
		HolySpirit:     payload.HolySpirit,
		IsActive:       payload.IsActive,
	}
	if payload.DistrictID.Set {
		if payload.DistrictID.Value == nil {
			patch.ClearDistrict = true
		} else {
			patch.DistrictID = payload.DistrictID.Value
		}
	}
	if payload.Services != nil {
		inputs := toAssignmentInputs(*payload.Services)
		patch.Services = &inputs
	}
	return patch
}

func toAssignmentInputs(payloads []serviceAssignmentPayload) []services.ServiceAssignmentInput {
	inputs := make([]services.ServiceAssignmentInput, 0, len(payloads))
	for _, payload := range payloads {
		inputs = append(inputs, services.ServiceAssignmentInput{
			ServiceTypeID: payload.ServiceTypeID,
			IsActive:      payload.IsActive,
			StartDate:     payload.StartDate,
			EndDate:       payload.EndDate,
		})
	}
	return inputs
}

func (payload eventPayload) toInput() services.EventInput {
	return services.EventInput{
		Title:             payload.Title,
		Description:       payload.Description,
		EventDate:         payload.EventDate,
		EventTime:         payload.EventTime,
		EventType:         payload.EventType,
		Location:          payload.Location,
		IsRecurring:       payload.IsRecurring,
		RecurrencePattern: payload.RecurrencePattern,
	}
}

func (payload eventPatchPayload) toPatch() services.EventPatch {
	return services.EventPatch{
		Title:             payload.Title,
		Description:       payload.Description,
		EventDate:         payload.EventDate,
		EventTime:         payload.EventTime,
		EventType:         payload.EventType,
		Location:          payload.Location,
		IsRecurring:       payload.IsRecurring,
		RecurrencePattern: payload.RecurrencePattern,
	}
}
