package services

import (
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/terraincognita07/ekklesia/internal/models"
)

const (
	MaxMemberNameLength  = 200
	MaxMemberNotesLength = 4000
	maxMemberTextLength  = 200
)

type ServiceAssignmentInput struct {
	ServiceTypeID uint
	IsActive      *bool
	StartDate     string
	EndDate       string
}

// MemberInput carries a new member record. Dates use YYYY-MM-DD.
type MemberInput struct {
	FullName       string
	Gender         string
	PhoneMobile    string
	PhoneHome      string
	Email          string
	BirthDate      string
	RepentanceDate string
	BaptismDate    string
	JoinDate       string
	MaritalStatus  string
	SocialStatus   string
	Education      string
	Profession     string
	Notes          string
	HolySpirit     bool
	DistrictID     *uint
	Services       []ServiceAssignmentInput
}

// MemberPatch is a partial update; nil fields are left unchanged. An empty
// date string clears the stored date.
type MemberPatch struct {
	FullName       *string
	Gender         *string
	PhoneMobile    *string
	PhoneHome      *string
	Email          *string
	BirthDate      *string
	RepentanceDate *string
	BaptismDate    *string
	JoinDate       *string
	MaritalStatus  *string
	SocialStatus   *string
	Education      *string
	Profession     *string
	Notes          *string
	HolySpirit     *bool
	IsActive       *bool
	DistrictID     *uint
	ClearDistrict  bool
	Services       *[]ServiceAssignmentInput
}

func (patch MemberPatch) IsEmpty() bool {
	return patch.FullName == nil &&
		patch.Gender == nil &&
		patch.PhoneMobile == nil &&
		patch.PhoneHome == nil &&
		patch.Email == nil &&
		patch.BirthDate == nil &&
		patch.RepentanceDate == nil &&
		patch.BaptismDate == nil &&
		patch.JoinDate == nil &&
		patch.MaritalStatus == nil &&
		patch.SocialStatus == nil &&
		patch.Education == nil &&
		patch.Profession == nil &&
		patch.Notes == nil &&
		patch.HolySpirit == nil &&
		patch.IsActive == nil &&
		patch.DistrictID == nil &&
		!patch.ClearDistrict &&
		patch.Services == nil
}

// BuildMemberFromInput validates input and returns an active member ready to
// insert. Gender defaults to male when omitted.
func BuildMemberFromInput(input MemberInput) (models.Member, error) {
	fullName, err := normalizeFullName(input.FullName)
	if err != nil {
		return models.Member{}, err
	}

	gender := models.GenderMale
	if strings.TrimSpace(input.Gender) != "" {
		if gender, err = parseGenderField(input.Gender); err != nil {
			return models.Member{}, err
		}
	}

	member := models.Member{
		FullName:    fullName,
		Gender:      gender,
		PhoneMobile: strings.TrimSpace(input.PhoneMobile),
		PhoneHome:   strings.TrimSpace(input.PhoneHome),
		Education:   strings.TrimSpace(input.Education),
		Profession:  strings.TrimSpace(input.Profession),
		HolySpirit:  input.HolySpirit,
		IsActive:    true,
		DistrictID:  input.DistrictID,
	}

	if member.Email, err = normalizeEmailField(input.Email); err != nil {
		return models.Member{}, err
	}
	if member.Notes, err = normalizeNotesField(input.Notes); err != nil {
		return models.Member{}, err
	}
	if err := validateTextLengths(member.PhoneMobile, member.PhoneHome, member.Education, member.Profession); err != nil {
		return models.Member{}, err
	}

	dates := []struct {
		field  string
		raw    string
		target **time.Time
	}{
		{field: "birth_date", raw: input.BirthDate, target: &member.BirthDate},
		{field: "repentance_date", raw: input.RepentanceDate, target: &member.RepentanceDate},
		{field: "baptism_date", raw: input.BaptismDate, target: &member.BaptismDate},
		{field: "join_date", raw: input.JoinDate, target: &member.JoinDate},
	}
	for _, date := range dates {
		parsed, err := parseDateField(date.field, date.raw)
		if err != nil {
			return models.Member{}, err
		}
		*date.target = parsed
	}

	if member.MaritalStatus, err = parseMaritalField(input.MaritalStatus); err != nil {
		return models.Member{}, err
	}
	if member.SocialStatus, err = parseSocialField(input.SocialStatus); err != nil {
		return models.Member{}, err
	}
	if member.Services, err = BuildServiceAssignments(input.Services); err != nil {
		return models.Member{}, err
	}
	return member, nil
}

// BuildMemberUpdates turns a patch into column updates plus an optional
// replacement assignment set.
func BuildMemberUpdates(patch MemberPatch) (map[string]any, *[]models.ServiceAssignment, error) {
	if patch.IsEmpty() {
		return nil, nil, validationError("no fields to update")
	}

	updates := make(map[string]any)
	if patch.FullName != nil {
		fullName, err := normalizeFullName(*patch.FullName)
		if err != nil {
			return nil, nil, err
		}
		updates["full_name"] = fullName
	}
	if patch.Gender != nil {
		gender, err := parseGenderField(*patch.Gender)
		if err != nil {
			return nil, nil, err
		}
		updates["gender"] = gender
	}
	if patch.Email != nil {
		email, err := normalizeEmailField(*patch.Email)
		if err != nil {
			return nil, nil, err
		}
		updates["email"] = email
	}
	if patch.Notes != nil {
		notes, err := normalizeNotesField(*patch.Notes)
		if err != nil {
			return nil, nil, err
		}
		updates["notes"] = notes
	}

	textFields := []struct {
		column string
		value  *string
	}{
		{column: "phone_mobile", value: patch.PhoneMobile},
		{column: "phone_home", value: patch.PhoneHome},
		{column: "education", value: patch.Education},
		{column: "profession", value: patch.Profession},
	}
	for _, field := range textFields {
		if field.value == nil {
			continue
		}
		value := strings.TrimSpace(*field.value)
		if err := validateTextLengths(value); err != nil {
			return nil, nil, err
		}
		updates[field.column] = value
	}

	dateFields := []struct {
		column string
		value  *string
	}{
		{column: "birth_date", value: patch.BirthDate},
		{column: "repentance_date", value: patch.RepentanceDate},
		{column: "baptism_date", value: patch.BaptismDate},
		{column: "join_date", value: patch.JoinDate},
	}
	for _, field := range dateFields {
		if field.value == nil {
			continue
		}
		parsed, err := parseDateField(field.column, *field.value)
		if err != nil {
			return nil, nil, err
		}
		if parsed == nil {
			updates[field.column] = nil
		} else {
			updates[field.column] = *parsed
		}
	}

	if patch.MaritalStatus != nil {
		status, err := parseMaritalField(*patch.MaritalStatus)
		if err != nil {
			return nil, nil, err
		}
		updates["marital_status"] = status
	}
	if patch.SocialStatus != nil {
		status, err := parseSocialField(*patch.SocialStatus)
		if err != nil {
			return nil, nil, err
		}
		updates["social_status"] = status
	}
	if patch.HolySpirit != nil {
		updates["holy_spirit"] = *patch.HolySpirit
	}
	switch {
	case patch.ClearDistrict:
		updates["district_id"] = nil
	case patch.DistrictID != nil:
		updates["district_id"] = *patch.DistrictID
	}

	if patch.Services == nil {
		return updates, nil, nil
	}
	assignments, err := BuildServiceAssignments(*patch.Services)
	if err != nil {
		return nil, nil, err
	}
	return updates, &assignments, nil
}

func BuildServiceAssignments(inputs []ServiceAssignmentInput) ([]models.ServiceAssignment, error) {
	assignments := make([]models.ServiceAssignment, 0, len(inputs))
	for index, input := range inputs {
		if input.ServiceTypeID == 0 {
			return nil, validationError("services[%d].service_type_id is required", index)
		}
		startDate, err := parseDateField("services.start_date", input.StartDate)
		if err != nil {
			return nil, err
		}
		endDate, err := parseDateField("services.end_date", input.EndDate)
		if err != nil {
			return nil, err
		}
		if startDate != nil && endDate != nil && endDate.Before(*startDate) {
			return nil, validationError("services[%d] ends before it starts", index)
		}

		isActive := endDate == nil
		if input.IsActive != nil {
			isActive = *input.IsActive
		}
		assignments = append(assignments, models.ServiceAssignment{
			ServiceTypeID: input.ServiceTypeID,
			IsActive:      isActive,
			StartDate:     startDate,
			EndDate:       endDate,
		})
	}
	return assignments, nil
}

func normalizeFullName(raw string) (string, error) {
	fullName := strings.Join(strings.Fields(raw), " ")
	if fullName == "" {
		return "", validationError("full_name is required")
	}
	if utf8.RuneCountInString(fullName) > MaxMemberNameLength {
		return "", validationError("full_name must be at most %d characters", MaxMemberNameLength)
	}
	return fullName, nil
}

func parseGenderField(raw string) (models.Gender, error) {
	gender, err := models.ParseGender(raw)
	if err != nil {
		return "", validationError("gender must be male or female")
	}
	return gender, nil
}

func parseMaritalField(raw string) (models.MaritalStatus, error) {
	status, err := models.ParseMaritalStatus(raw)
	if err != nil {
		return "", validationError("unknown marital_status %q", strings.TrimSpace(raw))
	}
	return status, nil
}

func parseSocialField(raw string) (models.SocialStatus, error) {
	status, err := models.ParseSocialStatus(raw)
	if err != nil {
		return "", validationError("unknown social_status %q", strings.TrimSpace(raw))
	}
	return status, nil
}

func parseDateField(field string, raw string) (*time.Time, error) {
	parsed, err := ParseDay(raw)
	if err != nil {
		return nil, validationError("%s must be YYYY-MM-DD", field)
	}
	return parsed, nil
}

func normalizeEmailField(raw string) (string, error) {
	email := strings.TrimSpace(raw)
	if email == "" {
		return "", nil
	}
	address, err := mail.ParseAddress(email)
	if err != nil || address.Address != email {
		return "", validationError("email is not a valid address")
	}
	return email, nil
}

func normalizeNotesField(raw string) (string, error) {
	notes := strings.TrimSpace(raw)
	if utf8.RuneCountInString(notes) > MaxMemberNotesLength {
		return "", validationError("notes must be at most %d characters", MaxMemberNotesLength)
	}
	return notes, nil
}

func validateTextLengths(values ...string) error {
	for _, value := range values {
		if utf8.RuneCountInString(value) > maxMemberTextLength {
			return validationError("text fields must be at most %d characters", maxMemberTextLength)
		}
	}
	return nil
}
