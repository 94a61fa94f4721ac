package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/terraincognita07/ekklesia/internal/db"
	"github.com/terraincognita07/ekklesia/internal/models"
	"github.com/terraincognita07/ekklesia/internal/services"
	"gorm.io/gorm"
)

// snapshotFile is the on-disk import format. Ids are kept so that member,
// district and leader references survive the move.
type snapshotFile struct {
	ServiceTypes []snapshotServiceType `json:"service_types"`
	Districts    []snapshotDistrict    `json:"districts"`
	Members      []snapshotMember      `json:"members"`
	Presbyters   []snapshotLeader      `json:"presbyters"`
	Deacons      []snapshotLeader      `json:"deacons"`
}

type snapshotServiceType struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type snapshotDistrict struct {
	ID         uint   `json:"id"`
	Number     int    `json:"number"`
	Area       string `json:"area"`
	LeaderName string `json:"leader_name"`
}

type snapshotAssignment struct {
	ServiceTypeID uint   `json:"service_type_id"`
	IsActive      *bool  `json:"is_active"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
}

type snapshotMember struct {
	ID             uint                 `json:"id"`
	FullName       string               `json:"full_name"`
	Gender         string               `json:"gender"`
	PhoneMobile    string               `json:"phone_mobile"`
	PhoneHome      string               `json:"phone_home"`
	Email          string               `json:"email"`
	BirthDate      string               `json:"birth_date"`
	RepentanceDate string               `json:"repentance_date"`
	BaptismDate    string               `json:"baptism_date"`
	JoinDate       string               `json:"join_date"`
	DepartureDate  string               `json:"departure_date"`
	MaritalStatus  string               `json:"marital_status"`
	SocialStatus   string               `json:"social_status"`
	Education      string               `json:"education"`
	Profession     string               `json:"profession"`
	Notes          string               `json:"notes"`
	HolySpirit     bool                 `json:"holy_spirit"`
	IsActive       *bool                `json:"is_active"`
	PhotoURL       string               `json:"photo_url"`
	DistrictID     *uint                `json:"district_id"`
	Services       []snapshotAssignment `json:"services"`
}

type snapshotLeader struct {
	ID          uint  `json:"id"`
	MemberID    uint  `json:"member_id"`
	PresbyterID *uint `json:"presbyter_id"`
}

type ImportOptions struct {
	Out io.Writer
	// AfterImport runs once the snapshot is committed, e.g. to drop cached
	// statistics.
	AfterImport func(ctx context.Context) error
}

// RunImportCommand replaces the membership directory with the snapshot at
// path. User accounts and events are kept.
func RunImportCommand(ctx context.Context, database *gorm.DB, path string, options ImportOptions) error {
	out := options.Out
	if out == nil {
		out = os.Stdout
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}
	snapshot, err := ParseSnapshot(raw)
	if err != nil {
		return err
	}

	if err := db.NewImportRepository(database).ImportSnapshot(ctx, snapshot); err != nil {
		return fmt.Errorf("import snapshot: %w", err)
	}
	if options.AfterImport != nil {
		if err := options.AfterImport(ctx); err != nil {
			return fmt.Errorf("post-import hook: %w", err)
		}
	}

	fmt.Fprintf(out, "Imported %d members, %d districts, %d service types, %d presbyters, %d deacons\n",
		len(snapshot.Members), len(snapshot.Districts), len(snapshot.ServiceTypes), len(snapshot.Presbyters), len(snapshot.Deacons))
	return nil
}

// ParseSnapshot decodes and validates a snapshot file. Every reference must
// point at a record in the same file.
func ParseSnapshot(raw []byte) (db.Snapshot, error) {
	var file snapshotFile
	if err := sonic.Unmarshal(raw, &file); err != nil {
		return db.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}

	var snapshot db.Snapshot
	serviceTypeIDs := make(map[uint]bool, len(file.ServiceTypes))
	for _, entry := range file.ServiceTypes {
		name := strings.TrimSpace(entry.Name)
		if entry.ID == 0 || name == "" {
			return db.Snapshot{}, errors.New("service types need an id and a name")
		}
		if serviceTypeIDs[entry.ID] {
			return db.Snapshot{}, fmt.Errorf("duplicate service type id %d", entry.ID)
		}
		serviceTypeIDs[entry.ID] = true
		snapshot.ServiceTypes = append(snapshot.ServiceTypes, models.ServiceType{ID: entry.ID, Name: name})
	}

	districtIDs := make(map[uint]bool, len(file.Districts))
	for _, entry := range file.Districts {
		if entry.ID == 0 {
			return db.Snapshot{}, errors.New("districts need an id")
		}
		if districtIDs[entry.ID] {
			return db.Snapshot{}, fmt.Errorf("duplicate district id %d", entry.ID)
		}
		districtIDs[entry.ID] = true
		snapshot.Districts = append(snapshot.Districts, models.District{
			ID:         entry.ID,
			Number:     entry.Number,
			Area:       strings.TrimSpace(entry.Area),
			LeaderName: strings.TrimSpace(entry.LeaderName),
		})
	}

	memberIDs := make(map[uint]bool, len(file.Members))
	for _, entry := range file.Members {
		if entry.ID == 0 {
			return db.Snapshot{}, fmt.Errorf("member %q has no id", entry.FullName)
		}
		if memberIDs[entry.ID] {
			return db.Snapshot{}, fmt.Errorf("duplicate member id %d", entry.ID)
		}
		member, err := entry.toModel(serviceTypeIDs, districtIDs)
		if err != nil {
			return db.Snapshot{}, fmt.Errorf("member %d: %w", entry.ID, err)
		}
		memberIDs[entry.ID] = true
		snapshot.Members = append(snapshot.Members, member)
	}

	presbyterIDs := make(map[uint]bool, len(file.Presbyters))
	for _, entry := range file.Presbyters {
		if entry.ID == 0 || !memberIDs[entry.MemberID] {
			return db.Snapshot{}, fmt.Errorf("presbyter %d must reference an imported member", entry.ID)
		}
		presbyterIDs[entry.ID] = true
		snapshot.Presbyters = append(snapshot.Presbyters, models.Presbyter{ID: entry.ID, MemberID: entry.MemberID})
	}
	for _, entry := range file.Deacons {
		if entry.ID == 0 || !memberIDs[entry.MemberID] {
			return db.Snapshot{}, fmt.Errorf("deacon %d must reference an imported member", entry.ID)
		}
		if entry.PresbyterID != nil && !presbyterIDs[*entry.PresbyterID] {
			return db.Snapshot{}, fmt.Errorf("deacon %d references unknown presbyter %d", entry.ID, *entry.PresbyterID)
		}
		snapshot.Deacons = append(snapshot.Deacons, models.Deacon{ID: entry.ID, MemberID: entry.MemberID, PresbyterID: entry.PresbyterID})
	}
	return snapshot, nil
}

func (entry snapshotMember) toModel(serviceTypeIDs map[uint]bool, districtIDs map[uint]bool) (models.Member, error) {
	fullName := strings.Join(strings.Fields(entry.FullName), " ")
	if fullName == "" {
		return models.Member{}, errors.New("full_name is required")
	}

	member := models.Member{
		ID:          entry.ID,
		FullName:    fullName,
		Gender:      models.GenderMale,
		PhoneMobile: strings.TrimSpace(entry.PhoneMobile),
		PhoneHome:   strings.TrimSpace(entry.PhoneHome),
		Email:       strings.TrimSpace(entry.Email),
		Education:   strings.TrimSpace(entry.Education),
		Profession:  strings.TrimSpace(entry.Profession),
		Notes:       strings.TrimSpace(entry.Notes),
		HolySpirit:  entry.HolySpirit,
		IsActive:    entry.IsActive == nil || *entry.IsActive,
		PhotoURL:    strings.TrimSpace(entry.PhotoURL),
		DistrictID:  entry.DistrictID,
	}

	var err error
	if strings.TrimSpace(entry.Gender) != "" {
		if member.Gender, err = models.ParseGender(entry.Gender); err != nil {
			return models.Member{}, fmt.Errorf("gender %q: %w", entry.Gender, err)
		}
	}
	if member.MaritalStatus, err = models.ParseMaritalStatus(entry.MaritalStatus); err != nil {
		return models.Member{}, fmt.Errorf("marital_status %q: %w", entry.MaritalStatus, err)
	}
	if member.SocialStatus, err = models.ParseSocialStatus(entry.SocialStatus); err != nil {
		return models.Member{}, fmt.Errorf("social_status %q: %w", entry.SocialStatus, err)
	}

	dates := []struct {
		name   string
		raw    string
		target **time.Time
	}{
		{name: "birth_date", raw: entry.BirthDate, target: &member.BirthDate},
		{name: "repentance_date", raw: entry.RepentanceDate, target: &member.RepentanceDate},
		{name: "baptism_date", raw: entry.BaptismDate, target: &member.BaptismDate},
		{name: "join_date", raw: entry.JoinDate, target: &member.JoinDate},
		{name: "departure_date", raw: entry.DepartureDate, target: &member.DepartureDate},
	}
	for _, date := range dates {
		if *date.target, err = services.ParseDay(date.raw); err != nil {
			return models.Member{}, fmt.Errorf("%s %q is not YYYY-MM-DD", date.name, date.raw)
		}
	}

	if member.DistrictID != nil && !districtIDs[*member.DistrictID] {
		return models.Member{}, fmt.Errorf("unknown district %d", *member.DistrictID)
	}
	for _, assignment := range entry.Services {
		if !serviceTypeIDs[assignment.ServiceTypeID] {
			return models.Member{}, fmt.Errorf("unknown service type %d", assignment.ServiceTypeID)
		}
		start, err := services.ParseDay(assignment.StartDate)
		if err != nil {
			return models.Member{}, fmt.Errorf("service start_date %q is not YYYY-MM-DD", assignment.StartDate)
		}
		end, err := services.ParseDay(assignment.EndDate)
		if err != nil {
			return models.Member{}, fmt.Errorf("service end_date %q is not YYYY-MM-DD", assignment.EndDate)
		}
		active := end == nil
		if assignment.IsActive != nil {
			active = *assignment.IsActive
		}
		member.Services = append(member.Services, models.ServiceAssignment{
			ServiceTypeID: assignment.ServiceTypeID,
			IsActive:      active,
			StartDate:     start,
			EndDate:       end,
		})
	}
	return member, nil
}
