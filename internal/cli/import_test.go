package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/terraincognita07/ekklesia/internal/models"
)

const sampleSnapshot = `{
  "service_types": [{"id": 1, "name": "Хор"}, {"id": 2, "name": "Недільна школа"}],
  "districts": [{"id": 4, "number": 1, "area": "Центр", "leader_name": "Брат Іван"}],
  "members": [
    {
      "id": 10,
      "full_name": "Іван  Петренко",
      "gender": "male",
      "birth_date": "1970-02-01",
      "baptism_date": "1990-07-15",
      "marital_status": "married",
      "district_id": 4,
      "services": [
        {"service_type_id": 1, "start_date": "2000-01-01"},
        {"service_type_id": 2, "start_date": "1995-01-01", "end_date": "1999-12-31"}
      ]
    },
    {"id": 11, "full_name": "Олена Петренко", "gender": "female", "is_active": false, "departure_date": "2020-05-01"},
    {"id": 12, "full_name": "Степан Коваль"}
  ],
  "presbyters": [{"id": 1, "member_id": 10}],
  "deacons": [{"id": 1, "member_id": 12, "presbyter_id": 1}]
}`

func writeSnapshot(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snapshot.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}
	return path
}

func TestParseSnapshotBuildsModels(t *testing.T) {
	t.Parallel()

	snapshot, err := ParseSnapshot([]byte(sampleSnapshot))
	if err != nil {
		t.Fatalf("ParseSnapshot: %v", err)
	}
	if len(snapshot.Members) != 3 || len(snapshot.ServiceTypes) != 2 || len(snapshot.Deacons) != 1 {
		t.Fatalf("unexpected snapshot sizes: %+v", snapshot)
	}

	ivan := snapshot.Members[0]
	if ivan.FullName != "Іван Петренко" || ivan.MaritalStatus != models.MaritalMarried || !ivan.IsActive {
		t.Fatalf("unexpected first member: %+v", ivan)
	}
	if ivan.BirthDate == nil || ivan.BirthDate.Format("2006-01-02") != "1970-02-01" {
		t.Fatalf("expected parsed birth date, got %v", ivan.BirthDate)
	}
	if len(ivan.Services) != 2 || !ivan.Services[0].IsActive || ivan.Services[1].IsActive {
		t.Fatalf("expected open assignment active and closed one inactive, got %+v", ivan.Services)
	}

	olena := snapshot.Members[1]
	if olena.IsActive || olena.DepartureDate == nil {
		t.Fatalf("expected departed member, got %+v", olena)
	}
	if snapshot.Members[2].Gender != models.GenderMale || snapshot.Members[2].SocialStatus != models.SocialUnspecified {
		t.Fatalf("expected defaults for sparse member, got %+v", snapshot.Members[2])
	}
}

func TestParseSnapshotRejectsBrokenReferences(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "invalid json", content: `{"members": [`, want: "decode snapshot"},
		{name: "unknown service type", content: `{"members": [{"id": 1, "full_name": "A", "services": [{"service_type_id": 9}]}]}`, want: "unknown service type 9"},
		{name: "unknown district", content: `{"members": [{"id": 1, "full_name": "A", "district_id": 3}]}`, want: "unknown district 3"},
		{name: "bad date", content: `{"members": [{"id": 1, "full_name": "A", "birth_date": "01/02/70"}]}`, want: "birth_date"},
		{name: "bad gender", content: `{"members": [{"id": 1, "full_name": "A", "gender": "x"}]}`, want: "gender"},
		{name: "duplicate member", content: `{"members": [{"id": 1, "full_name": "A"}, {"id": 1, "full_name": "B"}]}`, want: "duplicate member id 1"},
		{name: "orphan presbyter", content: `{"presbyters": [{"id": 1, "member_id": 5}]}`, want: "presbyter 1"},
		{name: "deacon with unknown presbyter", content: `{"members": [{"id": 1, "full_name": "A"}], "deacons": [{"id": 1, "member_id": 1, "presbyter_id": 8}]}`, want: "unknown presbyter 8"},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseSnapshot([]byte(testCase.content))
			if err == nil || !strings.Contains(err.Error(), testCase.want) {
				t.Fatalf("expected error containing %q, got %v", testCase.want, err)
			}
		})
	}
}

func TestRunImportCommandReplacesDirectory(t *testing.T) {
	database := openTestDatabase(t)

	stale := models.Member{FullName: "Old Record", Gender: models.GenderMale, IsActive: true}
	if err := database.Create(&stale).Error; err != nil {
		t.Fatalf("seed member: %v", err)
	}

	hookCalls := 0
	var out bytes.Buffer
	err := RunImportCommand(context.Background(), database, writeSnapshot(t, sampleSnapshot), ImportOptions{
		Out: &out,
		AfterImport: func(context.Context) error {
			hookCalls++
			return nil
		},
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if hookCalls != 1 {
		t.Fatalf("expected post-import hook once, got %d", hookCalls)
	}
	if !strings.Contains(out.String(), "Imported 3 members") {
		t.Fatalf("unexpected output %q", out.String())
	}

	var members []models.Member
	if err := database.Order("id ASC").Find(&members).Error; err != nil {
		t.Fatalf("load members: %v", err)
	}
	if len(members) != 3 || members[0].ID != 10 {
		t.Fatalf("expected imported members only, got %+v", members)
	}
	if members[0].SearchName != "іван петренко" {
		t.Fatalf("expected search name to be derived, got %q", members[0].SearchName)
	}

	var assignments int64
	if err := database.Model(&models.ServiceAssignment{}).Count(&assignments).Error; err != nil {
		t.Fatalf("count assignments: %v", err)
	}
	if assignments != 2 {
		t.Fatalf("expected two assignments, got %d", assignments)
	}
}

func TestRunImportCommandErrors(t *testing.T) {
	database := openTestDatabase(t)

	err := RunImportCommand(context.Background(), database, filepath.Join(t.TempDir(), "missing.json"), ImportOptions{Out: &bytes.Buffer{}})
	if err == nil || !strings.Contains(err.Error(), "read snapshot") {
		t.Fatalf("expected read error, got %v", err)
	}

	hookFailure := errors.New("redis down")
	err = RunImportCommand(context.Background(), database, writeSnapshot(t, `{}`), ImportOptions{
		Out:         &bytes.Buffer{},
		AfterImport: func(context.Context) error { return hookFailure },
	})
	if !errors.Is(err, hookFailure) {
		t.Fatalf("expected hook failure to propagate, got %v", err)
	}
}
