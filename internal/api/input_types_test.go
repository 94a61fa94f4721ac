package api

import (
	"encoding/json"
	"testing"
)

func TestMemberPatchPayloadDistrictField(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		body        string
		wantClear   bool
		wantID      uint
		wantChanged bool
	}{
		{name: "absent", body: `{"notes":"x"}`},
		{name: "null clears", body: `{"district_id":null}`, wantClear: true, wantChanged: true},
		{name: "number sets", body: `{"district_id":7}`, wantID: 7, wantChanged: true},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			var payload memberPatchPayload
			if err := json.Unmarshal([]byte(testCase.body), &payload); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			patch := payload.toPatch()
			if patch.ClearDistrict != testCase.wantClear {
				t.Fatalf("ClearDistrict = %v, want %v", patch.ClearDistrict, testCase.wantClear)
			}
			if testCase.wantID != 0 && (patch.DistrictID == nil || *patch.DistrictID != testCase.wantID) {
				t.Fatalf("DistrictID = %v, want %d", patch.DistrictID, testCase.wantID)
			}
			changed := patch.ClearDistrict || patch.DistrictID != nil
			if changed != testCase.wantChanged {
				t.Fatalf("district changed = %v, want %v", changed, testCase.wantChanged)
			}
		})
	}

	var payload memberPatchPayload
	if err := json.Unmarshal([]byte(`{"district_id":"north"}`), &payload); err == nil {
		t.Fatal("expected a string district id to be rejected")
	}
}
