package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDrugFromRecord(t *testing.T) {
	tests := []struct {
		name      string
		record    RawRecord
		want      Drug
		wantError bool
		errorMsg  string
	}{
		{
			name:   "valid record",
			record: RawRecord{"id": "A04AD", "name": "DIPHENHYDRAMINE"},
			want:   Drug{ID: "A04AD", Name: "DIPHENHYDRAMINE"},
		},
		{
			name:   "extra keys are ignored",
			record: RawRecord{"id": "A04AD", "name": "DIPHENHYDRAMINE", "atc_level": "3"},
			want:   Drug{ID: "A04AD", Name: "DIPHENHYDRAMINE"},
		},
		{
			name:      "missing id",
			record:    RawRecord{"name": "DIPHENHYDRAMINE"},
			wantError: true,
			errorMsg:  "validation error on field 'id': missing required field",
		},
		{
			name:      "empty id",
			record:    RawRecord{"id": "", "name": "DIPHENHYDRAMINE"},
			wantError: true,
			errorMsg:  "validation error on field 'id': must not be empty",
		},
		{
			name:      "non-string id",
			record:    RawRecord{"id": 42, "name": "DIPHENHYDRAMINE"},
			wantError: true,
			errorMsg:  "validation error on field 'id': must be a string",
		},
		{
			name:      "missing name",
			record:    RawRecord{"id": "A04AD"},
			wantError: true,
			errorMsg:  "validation error on field 'name': missing required field",
		},
		{
			name:      "empty name",
			record:    RawRecord{"id": "A04AD", "name": ""},
			wantError: true,
			errorMsg:  "validation error on field 'name': must not be empty",
		},
		{
			name:      "empty record",
			record:    RawRecord{},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			drug, err := DrugFromRecord(tt.record)

			if tt.wantError {
				assert.Error(t, err)
				var vErr *ValidationError
				assert.ErrorAs(t, err, &vErr)
				if tt.errorMsg != "" {
					assert.Equal(t, tt.errorMsg, err.Error())
				}
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, drug)
		})
	}
}

func TestDrug_Record(t *testing.T) {
	drug := Drug{ID: "R01AD", Name: "BETAMETHASONE"}

	assert.Equal(t, RawRecord{"id": "R01AD", "name": "BETAMETHASONE"}, drug.Record())
}
