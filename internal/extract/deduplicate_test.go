package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spherical/cv-extractor/internal/domain"
)

func TestDeduplicatorStrings(t *testing.T) {
	d := NewDeduplicator()
	got := d.Strings([]string{"Go", " go ", "Rust", "", "GO", "Python"})
	assert.Equal(t, []string{"Go", "Rust", "Python"}, got)
}

func TestNormalizeRecord(t *testing.T) {
	r := &domain.CVRecord{
		Name:   "  Ada Lovelace ",
		Skills: []string{"Go", "go", "SQL"},
		Experience: []domain.Experience{
			{Company: "Acme", Title: "Engineer", StartDate: "2020"},
			{Company: "acme", Title: "engineer", StartDate: "2020"},
			{Company: "Globex", Title: "Lead"},
		},
		Education: []domain.Education{
			{Institution: "MIT", Degree: "BSc"},
			{Institution: "mit", Degree: "bsc"},
		},
	}

	NormalizeRecord(r)

	assert.Equal(t, "Ada Lovelace", r.Name)
	assert.Equal(t, []string{"Go", "SQL"}, r.Skills)
	assert.Len(t, r.Experience, 2)
	assert.Equal(t, "Globex", r.Experience[1].Company)
	assert.Len(t, r.Education, 1)
}

func TestNormalizeRecordNil(t *testing.T) {
	assert.Nil(t, NormalizeRecord(nil))
}
