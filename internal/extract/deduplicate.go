package extract

import (
	"strings"

	"github.com/spherical/cv-extractor/internal/domain"
)

// Deduplicator removes repeated list entries from extracted records
type Deduplicator struct {
	seen map[string]bool
}

// NewDeduplicator creates a new Deduplicator
func NewDeduplicator() *Deduplicator {
	return &Deduplicator{
		seen: make(map[string]bool),
	}
}

// Strings trims items, drops empties and keeps the first occurrence of each
// case-insensitive value
func (d *Deduplicator) Strings(items []string) []string {
	clear(d.seen)

	result := make([]string, 0, len(items))
	for _, item := range items {
		trimmed := strings.Join(strings.Fields(item), " ")
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if d.seen[key] {
			continue
		}
		d.seen[key] = true
		result = append(result, trimmed)
	}
	return result
}

// Experience drops positions repeated with identical company, title and dates
func (d *Deduplicator) Experience(items []domain.Experience) []domain.Experience {
	clear(d.seen)

	result := make([]domain.Experience, 0, len(items))
	for _, e := range items {
		key := strings.ToLower(strings.Join([]string{e.Company, e.Title, e.StartDate, e.EndDate}, "|"))
		if key == "|||" || d.seen[key] {
			continue
		}
		d.seen[key] = true
		result = append(result, e)
	}
	return result
}

// Education drops repeated degrees
func (d *Deduplicator) Education(items []domain.Education) []domain.Education {
	clear(d.seen)

	result := make([]domain.Education, 0, len(items))
	for _, e := range items {
		key := strings.ToLower(strings.Join([]string{e.Institution, e.Degree, e.Field, e.EndDate}, "|"))
		if key == "|||" || d.seen[key] {
			continue
		}
		d.seen[key] = true
		result = append(result, e)
	}
	return result
}

// NormalizeRecord trims scalar fields and deduplicates list fields in place
func NormalizeRecord(r *domain.CVRecord) *domain.CVRecord {
	if r == nil {
		return nil
	}
	d := NewDeduplicator()

	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Phone = strings.TrimSpace(r.Phone)
	r.Location = strings.TrimSpace(r.Location)
	r.Headline = strings.TrimSpace(r.Headline)
	r.Summary = strings.TrimSpace(r.Summary)
	r.Skills = d.Strings(r.Skills)
	r.Languages = d.Strings(r.Languages)
	r.Links = d.Strings(r.Links)
	r.Experience = d.Experience(r.Experience)
	r.Education = d.Education(r.Education)
	return r
}
