package enrich

import (
	"github.com/justaride/sundland-pipeline/internal/domain"
)

// ManualEntry is one row of the hand-maintained enrichment file. Null means
// "not researched yet"; researchers fill fields in and rerun the pipeline.
type ManualEntry struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	OrgNr     *string `json:"orgNr"`
	Website   *string `json:"website"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"`
	Facebook  *string `json:"facebook"`
	Instagram *string `json:"instagram"`
}

// BuildManualTemplate produces the enrichment file for the current store
// set: one entry per store, ordered like the locations file. Hand-filled
// values from the existing file are carried over by store id, so regenerating
// the template after a new normalizer run never loses research.
func BuildManualTemplate(locations []domain.StoreLocation, existing []ManualEntry) []ManualEntry {
	prior := make(map[string]ManualEntry, len(existing))
	for _, e := range existing {
		prior[e.ID] = e
	}

	entries := make([]ManualEntry, 0, len(locations))
	for _, loc := range locations {
		entry := ManualEntry{
			ID:      loc.ID,
			Name:    loc.Name,
			OrgNr:   loc.OrgNr,
			Website: loc.Website,
		}
		if old, ok := prior[loc.ID]; ok {
			entry = mergeEntry(entry, old)
		}
		entries = append(entries, entry)
	}
	return entries
}

// mergeEntry keeps hand-filled values over pipeline-derived ones.
func mergeEntry(fresh, old ManualEntry) ManualEntry {
	if old.OrgNr != nil {
		fresh.OrgNr = old.OrgNr
	}
	if old.Website != nil {
		fresh.Website = old.Website
	}
	fresh.Phone = old.Phone
	fresh.Email = old.Email
	fresh.Facebook = old.Facebook
	fresh.Instagram = old.Instagram
	return fresh
}

// ApplyManual copies non-null manual fields onto the matching locations and
// returns how many locations were touched.
func ApplyManual(locations []domain.StoreLocation, entries []ManualEntry) int {
	byID := make(map[string]ManualEntry, len(entries))
	for _, e := range entries {
		byID[e.ID] = e
	}

	applied := 0
	for i := range locations {
		e, ok := byID[locations[i].ID]
		if !ok {
			continue
		}
		touched := false
		loc := &locations[i]
		if e.OrgNr != nil {
			loc.OrgNr, touched = e.OrgNr, true
		}
		if e.Website != nil {
			loc.Website, touched = e.Website, true
		}
		if e.Phone != nil {
			loc.Phone, touched = e.Phone, true
		}
		if e.Email != nil {
			loc.Email, touched = e.Email, true
		}
		if e.Facebook != nil {
			loc.Facebook, touched = e.Facebook, true
		}
		if e.Instagram != nil {
			loc.Instagram, touched = e.Instagram, true
		}
		if touched {
			applied++
		}
	}
	return applied
}
