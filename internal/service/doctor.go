package service

import (
	"sort"
	"strings"

	"github.com/saadjs/kcal-balance/internal/model"
	"github.com/saadjs/kcal-balance/internal/store"
)

type DoctorReport struct {
	Records        int                     `json:"records"`
	CoercedFields  []store.CoercionWarning `json:"coerced_fields"`
	MissingIDs     int                     `json:"missing_ids"`
	DuplicateIDs   []string                `json:"duplicate_ids"`
	UndatedRecords int                     `json:"undated_records"`
}

// Healthy reports whether nothing needs attention. Legacy rows without an id
// are reported but do not count as issues.
func (r DoctorReport) Healthy() bool {
	return len(r.CoercedFields) == 0 && len(r.DuplicateIDs) == 0 && r.UndatedRecords == 0
}

// RunDoctor loads every record from open's store while collecting coercion
// warnings, then checks the snapshot for identity problems.
func RunDoctor(open func(store.Options) (store.Store, error), opts store.Options) (DoctorReport, error) {
	report := DoctorReport{CoercedFields: []store.CoercionWarning{}, DuplicateIDs: []string{}}
	opts.Warn = func(w store.CoercionWarning) {
		report.CoercedFields = append(report.CoercedFields, w)
	}
	s, err := open(opts)
	if err != nil {
		return report, err
	}
	defer s.Close()

	records, err := s.LoadAll()
	if err != nil {
		return report, err
	}
	checkRecords(&report, records)
	return report, nil
}

func checkRecords(report *DoctorReport, records []model.Record) {
	report.Records = len(records)
	seen := map[string]int{}
	for _, rec := range records {
		if !rec.HasDate() {
			report.UndatedRecords++
		}
		id := strings.TrimSpace(rec.ID)
		if id == "" {
			report.MissingIDs++
			continue
		}
		seen[id]++
	}
	for id, n := range seen {
		if n > 1 {
			report.DuplicateIDs = append(report.DuplicateIDs, id)
		}
	}
	sort.Strings(report.DuplicateIDs)
}
