package service_test

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/saadjs/kcal-balance/internal/model"
	"github.com/saadjs/kcal-balance/internal/service"
)

func seedRecords(t *testing.T) []model.Record {
	t.Helper()
	return []model.Record{
		{ID: "r1", Date: day(2024, 3, 1), TimeOfDay: 8 * time.Hour, Category: model.CategoryFood, Description: "Oats, with honey", Calories: 320},
		{ID: "r2", Date: day(2024, 3, 1), TimeOfDay: 21 * time.Hour, Category: model.CategoryAlcohol, Description: "IPA", Calories: 200},
		{ID: "r3", Date: day(2024, 3, 2), TimeOfDay: 7 * time.Hour, Category: model.CategoryExercise, Description: "Run", Calories: 400, ExerciseType: model.ExerciseRun, DurationMinutes: 40.5, DistanceMiles: 4.2},
	}
}

func TestExportImportRoundTripsEveryFormat(t *testing.T) {
	t.Parallel()
	for _, format := range []service.FileFormat{service.FormatJSON, service.FormatCSV, service.FormatXLSX} {
		path := filepath.Join(t.TempDir(), "export."+string(format))
		if err := service.ExportRecords(seedRecords(t), format, path, day(2024, 3, 3)); err != nil {
			t.Fatalf("%s: export: %v", format, err)
		}

		dst := newTestStore(t)
		report, err := service.ImportRecords(dst, path, format, service.ImportOptions{Location: time.UTC})
		if err != nil {
			t.Fatalf("%s: import: %v", format, err)
		}
		if report.Read != 3 || report.Imported != 3 || len(report.Warnings) != 0 {
			t.Fatalf("%s: unexpected report %+v", format, report)
		}
		got, err := dst.LoadAll()
		if err != nil {
			t.Fatalf("%s: load: %v", format, err)
		}
		if !reflect.DeepEqual(got, seedRecords(t)) {
			t.Fatalf("%s: records differ after round trip:\n got %+v\nwant %+v", format, got, seedRecords(t))
		}
	}
}

func TestImportSkipsOrFailsOnExistingIDs(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "export.json")
	if err := service.ExportRecords(seedRecords(t), service.FormatJSON, path, day(2024, 3, 3)); err != nil {
		t.Fatalf("export: %v", err)
	}
	dst := newTestStore(t)
	if _, err := dst.Append(seedRecords(t)[0]); err != nil {
		t.Fatalf("seed: %v", err)
	}

	_, err := service.ImportRecords(dst, path, service.FormatJSON, service.ImportOptions{Mode: service.ImportModeFail, Location: time.UTC})
	if !errors.Is(err, service.ErrDuplicateID) {
		t.Fatalf("expected duplicate id error, got %v", err)
	}

	dry, err := service.ImportRecords(dst, path, service.FormatJSON, service.ImportOptions{DryRun: true, Location: time.UTC})
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if dry.Imported != 2 || dry.Skipped != 1 {
		t.Fatalf("unexpected dry-run report: %+v", dry)
	}

	report, err := service.ImportRecords(dst, path, service.FormatJSON, service.ImportOptions{Location: time.UTC})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if report.Imported != 2 || report.Skipped != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
	got, err := dst.LoadAll()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 records after merge, got %d", len(got))
	}
}

func TestImportLegacyCSVCoercesBadFields(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "legacy.csv")
	content := "Date,Time,Type,Item,Calories\n2024-03-01,08:00:00,Food (In),3 Eggs,210\n2024-03-01,18:00:00,Exercise (Out),5k Run,lots\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	dst := newTestStore(t)
	report, err := service.ImportRecords(dst, path, service.FormatCSV, service.ImportOptions{Location: time.UTC})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if report.Imported != 2 || len(report.Warnings) != 1 || report.Warnings[0].Field != "calories" {
		t.Fatalf("unexpected report: %+v", report)
	}
	got, err := dst.LoadAll()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got[0].ID == "" || got[1].Calories != 0 {
		t.Fatalf("expected ids assigned and bad calories zeroed, got %+v", got)
	}
}

func TestParseFileFormat(t *testing.T) {
	t.Parallel()
	if f, err := service.ParseFileFormat("", "/tmp/out.XLSX"); err != nil || f != service.FormatXLSX {
		t.Fatalf("expected xlsx from extension, got %q, %v", f, err)
	}
	if _, err := service.ParseFileFormat("yaml", ""); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}
