package balance

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/saadjs/kcal-balance/internal/clock"
	"github.com/saadjs/kcal-balance/internal/model"
	"github.com/saadjs/kcal-balance/internal/service"
	"github.com/saadjs/kcal-balance/internal/store"
)

type unreachableStore struct {
	loads int
}

func (s *unreachableStore) Append(rec model.Record) (model.Record, error) {
	return rec, fmt.Errorf("%w: append: disk gone", store.ErrConnection)
}

func (s *unreachableStore) LoadAll() ([]model.Record, error) {
	s.loads++
	return nil, fmt.Errorf("%w: load: disk gone", store.ErrConnection)
}

func (s *unreachableStore) DeleteAt(int) error      { return store.ErrConnection }
func (s *unreachableStore) DeleteByID(string) error { return store.ErrConnection }
func (s *unreachableStore) Close() error            { return nil }

func fixedToday() clock.Clock {
	return clock.Fixed(time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC))
}

func TestBrowseStopsOnConnectionFailure(t *testing.T) {
	s := &unreachableStore{}
	out := &bytes.Buffer{}
	b := &browser{store: s, clock: fixedToday(), settings: service.DefaultSettings(), state: service.ViewState{Mode: service.ViewSingle}, out: out}

	err := b.run(strings.NewReader("n\nn\np\nq\n"))
	if !errors.Is(err, store.ErrConnection) {
		t.Fatalf("expected connection error to end the session, got %v", err)
	}
	if s.loads != 1 {
		t.Fatalf("expected no reads after the connection failure, got %d", s.loads)
	}
	if !strings.Contains(out.String(), "error: store connection failed") {
		t.Fatalf("expected the failure to be printed:\n%s", out.String())
	}
}

func TestBrowseAddUsesTodayOrLastDayShown(t *testing.T) {
	s, err := store.OpenSQLite(filepath.Join(t.TempDir(), "balance.db"), store.Options{Location: time.UTC})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer s.Close()

	out := &bytes.Buffer{}
	b := &browser{store: s, clock: fixedToday(), settings: service.DefaultSettings(), state: service.ViewState{Mode: service.ViewWeek}, out: out}
	script := "add food 100 Toast\nrange 2024-03-01 2024-03-03\nadd alcohol 150 Cider\nq\n"
	if err := b.run(strings.NewReader(script)); err != nil {
		t.Fatalf("browse: %v\n%s", err, out.String())
	}

	records, err := s.LoadAll()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if got := records[0].DateKey(); got != "2024-03-15" {
		t.Fatalf("week view add should land on today, got %s", got)
	}
	if got := records[1].DateKey(); got != "2024-03-03" {
		t.Fatalf("past range add should land on its last day, got %s", got)
	}
}
