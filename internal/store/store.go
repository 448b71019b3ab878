// Package store persists activity records as an append-ordered flat list.
package store

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/saadjs/kcal-balance/internal/model"
)

var (
	// ErrConnection means the backing store cannot be reached at all.
	ErrConnection = errors.New("store connection failed")
	ErrRead       = errors.New("store read failed")
	ErrWrite      = errors.New("store write failed")

	ErrIndexOutOfRange = errors.New("record index out of range")
	ErrNotFound        = errors.New("record not found")
)

const (
	BackendSQLite   = "sqlite"
	BackendWorkbook = "xlsx"
)

// Store is the record store consumed by the engines. Index arguments are
// 0-based offsets into the sequence returned by LoadAll.
type Store interface {
	Append(rec model.Record) (model.Record, error)
	LoadAll() ([]model.Record, error)
	DeleteAt(index int) error
	DeleteByID(id string) error
	Close() error
}

type Options struct {
	// Location is the zone stored dates are interpreted in.
	Location *time.Location
	// Warn receives every field coerced while loading. Nil logs the warning.
	Warn   func(CoercionWarning)
	Logger logrus.FieldLogger
}

func (o Options) withDefaults() Options {
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.Logger == nil {
		o.Logger = logrus.StandardLogger()
	}
	if o.Warn == nil {
		log := o.Logger
		o.Warn = func(w CoercionWarning) {
			log.WithFields(logrus.Fields{
				"row":    w.Row,
				"field":  w.Field,
				"value":  w.Value,
				"reason": w.Reason,
			}).Warn("coerced record field")
		}
	}
	return o
}

// Open returns the store for backend at path.
func Open(backend, path string, opts Options) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendSQLite:
		return OpenSQLite(path, opts)
	case BackendWorkbook, "workbook", "excel":
		return OpenWorkbook(path, opts)
	default:
		return nil, fmt.Errorf("invalid store backend %q (use sqlite or xlsx)", backend)
	}
}

// Init opens the store at path and creates its backing file when missing.
// It is safe to run repeatedly.
func Init(backend, path string, opts Options) error {
	s, err := Open(backend, path, opts)
	if err != nil {
		return err
	}
	defer s.Close()
	if w, ok := s.(*Workbook); ok {
		return w.ensureFile()
	}
	return nil
}

// BackendForPath guesses the backend from a file extension.
func BackendForPath(path string) string {
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return BackendWorkbook
	}
	return BackendSQLite
}

func readError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrRead, op, err)
}

func writeError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrWrite, op, err)
}

func connectionError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrConnection, op, err)
}

func ensureID(rec model.Record) (model.Record, error) {
	if strings.TrimSpace(rec.ID) != "" {
		return rec, nil
	}
	id, err := uuid.NewV7()
	if err != nil {
		return rec, fmt.Errorf("generate record id: %w", err)
	}
	rec.ID = id.String()
	return rec, nil
}

// BatchAppender is implemented by stores that can append many records in a
// single write.
type BatchAppender interface {
	AppendAll(records []model.Record) ([]model.Record, error)
}

// AppendAll appends records to s in order, in one write when s supports it.
func AppendAll(s Store, records []model.Record) ([]model.Record, error) {
	if b, ok := s.(BatchAppender); ok {
		return b.AppendAll(records)
	}
	out := make([]model.Record, 0, len(records))
	for _, rec := range records {
		saved, err := s.Append(rec)
		if err != nil {
			return out, err
		}
		out = append(out, saved)
	}
	return out, nil
}

// Copy appends every record of src to dst in append order and returns the
// number copied.
func Copy(dst, src Store) (int, error) {
	records, err := src.LoadAll()
	if err != nil {
		return 0, err
	}
	saved, err := AppendAll(dst, records)
	return len(saved), err
}
