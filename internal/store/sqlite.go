package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/saadjs/kcal-balance/internal/app"
	"github.com/saadjs/kcal-balance/internal/db"
	"github.com/saadjs/kcal-balance/internal/model"
)

// SQLite keeps records in the records table; append order is the seq column.
type SQLite struct {
	db   *sql.DB
	opts Options
}

func OpenSQLite(path string, opts Options) (*SQLite, error) {
	opts = opts.withDefaults()
	if err := app.EnsureDir(path); err != nil {
		return nil, connectionError("prepare sqlite path", err)
	}
	sqldb, err := db.Open(path)
	if err != nil {
		return nil, connectionError("open sqlite", err)
	}
	if err := db.ApplyMigrations(sqldb); err != nil {
		_ = sqldb.Close()
		return nil, connectionError("migrate sqlite", err)
	}
	opts.Logger.WithField("path", path).Debug("opened sqlite store")
	return &SQLite{db: sqldb, opts: opts}, nil
}

const insertRecordSQL = `
INSERT INTO records(logged_date, logged_time, category, description, calories, exercise_type, duration_minutes, distance_miles, id)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func insertRecord(ex execer, rec model.Record) error {
	row := EncodeRow(rec)
	_, err := ex.Exec(insertRecordSQL, row[colDate], row[colTime], row[colCategory], row[colDescription], rec.Calories, row[colExerciseType], rec.DurationMinutes, rec.DistanceMiles, rec.ID)
	return err
}

func (s *SQLite) Append(rec model.Record) (model.Record, error) {
	rec, err := ensureID(rec)
	if err != nil {
		return rec, writeError("append record", err)
	}
	if err := insertRecord(s.db, rec); err != nil {
		return rec, writeError("insert record", err)
	}
	s.opts.Logger.WithFields(logrus.Fields{"id": rec.ID, "category": rec.Category}).Debug("appended record")
	return rec, nil
}

// AppendAll inserts records in one transaction. Either all are stored or
// none are.
func (s *SQLite) AppendAll(records []model.Record) ([]model.Record, error) {
	out := make([]model.Record, 0, len(records))
	tx, err := s.db.Begin()
	if err != nil {
		return nil, writeError("begin append", err)
	}
	for i, rec := range records {
		rec, err := ensureID(rec)
		if err != nil {
			_ = tx.Rollback()
			return nil, writeError("append record", err)
		}
		if err := insertRecord(tx, rec); err != nil {
			_ = tx.Rollback()
			return nil, writeError(fmt.Sprintf("insert record %d", i), err)
		}
		out = append(out, rec)
	}
	if err := tx.Commit(); err != nil {
		return nil, writeError("commit append", err)
	}
	s.opts.Logger.WithField("count", len(out)).Debug("appended records")
	return out, nil
}

func (s *SQLite) LoadAll() ([]model.Record, error) {
	rows, err := s.db.Query(`
SELECT logged_date, logged_time, category, description, calories, exercise_type, duration_minutes, distance_miles, id
FROM records
ORDER BY seq ASC`)
	if err != nil {
		return nil, readError("query records", err)
	}
	defer rows.Close()

	records := make([]model.Record, 0)
	for rows.Next() {
		var cols [9]sql.NullString
		if err := rows.Scan(&cols[0], &cols[1], &cols[2], &cols[3], &cols[4], &cols[5], &cols[6], &cols[7], &cols[8]); err != nil {
			return nil, readError("scan record", err)
		}
		raw := make([]string, len(cols))
		for i := range cols {
			raw[i] = cols[i].String
		}
		rec, warnings := DecodeRow(raw, len(records), s.opts.Location)
		for _, w := range warnings {
			s.opts.Warn(w)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, readError("iterate records", err)
	}
	return records, nil
}

func (s *SQLite) DeleteAt(index int) error {
	if index < 0 {
		return writeError("delete record", fmt.Errorf("%w: %d", ErrIndexOutOfRange, index))
	}
	tx, err := s.db.Begin()
	if err != nil {
		return writeError("begin delete", err)
	}
	var seq int64
	err = tx.QueryRow(`SELECT seq FROM records ORDER BY seq ASC LIMIT 1 OFFSET ?`, index).Scan(&seq)
	if err == sql.ErrNoRows {
		_ = tx.Rollback()
		return writeError("delete record", fmt.Errorf("%w: %d", ErrIndexOutOfRange, index))
	}
	if err != nil {
		_ = tx.Rollback()
		return writeError("locate record", err)
	}
	if _, err := tx.Exec(`DELETE FROM records WHERE seq = ?`, seq); err != nil {
		_ = tx.Rollback()
		return writeError("delete record", err)
	}
	if err := tx.Commit(); err != nil {
		return writeError("commit delete", err)
	}
	return nil
}

func (s *SQLite) DeleteByID(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return writeError("delete record", fmt.Errorf("%w: empty id", ErrNotFound))
	}
	res, err := s.db.Exec(`DELETE FROM records WHERE id = ?`, id)
	if err != nil {
		return writeError("delete record "+id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return writeError("read rows affected", err)
	}
	if affected == 0 {
		return writeError("delete record", fmt.Errorf("%w: %s", ErrNotFound, id))
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
