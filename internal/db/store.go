/*
 * Copyright (c) 2024. Anton Starikov -- All Rights Reserved
 *
 * This file is part of HCOPT project.
 *
 * HCOPT is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as the Free Software Foundation,
 * either version 3 of the License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 */

package db

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/antst/hcopt/internal/logger"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS plan_runs (
	id      INTEGER PRIMARY KEY AUTOINCREMENT,
	ts      INTEGER NOT NULL,
	status  TEXT NOT NULL,
	payload TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS forecast_state (
	name    TEXT PRIMARY KEY,
	ts      INTEGER NOT NULL,
	payload TEXT NOT NULL
);
`

// Store persists the daemon's small bits of state: the last planning
// run, the committed manual override, and the last payload per
// forecast source so a restart can replan without waiting for fresh
// messages.
type Store struct {
	db *sqlx.DB
}

func Open(dbFile string) *Store {
	d, err := sqlx.Open("sqlite3", dbFile)
	if err != nil {
		logger.L().Panic(err)
	}
	if err := d.Ping(); err != nil {
		logger.L().Panicf("%s: %v", dbFile, err)
	}
	if _, err := d.Exec(schema); err != nil {
		logger.L().Panic(err)
	}
	return &Store{db: d}
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) SetValue(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO kv(key, value) VALUES(?, ?)
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value`, key, value)
	return errors.WithMessagef(err, "kv write %q", key)
}

// Value returns the stored value or the fallback when the key is
// absent.
func (s *Store) Value(key, fallback string) string {
	var v string
	err := s.db.Get(&v, `SELECT value FROM kv WHERE key=?`, key)
	if err == sql.ErrNoRows {
		return fallback
	}
	if err != nil {
		logger.L().Errorf("kv read %q: %v", key, err)
		return fallback
	}
	return v
}

// PlanRun is a persisted planning result in serialized form.
type PlanRun struct {
	ID      int64  `db:"id"`
	TS      int64  `db:"ts"`
	Status  string `db:"status"`
	Payload string `db:"payload"`
}

func (s *Store) SavePlanRun(ts time.Time, status, payload string) error {
	if _, err := s.db.Exec(
		`INSERT INTO plan_runs(ts, status, payload) VALUES(?, ?, ?)`,
		ts.Unix(), status, payload); err != nil {
		return errors.WithMessage(err, "save plan run")
	}
	// Only the most recent runs matter; keep the table from growing
	// without bound.
	_, err := s.db.Exec(
		`DELETE FROM plan_runs WHERE id NOT IN
		 (SELECT id FROM plan_runs ORDER BY id DESC LIMIT 100)`)
	return errors.WithMessage(err, "prune plan runs")
}

func (s *Store) LastPlanRun() (*PlanRun, error) {
	var run PlanRun
	err := s.db.Get(&run, `SELECT id, ts, status, payload FROM plan_runs ORDER BY id DESC LIMIT 1`)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WithMessage(err, "load plan run")
	}
	return &run, nil
}

func (s *Store) SaveForecastState(name string, ts time.Time, payload string) error {
	_, err := s.db.Exec(
		`INSERT INTO forecast_state(name, ts, payload) VALUES(?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET ts=excluded.ts, payload=excluded.payload`,
		name, ts.Unix(), payload)
	return errors.WithMessagef(err, "save forecast state %q", name)
}

func (s *Store) ForecastState(name string) (payload string, ts time.Time, ok bool) {
	var row struct {
		TS      int64  `db:"ts"`
		Payload string `db:"payload"`
	}
	err := s.db.Get(&row, `SELECT ts, payload FROM forecast_state WHERE name=?`, name)
	if err == sql.ErrNoRows {
		return "", time.Time{}, false
	}
	if err != nil {
		logger.L().Errorf("forecast state %q: %v", name, err)
		return "", time.Time{}, false
	}
	return row.Payload, time.Unix(row.TS, 0), true
}
