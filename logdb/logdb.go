// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"math"
	"math/big"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/viewtoken/crowdsale/log"
	"github.com/viewtoken/crowdsale/metrics"
	"github.com/viewtoken/crowdsale/state"
	"github.com/viewtoken/crowdsale/vtk"
)

var (
	logger = log.WithContext("pkg", "logdb")

	metricEventsWritten = metrics.LazyLoadCounter("logdb_events_written")
	metricQueryCount    = metrics.LazyLoadCounterVec("logdb_query_count", []string{"order"})
)

type LogDB struct {
	path          string
	db            *sql.DB
	driverVersion string
}

// New creates or opens the log db at path.
func New(path string) (logDB *LogDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "open log db")
	}
	defer func() {
		if logDB == nil {
			db.Close()
		}
	}()
	// a :memory: database lives as long as its connection
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, errors.Wrap(err, "create schema")
	}

	driverVer, _, _ := sqlite3.Version()
	logger.Debug("log db opened", "path", path, "sqlite", driverVer)
	return &LogDB{
		path:          path,
		db:            db,
		driverVersion: driverVer,
	}, nil
}

// NewMem creates a log db in ram.
func NewMem() (*LogDB, error) {
	return New(":memory:")
}

func (db *LogDB) Close() error {
	return db.db.Close()
}

func (db *LogDB) Path() string {
	return db.path
}

func (db *LogDB) DriverVersion() string {
	return db.driverVersion
}

// LatestTxNumber returns the highest committed tx number, 0 for an empty db.
func (db *LogDB) LatestTxNumber() (uint64, error) {
	var n sql.NullInt64
	if err := db.db.QueryRow("SELECT MAX(txNumber) FROM event").Scan(&n); err != nil {
		return 0, err
	}
	if !n.Valid {
		return 0, nil
	}
	return uint64(n.Int64), nil
}

// Prepare starts a batch for the events of one transaction.
func (db *LogDB) Prepare(txNumber, txTime uint64, op string) *TxBatch {
	return &TxBatch{
		db:       db.db,
		txNumber: txNumber,
		txTime:   txTime,
		op:       op,
	}
}

func (db *LogDB) FilterEvents(ctx context.Context, filter *EventFilter) ([]*Event, error) {
	const query = "SELECT txNumber, eventIndex, txTime, op, address, name, subject, amount, fields FROM event"
	if filter == nil {
		return db.queryEvents(ctx, query+" ORDER BY txNumber ASC, eventIndex ASC")
	}
	var args []any
	stmt := query + " WHERE 1"
	if filter.Range != nil {
		column := "txNumber"
		if filter.Range.Unit == Time {
			column = "txTime"
		}
		from, to := clampInt64(filter.Range.From), clampInt64(filter.Range.To)
		args = append(args, from)
		stmt += " AND " + column + " >= ?"
		if to >= from {
			args = append(args, to)
			stmt += " AND " + column + " <= ?"
		}
	}
	for i, criteria := range filter.CriteriaSet {
		if i == 0 {
			stmt += " AND (( 1"
		} else {
			stmt += " OR ( 1"
		}
		if criteria.Address != nil {
			args = append(args, criteria.Address.Bytes())
			stmt += " AND address = ?"
		}
		if criteria.Name != nil {
			args = append(args, *criteria.Name)
			stmt += " AND name = ?"
		}
		if criteria.Subject != nil {
			args = append(args, criteria.Subject.Bytes())
			stmt += " AND subject = ?"
		}
		stmt += " )"
		if i == len(filter.CriteriaSet)-1 {
			stmt += ")"
		}
	}

	if filter.Order == DESC {
		stmt += " ORDER BY txNumber DESC, eventIndex DESC"
	} else {
		stmt += " ORDER BY txNumber ASC, eventIndex ASC"
	}
	if filter.Options != nil {
		stmt += " LIMIT ?, ?"
		args = append(args, clampInt64(filter.Options.Offset), clampInt64(filter.Options.Limit))
	}
	metricQueryCount().AddWithLabel(1, map[string]string{"order": string(filter.Order)})
	return db.queryEvents(ctx, stmt, args...)
}

// sqlite integers are signed 64-bit.
func clampInt64(v uint64) int64 {
	if v > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(v)
}

func (db *LogDB) queryEvents(ctx context.Context, stmt string, args ...any) ([]*Event, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			event   Event
			address []byte
			subject []byte
			amount  sql.NullString
			fields  sql.NullString
		)
		if err := rows.Scan(
			&event.TxNumber,
			&event.Index,
			&event.TxTime,
			&event.Op,
			&address,
			&event.Name,
			&subject,
			&amount,
			&fields,
		); err != nil {
			return nil, err
		}
		event.Address = vtk.BytesToAddress(address)
		event.Subject = vtk.BytesToAddress(subject)
		if amount.Valid {
			v, ok := new(big.Int).SetString(amount.String, 10)
			if !ok {
				return nil, errors.Errorf("bad amount %q", amount.String)
			}
			event.Amount = v
		}
		if fields.Valid {
			if err := json.Unmarshal([]byte(fields.String), &event.Fields); err != nil {
				return nil, errors.Wrap(err, "decode fields")
			}
		}
		events = append(events, &event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// TxBatch collects the events of one transaction and writes them in a
// single sqlite transaction.
type TxBatch struct {
	db       *sql.DB
	txNumber uint64
	txTime   uint64
	op       string
	events   []*Event
}

// Insert appends state logs in emission order.
func (b *TxBatch) Insert(logs ...*state.Log) *TxBatch {
	for _, l := range logs {
		b.events = append(b.events, newEvent(b.txNumber, b.txTime, b.op, uint32(len(b.events)), l))
	}
	return b
}

func (b *TxBatch) Len() int {
	return len(b.events)
}

func (b *TxBatch) execInTx(proc func(*sql.Tx) error) error {
	tx, err := b.db.Begin()
	if err != nil {
		return err
	}
	if err := proc(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (b *TxBatch) Commit() error {
	if len(b.events) == 0 {
		return nil
	}
	err := b.execInTx(func(tx *sql.Tx) error {
		for _, event := range b.events {
			var amount, fields any
			if event.Amount != nil {
				amount = event.Amount.String()
			}
			if len(event.Fields) > 0 {
				data, err := json.Marshal(event.Fields)
				if err != nil {
					return err
				}
				fields = string(data)
			}
			if _, err := tx.Exec("INSERT INTO event(txNumber, eventIndex, txTime, op, address, name, subject, amount, fields) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);",
				event.TxNumber,
				event.Index,
				event.TxTime,
				event.Op,
				event.Address.Bytes(),
				event.Name,
				event.Subject.Bytes(),
				amount,
				fields,
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errors.Wrapf(err, "commit events of tx %d", b.txNumber)
	}
	metricEventsWritten().Add(int64(len(b.events)))
	return nil
}
