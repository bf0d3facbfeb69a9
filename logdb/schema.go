// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

// a row per emitted event, keyed by the committing transaction and the
// position of the event within it
const eventTableSchema = `
CREATE TABLE IF NOT EXISTS event (
	txNumber INTEGER NOT NULL,
	eventIndex INTEGER NOT NULL,
	txTime INTEGER NOT NULL,
	op TEXT NOT NULL,
	address BLOB(20) NOT NULL,
	name TEXT NOT NULL,
	subject BLOB(20) NOT NULL,
	amount TEXT,
	fields TEXT,
	PRIMARY KEY (txNumber, eventIndex)
);

CREATE INDEX IF NOT EXISTS event_name ON event(name);
CREATE INDEX IF NOT EXISTS event_address ON event(address);
CREATE INDEX IF NOT EXISTS event_subject ON event(subject);
CREATE INDEX IF NOT EXISTS event_time ON event(txTime);
`
