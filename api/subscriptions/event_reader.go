// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/viewtoken/crowdsale/api/events"
	"github.com/viewtoken/crowdsale/cache"
	"github.com/viewtoken/crowdsale/logdb"
)

// eventReader reads the events committed after its position, whole
// transactions at a time.
type eventReader struct {
	db       *logdb.LogDB
	criteria []*logdb.EventCriteria
	position uint64
	span     uint64
	messages *cache.LRU
}

func newEventReader(db *logdb.LogDB, position uint64, criteria *logdb.EventCriteria, span uint64, messages *cache.LRU) *eventReader {
	var set []*logdb.EventCriteria
	if criteria != nil {
		set = append(set, criteria)
	}
	return &eventReader{
		db:       db,
		criteria: set,
		position: position,
		span:     span,
		messages: messages,
	}
}

// Read returns the encoded messages of the next span of transactions. ok is
// false when there is nothing new to read.
func (er *eventReader) Read(ctx context.Context) (msgs [][]byte, ok bool, err error) {
	latest, err := er.db.LatestTxNumber()
	if err != nil {
		return nil, false, err
	}
	if latest <= er.position {
		return nil, false, nil
	}
	to := latest
	if to-er.position > er.span {
		to = er.position + er.span
	}

	evs, err := er.db.FilterEvents(ctx, &logdb.EventFilter{
		CriteriaSet: er.criteria,
		Range:       &logdb.Range{Unit: logdb.TxNumber, From: er.position + 1, To: to},
		Order:       logdb.ASC,
	})
	if err != nil {
		return nil, false, err
	}
	for _, ev := range evs {
		msg, err := er.encode(ev)
		if err != nil {
			return nil, false, err
		}
		msgs = append(msgs, msg)
	}
	er.position = to
	return msgs, true, nil
}

func (er *eventReader) encode(ev *logdb.Event) ([]byte, error) {
	v, err := er.messages.GetOrLoad(fmt.Sprintf("%d:%d", ev.TxNumber, ev.Index), func(any) (any, error) {
		return json.Marshal(events.ConvertEvent(ev))
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}
