// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"fmt"
	"math"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/viewtoken/crowdsale/api/utils"
	"github.com/viewtoken/crowdsale/logdb"
)

type Events struct {
	db    *logdb.LogDB
	limit uint64
}

func New(db *logdb.LogDB, logsLimit uint64) *Events {
	return &Events{
		db,
		logsLimit,
	}
}

func (e *Events) handleFilter(w http.ResponseWriter, req *http.Request) error {
	var filter EventFilter
	if err := utils.ParseJSON(req.Body, &filter); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if filter.Options != nil && filter.Options.Limit > e.limit {
		return utils.Forbidden(fmt.Errorf("options.limit exceeds the maximum allowed value of %d", e.limit))
	}
	if filter.Options != nil && filter.Options.Offset > math.MaxInt64 {
		return utils.BadRequest(fmt.Errorf("options.offset exceeds the maximum allowed value of %d", int64(math.MaxInt64)))
	}
	if filter.Range != nil && filter.Range.From != nil && filter.Range.To != nil && *filter.Range.From > *filter.Range.To {
		return utils.BadRequest(errors.New("filter.range.to must be greater than or equal to filter.range.from"))
	}
	if filter.Range != nil && filter.Range.Unit != "" && filter.Range.Unit != logdb.TxNumber && filter.Range.Unit != logdb.Time {
		return utils.BadRequest(fmt.Errorf("filter.range.unit: unknown unit %q", filter.Range.Unit))
	}
	if filter.Order != "" && filter.Order != logdb.ASC && filter.Order != logdb.DESC {
		return utils.BadRequest(fmt.Errorf("order: unknown order %q", filter.Order))
	}
	for i, criterion := range filter.CriteriaSet {
		if criterion == nil {
			return utils.BadRequest(fmt.Errorf("criteriaSet[%d]: null not allowed", i))
		}
	}
	if filter.Options == nil {
		filter.Options = &Options{Offset: 0, Limit: e.limit}
	}

	events, err := e.db.FilterEvents(req.Context(), convertEventFilter(&filter))
	if err != nil {
		return err
	}
	out := make([]*FilteredEvent, 0, len(events))
	for _, ev := range events {
		out = append(out, ConvertEvent(ev))
	}
	return utils.WriteJSON(w, out)
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /logs/event").
		HandlerFunc(utils.WrapHandlerFunc(e.handleFilter))
}
