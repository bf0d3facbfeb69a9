// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/viewtoken/crowdsale/api/utils"
	"github.com/viewtoken/crowdsale/cache"
	"github.com/viewtoken/crowdsale/log"
	"github.com/viewtoken/crowdsale/logdb"
	"github.com/viewtoken/crowdsale/runtime"
)

const (
	txSpan         = 100
	messageCacheSz = 1024
	pingPeriod     = 30 * time.Second
	writeWait      = 10 * time.Second
	pongWait       = pingPeriod * 2
)

var logger = log.WithContext("pkg", "subscriptions")

type Subscriptions struct {
	rt       *runtime.Runtime
	upgrader *websocket.Upgrader
	messages *cache.LRU
	done     chan struct{}
	wg       sync.WaitGroup
}

func New(rt *runtime.Runtime, allowedOrigins []string) *Subscriptions {
	messages, _ := cache.NewLRU(messageCacheSz)
	return &Subscriptions{
		rt: rt,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == origin || allowed == "*" {
						return true
					}
				}
				return false
			},
		},
		messages: messages,
		done:     make(chan struct{}),
	}
}

func (s *Subscriptions) parseCriteria(req *http.Request) (*logdb.EventCriteria, error) {
	query := req.URL.Query()
	var (
		criteria logdb.EventCriteria
		set      bool
	)
	if v := query.Get("address"); v != "" {
		addr, err := utils.ParseAddress("address", v)
		if err != nil {
			return nil, err
		}
		criteria.Address, set = &addr, true
	}
	if v := query.Get("subject"); v != "" {
		addr, err := utils.ParseAddress("subject", v)
		if err != nil {
			return nil, err
		}
		criteria.Subject, set = &addr, true
	}
	if v := query.Get("name"); v != "" {
		criteria.Name, set = &v, true
	}
	if !set {
		return nil, nil
	}
	return &criteria, nil
}

func (s *Subscriptions) parsePosition(req *http.Request) (uint64, error) {
	v := req.URL.Query().Get("pos")
	if v == "" {
		return s.rt.LogDB().LatestTxNumber()
	}
	pos, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, utils.BadRequest(errors.WithMessage(err, "pos"))
	}
	return pos, nil
}

func (s *Subscriptions) handleSubscribeEvents(w http.ResponseWriter, req *http.Request) error {
	if s.rt.LogDB() == nil {
		return utils.HTTPError(errors.New("event log disabled"), http.StatusServiceUnavailable)
	}
	pos, err := s.parsePosition(req)
	if err != nil {
		return err
	}
	criteria, err := s.parseCriteria(req)
	if err != nil {
		return err
	}
	reader := newEventReader(s.rt.LogDB(), pos, criteria, txSpan, s.messages)

	conn, err := s.upgrader.Upgrade(w, req, nil)
	// since the conn is hijacked here, no error should be returned in lines below
	if err != nil {
		logger.Debug("upgrade to websocket", "err", err)
		return nil
	}

	s.wg.Add(1)
	defer s.wg.Done()

	closed := make(chan struct{})
	// a read loop is needed to process control messages
	go func() {
		defer close(closed)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(pongWait))
			return nil
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				logger.Debug("websocket read", "err", err)
				return
			}
		}
	}()

	if err := s.pipe(conn, reader, closed); err != nil {
		logger.Debug("subscription closed", "err", err)
		conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseInternalServerErr, ""), time.Now().Add(writeWait))
	} else {
		conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
	}
	conn.Close()
	<-closed
	return nil
}

func (s *Subscriptions) pipe(conn *websocket.Conn, reader *eventReader, closed <-chan struct{}) error {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		// take the waiter before reading so that no commit is missed
		waiter := s.rt.NewWaiter()
		msgs, ok, err := reader.Read(context.Background())
		if err != nil {
			return err
		}
		for _, msg := range msgs {
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return err
			}
		}
		if ok {
			continue
		}

		select {
		case <-s.done:
			return nil
		case <-closed:
			return nil
		case <-waiter.C():
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return err
			}
		}
	}
}

// Close stops all subscriptions and waits for them to exit.
func (s *Subscriptions) Close() {
	close(s.done)
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/event").
		Methods(http.MethodGet).
		Name("WS /subscriptions/event").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSubscribeEvents))
}
