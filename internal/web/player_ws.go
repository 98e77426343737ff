/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	ws "nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/friendsincode/onradio/internal/events"
	"github.com/friendsincode/onradio/internal/player"
	"github.com/friendsincode/onradio/internal/station"
	"github.com/friendsincode/onradio/internal/telemetry"
	"github.com/friendsincode/onradio/internal/tenant"
)

const playerWriteTimeout = 5 * time.Second

// audioCommand tells the browser's audio element what to do.
type audioCommand struct {
	Type   string   `json:"type"` // always "audio"
	Op     string   `json:"op"`   // source, play, pause, volume
	Src    string   `json:"src,omitempty"`
	Volume *float64 `json:"volume,omitempty"`
}

type viewMessage struct {
	Type string      `json:"type"` // always "view"
	View player.View `json:"view"`
}

// clientMessage is what the page sends: toggle, volume, dismiss or failed.
type clientMessage struct {
	Type   string  `json:"type"`
	Volume float64 `json:"volume"`
}

// remoteOutput is a player.AudioOutput that forwards commands to the
// browser. Commands are queued so the session never blocks on the socket.
type remoteOutput struct {
	cmds   chan audioCommand
	logger zerolog.Logger
}

func newRemoteOutput(logger zerolog.Logger) *remoteOutput {
	return &remoteOutput{cmds: make(chan audioCommand, 32), logger: logger}
}

func (o *remoteOutput) push(cmd audioCommand) {
	cmd.Type = "audio"
	select {
	case o.cmds <- cmd:
	default:
		o.logger.Warn().Str("op", cmd.Op).Msg("player command queue full, dropping")
	}
}

func (o *remoteOutput) SetSource(url string) { o.push(audioCommand{Op: "source", Src: url}) }

// Play only asks the browser to start; a refusal comes back as a "failed"
// message.
func (o *remoteOutput) Play(ctx context.Context) error {
	o.push(audioCommand{Op: "play"})
	return nil
}

func (o *remoteOutput) Pause() { o.push(audioCommand{Op: "pause"}) }

func (o *remoteOutput) SetVolume(v float64) { o.push(audioCommand{Op: "volume", Volume: &v}) }

// PlayerWebSocket drives a live player session for one listener. The
// session reloads when the station's configuration is saved.
func (h *Handler) PlayerWebSocket(w http.ResponseWriter, r *http.Request) {
	id := tenant.Sanitize(chi.URLParam(r, "subdomain"))

	cfg, err := h.stations.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, station.ErrNotFound) || errors.Is(err, station.ErrCorrupt) {
			http.Error(w, "Radio not found", http.StatusNotFound)
			return
		}
		h.logger.Error().Err(err).Str("tenant", id).Msg("load station for player socket failed")
		http.Error(w, "Failed to read config", http.StatusInternalServerError)
		return
	}

	conn, err := ws.Accept(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("websocket accept failed")
		return
	}
	defer conn.Close(ws.StatusInternalError, "server error")

	logger := h.logger.With().Str("tenant", id).Logger()
	out := newRemoteOutput(logger)
	session := player.NewSession(out, player.Options{Logger: &logger})
	defer session.Close()

	views, stopViews := session.Subscribe()
	defer stopViews()

	var saved events.Subscriber
	if h.bus != nil {
		saved = h.bus.Subscribe(events.EventConfigSaved)
		defer h.bus.Unsubscribe(events.EventConfigSaved, saved)
	}

	telemetry.PlayerSessionsActive.WithLabelValues(id).Inc()
	defer telemetry.PlayerSessionsActive.WithLabelValues(id).Dec()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	session.Load(id, cfg)
	go h.readPlayerMessages(ctx, cancel, conn, session)

	logger.Debug().Msg("player socket connected")

	for {
		var msg any
		select {
		case <-ctx.Done():
			conn.Close(ws.StatusNormalClosure, "")
			return
		case cmd := <-out.cmds:
			msg = cmd
		case v, ok := <-views:
			if !ok {
				return
			}
			msg = viewMessage{Type: "view", View: v}
		case p, ok := <-saved:
			if !ok {
				saved = nil
				continue
			}
			if p.Tenant() == id {
				h.reloadSession(ctx, session, id)
			}
			continue
		}

		wctx, wcancel := context.WithTimeout(ctx, playerWriteTimeout)
		err := wsjson.Write(wctx, conn, msg)
		wcancel()
		if err != nil {
			logger.Debug().Err(err).Msg("player socket write failed, client disconnected")
			return
		}
	}
}

func (h *Handler) reloadSession(ctx context.Context, session *player.Session, id string) {
	cfg, err := h.stations.Get(ctx, id)
	if err != nil {
		h.logger.Warn().Err(err).Str("tenant", id).Msg("reload station for player failed")
		return
	}
	session.ApplyIfCurrent(id, cfg)
}

func (h *Handler) readPlayerMessages(ctx context.Context, cancel context.CancelFunc, conn *ws.Conn, session *player.Session) {
	defer cancel()
	for {
		var msg clientMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			return
		}
		switch msg.Type {
		case "toggle":
			session.TogglePlay(ctx)
		case "volume":
			session.SetVolume(msg.Volume)
		case "dismiss":
			session.Dismiss()
		case "failed":
			session.PlaybackFailed("audio element refused to play")
		}
	}
}
