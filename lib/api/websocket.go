package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	tlog "github.com/fosdem/trianglix/lib/log"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(req *http.Request) bool {
		return true
	},
}

// @Summary	Open websocket for realtime render statistics
// @Router		/api/ws [get]
// @Param		Upgrade	header	string	true	"websocket"
// @Tags		base
// @Success	101
func (a *Api) handleWebsocket(w http.ResponseWriter, req *http.Request) {
	ws, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		// Upgrade has already replied to the client
		tlog.Module("api").Warn(fmt.Sprintf("couldn't make websocket: %s", err))
		return
	}
	a.addClient(ws)

	done := make(chan struct{})
	go a.websocketWriter(ws, done)

	for {
		_, _, err := ws.ReadMessage()
		if err != nil {
			break
		}
	}
	close(done)
	a.removeClient(ws)
}

func (a *Api) addClient(ws *websocket.Conn) {
	a.wsClientsMu.Lock()
	defer a.wsClientsMu.Unlock()
	a.wsClients[ws] = true
	a.Stats.SetWsClients(len(a.wsClients))
}

func (a *Api) removeClient(ws *websocket.Conn) {
	a.wsClientsMu.Lock()
	defer a.wsClientsMu.Unlock()
	delete(a.wsClients, ws)
	a.Stats.SetWsClients(len(a.wsClients))
}

func (a *Api) websocketWriter(ws *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(a.wsInterval)
	defer func() {
		ticker.Stop()
		err := ws.Close()
		if err != nil {
			tlog.Module("api").Debug("could not close websocket", "err", err)
		}
	}()
	timeout := 10 * time.Second
	send := func() bool {
		packet, err := json.Marshal(a.Stats.Snapshot())
		if err != nil {
			return false
		}
		err = ws.SetWriteDeadline(time.Now().Add(timeout))
		if err != nil {
			tlog.Module("api").Warn("could not set write deadline", "err", err)
			return false
		}
		return ws.WriteMessage(websocket.TextMessage, packet) == nil
	}

	if !send() {
		return
	}
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if !send() {
				return
			}
		}
	}
}
