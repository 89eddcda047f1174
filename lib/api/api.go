// Package api serves render statistics and a shutdown switch over HTTP.
//
//	@title			trianglix API
//	@version		1.0
//	@description	Statistics and control for the trianglix renderer.
//	@BasePath		/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime/pprof"
	"sync"
	"time"

	_ "github.com/fosdem/trianglix/lib/api/docs"
	"github.com/fosdem/trianglix/lib/config"
	tlog "github.com/fosdem/trianglix/lib/log"
	"github.com/fosdem/trianglix/lib/metrics"
	"github.com/fosdem/trianglix/lib/stats"
	"github.com/gorilla/websocket"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Api struct {
	srv  http.Server
	mux  *http.ServeMux
	cfg  *config.ApiCfg
	kill func()

	Stats *stats.Stats

	wsClients   map[*websocket.Conn]bool
	wsClientsMu sync.Mutex
	wsInterval  time.Duration
}

// New builds the api. kill is called when a client asks for shutdown.
func New(cfg *config.ApiCfg, st *stats.Stats, kill func()) *Api {
	a := &Api{}
	a.cfg = cfg
	a.mux = http.NewServeMux()
	a.kill = kill
	a.srv.Addr = cfg.Bind
	a.srv.Handler = a.mux
	a.wsClients = make(map[*websocket.Conn]bool)
	a.wsInterval = 2 * time.Second
	a.Stats = st

	if a.cfg.EnableProfiler {
		a.mux.HandleFunc("/prof", a.profileCPU)
	}
	a.mux.HandleFunc("POST /api/kill", a.suicide)
	a.mux.HandleFunc("GET /api/stats", a.getStats)
	a.mux.HandleFunc("GET /api/ws", a.handleWebsocket)
	a.mux.Handle("GET /metrics", metrics.Handler())
	a.mux.Handle("GET /swagger/", httpSwagger.WrapHandler)
	return a
}

func (a *Api) Handler() http.Handler {
	return a.mux
}

func (a *Api) Serve() error {
	return a.srv.ListenAndServe()
}

// Shutdown stops the web server. It is a no-op on a nil Api.
func (a *Api) Shutdown(ctx context.Context) error {
	if a == nil {
		return nil
	}
	return a.srv.Shutdown(ctx)
}

func (a *Api) profileCPU(w http.ResponseWriter, _ *http.Request) {
	err := pprof.StartCPUProfile(w)
	if err != nil {
		http.Error(w, fmt.Sprintf("Could not start CPU profile: %s", err), http.StatusInternalServerError)
		return
	}
	time.Sleep(10 * time.Second)
	pprof.StopCPUProfile()
}

// @Summary	Stop the renderer
// @Router		/api/kill [post]
// @Tags		base
// @Produce	json
// @Success	200	{string}	string	"ok"
func (a *Api) suicide(w http.ResponseWriter, _ *http.Request) {
	tlog.Module("api").Info("shutting down as per api request")
	a.kill()
	_, err := fmt.Fprintf(w, "\"ok\"\n")
	if err != nil {
		tlog.Module("api").Warn("could not write response", "err", err)
		return
	}
}

// @Summary	Get render statistics
// @Router		/api/stats [get]
// @Tags		base
// @Produce	json
// @Success	200	{object}	stats.Snapshot
func (a *Api) getStats(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	encoder := json.NewEncoder(w)
	err := encoder.Encode(a.Stats.Snapshot())
	if err != nil {
		http.Error(w, fmt.Sprintf("could not encode stats: %s", err), http.StatusInternalServerError)
		return
	}
}

// ServeInBackground starts the api when it is configured and returns nil
// otherwise.
func ServeInBackground(cfg *config.ApiCfg, st *stats.Stats, kill func()) *Api {
	if cfg == nil {
		return nil
	}
	theApi := New(cfg, st, kill)

	logger := tlog.Module("api")
	logger.Info("starting web server", "bind", cfg.Bind)
	go func() {
		err := theApi.Serve()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("web server stopped", "err", err)
		}
	}()
	return theApi
}
