package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/pulse-dev/pulse/pkg/loop"
	"github.com/pulse-dev/pulse/pkg/pulse"
	"github.com/pulse-dev/pulse/pkg/telemetry"
)

func demoCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Serve a live counter over WebSocket",
		Long: `demo runs a reactive graph on a single event loop and streams a
derived counter to every connected WebSocket client. Ticks and client
increments both flow through the same runtime; an effect broadcasts each
change.

Endpoints:
  /ws       WebSocket stream of counter updates; send "inc" to increment
  /metrics  Prometheus metrics for the runtime`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")

	return cmd
}

type counterUpdate struct {
	Ticks   int `json:"ticks"`
	Clicks  int `json:"clicks"`
	Total   int `json:"total"`
	Clients int `json:"clients"`
}

type demoHub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func (h *demoHub) add(c *websocket.Conn) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[c] = struct{}{}
	return len(h.conns)
}

func (h *demoHub) remove(c *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, c)
}

func (h *demoHub) broadcast(msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.conns {
		if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
			c.Close()
			delete(h.conns, c)
		}
	}
}

func (h *demoHub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

func runDemo(addr string) error {
	lp := loop.New()
	go lp.Run()
	defer lp.Stop()

	rt := pulse.NewRuntime(pulse.WithScheduler(lp))
	hub := &demoHub{conns: make(map[*websocket.Conn]struct{})}

	var (
		ticks  *pulse.Signal[int]
		clicks *pulse.Signal[int]
		total  *pulse.Memo[int]
	)
	lp.Dispatch(func() {
		ticks = pulse.NewSignal(rt, 0)
		clicks = pulse.NewSignal(rt, 0)
		total = pulse.NewMemo(rt, func() int { return ticks.Get() + clicks.Get() })

		pulse.NewEffect(rt, func() pulse.Cleanup {
			update := counterUpdate{
				Ticks:   ticks.Get(),
				Clicks:  clicks.Get(),
				Total:   total.Get(),
				Clients: hub.count(),
			}
			msg, _ := json.Marshal(update)
			hub.broadcast(msg)
			return nil
		})
	})
	lp.Sync()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	go func() {
		for range ticker.C {
			lp.Dispatch(func() {
				ticks.Update(func(v int) int { return v + 1 })
			})
		}
	}()

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(telemetry.NewCollector(rt))

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.Get("/ws", func(w http.ResponseWriter, req *http.Request) {
		conn, err := upgrader.Upgrade(w, req, nil)
		if err != nil {
			return
		}
		hub.add(conn)
		defer func() {
			hub.remove(conn)
			conn.Close()
		}()

		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if string(msg) == "inc" {
				lp.Dispatch(func() {
					clicks.Update(func(v int) int { return v + 1 })
				})
			}
		}
	})

	srv := &http.Server{Addr: addr, Handler: r}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		fmt.Printf("demo listening on %s\n", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
