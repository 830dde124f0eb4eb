// Package server wires together registry, dispatch, and netio into a
// runnable instance, and is the thing both the CLI and integration tests
// start.
package server

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/asadovsky/gosh"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/deepakn94/CollabTeX/dispatch"
	"github.com/deepakn94/CollabTeX/internal/metrics"
	"github.com/deepakn94/CollabTeX/netio"
	"github.com/deepakn94/CollabTeX/registry"
)

// Options configures a server instance. The zero value is usable: it binds
// the default palette and disables the metrics listener.
type Options struct {
	MetricsAddr string // empty disables the /metrics listener
	Palette     []registry.Color
}

// Serve starts the dispatcher and the TCP listener on addr and blocks
// until the listener fails. It signals readiness via gosh once both are
// up, mirroring the teacher's own ot.Serve/hub.Serve pattern, so test
// harnesses spawning this as a subprocess can await it.
func Serve(addr string) error {
	return ServeOptions(addr, Options{})
}

// ServeOptions is Serve with the CLI's full set of knobs.
func ServeOptions(addr string, opts Options) error {
	logger := log.New(os.Stderr, "collabtexd: ", log.LstdFlags)

	promReg := prometheus.NewRegistry()
	m := metrics.New(promReg)

	reg := registry.New(opts.Palette)
	d := dispatch.New(reg, m, logger)
	go d.Run()

	ln, err := netio.Listen(addr, reg, d.Enqueue, m, logger)
	if err != nil {
		return err
	}

	if opts.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(promReg, promhttp.HandlerOpts{}))
		metricsSrv := &http.Server{Addr: opts.MetricsAddr, Handler: mux}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Printf("metrics listener: %v", err)
			}
		}()
		logger.Printf("metrics on %s", opts.MetricsAddr)
	}

	logger.Printf("serving on %s", ln.Addr())
	go func() {
		time.Sleep(100 * time.Millisecond)
		gosh.SendVars(map[string]string{"ready": ""})
	}()

	if err := ln.Serve(); err != nil {
		return fmt.Errorf("listener: %w", err)
	}
	return nil
}
