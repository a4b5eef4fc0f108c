package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"

	"github.com/Guiguiprim/hubris/internal/api"
	"github.com/Guiguiprim/hubris/internal/config"
	"github.com/Guiguiprim/hubris/internal/irq"
	"github.com/Guiguiprim/hubris/internal/kernel"
	"github.com/Guiguiprim/hubris/internal/logging"
	"github.com/Guiguiprim/hubris/internal/metrics"
	"github.com/Guiguiprim/hubris/internal/scenario"
)

// shutdownGrace bounds how long serve waits for the HTTP server to drain
// in-flight requests on SIGINT/SIGTERM before giving up.
const shutdownGrace = 5 * time.Second

func newServeCommand() *cobra.Command {
	var configPath, addr, logLevel string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the debug HTTP API and metrics endpoint against a live kernel",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd, configPath, addr, logLevel)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "boot configuration file (required)")
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "address to serve the debug API on")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func serve(cmd *cobra.Command, configPath, addr, logLevel string) error {
	log := logging.New(logging.Options{Level: logLevel})

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	collector := metrics.New(reg)

	k := kernel.New(len(cfg.Tasks), cfg.Priorities(), kernel.WithLogger(log), kernel.WithMetrics(collector))

	apiServer := api.New(k, log)

	mux := http.NewServeMux()
	mux.Handle("/", apiServer.Router())
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	httpServer := &http.Server{Addr: addr, Handler: mux}

	router, err := buildIRQRouter(cfg, k)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var g errgroup.Group

	g.Go(func() error {
		apiServer.StreamTransitions()
		return nil
	})

	if router != nil {
		g.Go(func() error {
			router.Run(k)
			return nil
		})
	}

	g.Go(func() error {
		log.WithField("addr", addr).Info("serving debug API")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	<-ctx.Done()
	log.Info("shutting down")

	apiServer.Stop()
	if router != nil {
		router.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}

	return g.Wait()
}

// buildIRQRouter resolves cfg's IRQ routes (by task name) against k's live
// task table and builds an irq.Router, or returns nil if none are
// configured.
func buildIRQRouter(cfg *config.BootConfig, k *kernel.Kernel) (*irq.Router, error) {
	if len(cfg.IRQRoutes) == 0 {
		return nil, nil
	}

	resolver := scenario.NewResolver(cfg, k)

	routes := make([]irq.Route, 0, len(cfg.IRQRoutes))
	for _, r := range cfg.IRQRoutes {
		id, ok := resolver.Resolve(r.Task)
		if !ok {
			return nil, errUnknownIRQTask(r.Task)
		}

		sig, err := irqSignal(r.Signal)
		if err != nil {
			return nil, err
		}

		routes = append(routes, irq.Route{Signal: sig, Task: id.Index, Bits: r.Bits})
	}

	return irq.NewRouter(routes), nil
}

func irqSignal(name string) (unix.Signal, error) {
	switch name {
	case "USR1":
		return unix.SIGUSR1, nil
	case "USR2":
		return unix.SIGUSR2, nil
	default:
		return 0, fmt.Errorf("serve: unsupported irq signal %q", name)
	}
}

func errUnknownIRQTask(name string) error {
	return fmt.Errorf("serve: irq route references unknown task %q", name)
}
