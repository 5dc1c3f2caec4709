package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/calvindb/calvindb/pkg/api"
	"github.com/calvindb/calvindb/pkg/broadcastlog"
	"github.com/calvindb/calvindb/pkg/config"
	"github.com/calvindb/calvindb/pkg/executor"
	"github.com/calvindb/calvindb/pkg/lock"
	"github.com/calvindb/calvindb/pkg/metrics"
	"github.com/calvindb/calvindb/pkg/scheduler"
	"github.com/calvindb/calvindb/pkg/sequencer"
	"github.com/calvindb/calvindb/pkg/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a CalvinDB node",
	Long: `serve starts one CalvinDB node: it opens the node's embedded store,
wires the lock manager, executor, and scheduler together, starts this
node's broadcast-log subscriber, and exposes the RunStmt gRPC API along
with a Prometheus metrics and health-check HTTP endpoint.

A node started this way participates in a cluster only to the extent
that its broadcast-log bus is shared with other nodes in-process; real
cross-process log replication is out of scope for this core. --config's
peers list is validated when the file is loaded but is not read by serve
or by any network transport.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("config", "c", "", "Path to node YAML config (required)")
	_ = serveCmd.MarkFlagRequired("config")
}

func runServe(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	store, err := storage.NewBoltStore(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("serve: open storage: %w", err)
	}
	metrics.RegisterComponent("storage", true, "ready")

	bus := broadcastlog.New()
	bus.Start()
	metrics.RegisterComponent("broadcastlog", true, "ready")

	sched := scheduler.New(lock.New(), executor.New(store))
	seq := sequencer.New(bus, sched)
	seq.Start()

	metrics.SetVersion(Version)
	metrics.RegisterComponent("api", false, "starting")

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		mux.Handle("/health", metrics.HealthHandler())
		mux.Handle("/ready", metrics.ReadyHandler())
		mux.Handle("/live", metrics.LivenessHandler())
		if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
			fmt.Fprintf(os.Stderr, "metrics server error: %v\n", err)
		}
	}()
	fmt.Printf("✓ Metrics and health endpoints: http://%s/{metrics,health,ready,live}\n", cfg.MetricsAddr)

	apiServer := api.NewServer(seq)
	errCh := make(chan error, 1)
	go func() {
		if err := apiServer.Start(cfg.BindAddr); err != nil {
			errCh <- fmt.Errorf("API server error: %w", err)
		}
	}()

	time.Sleep(100 * time.Millisecond)
	metrics.RegisterComponent("api", true, "ready")

	fmt.Printf("node %s is running. gRPC API listening on %s. Press Ctrl+C to stop.\n", cfg.NodeUUID, cfg.BindAddr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		fmt.Println("\nshutting down...")
	case err := <-errCh:
		fmt.Fprintf(os.Stderr, "\n%v\n", err)
	}

	shutdownGrace := cfg.ShutdownGrace
	done := make(chan struct{})
	go func() {
		apiServer.Stop()
		seq.Stop()
		bus.Stop()
		_ = store.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(shutdownGrace):
		fmt.Fprintln(os.Stderr, "shutdown grace period exceeded, exiting anyway")
	}

	fmt.Println("✓ shutdown complete")
	return nil
}
