package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/danielpatrickdp/quadbreak/internal/codec"
	"github.com/danielpatrickdp/quadbreak/internal/metrics"
	"github.com/danielpatrickdp/quadbreak/internal/pipeline"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the breaker over gRPC with Prometheus metrics",
		Args:  cobra.NoArgs,
		RunE:  a.serve,
	}
}

func (a *app) serve(cmd *cobra.Command, args []string) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	p, err := a.newPipeline(pipeline.WithMetrics(metrics.New(reg)))
	if err != nil {
		return err
	}
	s, err := a.openStore()
	if err != nil {
		return err
	}
	if s != nil {
		defer s.Close()
	}

	lis, err := net.Listen("tcp", a.cfg.Server.GRPCAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", a.cfg.Server.GRPCAddr, err)
	}
	gs := grpc.NewServer()
	codec.NewServer(p, s, a.logger,
		codec.WithLimits(a.cfg.Server.MaxRestarts, a.cfg.Server.MaxIterations)).Register(gs)

	var hs *http.Server
	if a.cfg.Server.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler(reg))
		hs = &http.Server{Addr: a.cfg.Server.MetricsAddr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("grpc listening", zap.String("addr", lis.Addr().String()))
		return gs.Serve(lis)
	})
	if hs != nil {
		g.Go(func() error {
			a.logger.Info("metrics listening", zap.String("addr", hs.Addr))
			if err := hs.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("shutting down")
		gs.GracefulStop()
		if hs == nil {
			return nil
		}
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return hs.Shutdown(sctx)
	})

	return g.Wait()
}
