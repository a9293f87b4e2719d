// Package server wires the gateway runtime and gRPC lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"

	"github.com/popcity/popcity/internal/api/gamifyv1"
	grpcmeta "github.com/popcity/popcity/internal/api/grpc/metadata"
	"github.com/popcity/popcity/internal/platform/config"
	platformgrpc "github.com/popcity/popcity/internal/platform/grpc"
	"github.com/popcity/popcity/internal/platform/timeouts"
	"github.com/popcity/popcity/internal/services/gateway/api/grpc/gamify"
	"github.com/popcity/popcity/internal/services/gateway/domain/tally"
	gatewaysqlite "github.com/popcity/popcity/internal/services/gateway/storage/sqlite"
)

type serverEnv struct {
	DBPath string `env:"DB_PATH"`
}

func loadServerEnv() serverEnv {
	var cfg serverEnv
	if err := config.ParseEnvWithPrefix(&cfg, "GATEWAY_"); err != nil {
		log.Printf("gateway env: %v", err)
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		cfg.DBPath = filepath.Join("data", "gateway.db")
	}
	return cfg
}

// Options tunes a gateway server. Zero values fall back to the environment
// and defaults.
type Options struct {
	DBPath string
	Policy tally.Policy
}

// Server hosts the gamify gRPC API and storage lifecycle.
type Server struct {
	listener   net.Listener
	grpcServer *grpc.Server
	health     *health.Server
	store      *gatewaysqlite.Store
	policy     tally.Policy
}

// New creates a configured gateway server listening on the provided port.
func New(port int, opts Options) (*Server, error) {
	return NewWithAddr(fmt.Sprintf(":%d", port), opts)
}

// NewWithAddr creates a configured gateway server for the provided address.
func NewWithAddr(addr string, opts Options) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	dbPath := strings.TrimSpace(opts.DBPath)
	if dbPath == "" {
		dbPath = loadServerEnv().DBPath
	}
	store, err := openGatewayStore(dbPath)
	if err != nil {
		_ = listener.Close()
		return nil, err
	}
	policy := opts.Policy
	if policy == nil {
		policy = tally.FirstVote{}
	}

	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(grpcmeta.UnaryServerInterceptor(nil)),
	)
	gamifyv1.RegisterGamifyServiceServer(grpcServer, gamify.NewService(store, policy))
	healthServer := platformgrpc.RegisterHealth(grpcServer, gamifyv1.ServiceName)

	return &Server{
		listener:   listener,
		grpcServer: grpcServer,
		health:     healthServer,
		store:      store,
		policy:     policy,
	}, nil
}

// Addr returns the listener address for the server.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Run creates and serves a gateway server until context cancellation.
func Run(ctx context.Context, port int, opts Options) error {
	server, err := New(port, opts)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// Serve starts the gRPC server until context cancellation.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil {
		return errors.New("server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.Close()

	log.Printf("gateway server listening at %v (tally %s)", s.listener.Addr(), s.policy.Name())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.grpcServer.Serve(s.listener)
	}()

	select {
	case <-ctx.Done():
		if s.health != nil {
			s.health.Shutdown()
		}
		s.gracefulStop(timeouts.Shutdown)
		err := <-serveErr
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve gRPC: %w", err)
	case err := <-serveErr:
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve gRPC: %w", err)
	}
}

// gracefulStop drains in-flight calls for at most limit, then forces a stop.
func (s *Server) gracefulStop(limit time.Duration) {
	done := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(done)
	}()
	timer := time.NewTimer(limit)
	defer timer.Stop()
	select {
	case <-done:
	case <-timer.C:
		log.Printf("gateway graceful stop exceeded %s; forcing stop", limit)
		s.grpcServer.Stop()
		<-done
	}
}

// Close releases gateway server resources.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.health != nil {
		s.health.Shutdown()
	}
	if s.grpcServer != nil {
		s.grpcServer.Stop()
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			log.Printf("close gateway store: %v", err)
		}
	}
}

func openGatewayStore(path string) (*gatewaysqlite.Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeouts.StoreBusy)
	defer cancel()
	store, err := gatewaysqlite.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("open gateway sqlite store: %w", err)
	}
	return store, nil
}
