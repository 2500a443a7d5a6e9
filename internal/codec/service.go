package codec

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/danielpatrickdp/quadbreak/internal/cipher"
	"github.com/danielpatrickdp/quadbreak/internal/pipeline"
	"github.com/danielpatrickdp/quadbreak/internal/store"
)

// #region service-desc
const (
	ServiceName     = "quadbreak.v1.Breaker"
	breakFullMethod = "/" + ServiceName + "/Break"
)

// BreakerServer is the server side of the Breaker service.
type BreakerServer interface {
	Break(context.Context, *BreakRequest) (*BreakResponse, error)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BreakerServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Break", Handler: breakHandler},
	},
	Metadata: "quadbreak/v1/breaker",
}

func breakHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(BreakRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BreakerServer).Break(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: breakFullMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(BreakerServer).Break(ctx, req.(*BreakRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// RegisterBreakerServer registers srv on s.
func RegisterBreakerServer(s grpc.ServiceRegistrar, srv BreakerServer) {
	s.RegisterService(&serviceDesc, srv)
}

// #endregion service-desc

// #region server
// Default caps on the search a single request may ask for.
const (
	DefaultMaxRestarts   = 32
	DefaultMaxIterations = 200000
)

// Server answers Break calls by running the pipeline. When a store is set,
// every successful run is persisted and its ID returned.
type Server struct {
	pipeline      *pipeline.Pipeline
	store         *store.Store
	logger        *zap.Logger
	maxRestarts   int
	maxIterations int
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithLimits caps the restarts and iterations a request may override.
func WithLimits(maxRestarts, maxIterations int) ServerOption {
	return func(s *Server) {
		s.maxRestarts = maxRestarts
		s.maxIterations = maxIterations
	}
}

// NewServer returns a server running p. s and logger may be nil.
func NewServer(p *pipeline.Pipeline, s *store.Store, logger *zap.Logger, opts ...ServerOption) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	srv := &Server{
		pipeline:      p,
		store:         s,
		logger:        logger,
		maxRestarts:   DefaultMaxRestarts,
		maxIterations: DefaultMaxIterations,
	}
	for _, opt := range opts {
		opt(srv)
	}
	return srv
}

// Register adds the Breaker and health services to gs.
func (s *Server) Register(gs *grpc.Server) {
	RegisterBreakerServer(gs, s)
	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(gs, hs)
}

// Break runs the pipeline over req.Encoded.
func (s *Server) Break(ctx context.Context, req *BreakRequest) (*BreakResponse, error) {
	p, err := s.withOverrides(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	rep, err := p.Run(ctx, req.Encoded)
	if err != nil {
		return nil, toStatus(err)
	}

	resp := &BreakResponse{
		Decoded:    rep.Decoded,
		Shift:      rep.Caesar.Shift,
		CaesarText: rep.Caesar.Text,
		Key:        rep.Substitution.Key.String(),
		Plaintext:  rep.Plaintext(),
		Score:      rep.Substitution.Score,
		Seed:       rep.Substitution.Seed,
	}
	if n := len(rep.Stages); n > 0 {
		resp.Fitness = rep.Stages[n-1].Fitness
	}

	if s.store != nil {
		id, err := p.Persist(s.store, req.Encoded, rep)
		if err != nil {
			s.logger.Error("persist run", zap.Error(err))
			return nil, status.Error(codes.Internal, "persist run failed")
		}
		resp.RunID = id
	}

	s.logger.Info("break served",
		zap.String("run_id", resp.RunID),
		zap.Int("shift", resp.Shift),
		zap.String("key", resp.Key),
		zap.Float64("fitness", resp.Fitness))
	return resp, nil
}

func (s *Server) withOverrides(req *BreakRequest) (*pipeline.Pipeline, error) {
	if req.Seed == 0 && req.Restarts == 0 && req.Iterations == 0 {
		return s.pipeline, nil
	}
	if req.Restarts > s.maxRestarts {
		return nil, &cipher.ConfigurationError{Field: "restarts", Reason: fmt.Sprintf("at most %d per request", s.maxRestarts)}
	}
	if req.Iterations > s.maxIterations {
		return nil, &cipher.ConfigurationError{Field: "iterations", Reason: fmt.Sprintf("at most %d per request", s.maxIterations)}
	}
	cfg := s.pipeline.Search()
	if req.Seed != 0 {
		cfg.Seed = req.Seed
	}
	if req.Restarts != 0 {
		cfg.Restarts = req.Restarts
	}
	if req.Iterations != 0 {
		cfg.Iterations = req.Iterations
	}
	return s.pipeline.WithSearch(cfg)
}

func toStatus(err error) error {
	var malformed *cipher.MalformedInputError
	if errors.As(err, &malformed) {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return status.FromContextError(err).Err()
	}
	return status.Error(codes.Internal, err.Error())
}

// #endregion server
