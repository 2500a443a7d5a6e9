package codec

import (
	"context"
	"fmt"
	"net"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/danielpatrickdp/quadbreak/internal/pipeline"
	"github.com/danielpatrickdp/quadbreak/internal/quadgram"
	"github.com/danielpatrickdp/quadbreak/internal/store"
	"github.com/danielpatrickdp/quadbreak/internal/substitution"
)

// #region helpers

func binary(text string) string {
	tokens := make([]string, 0, len(text))
	for _, r := range text {
		tokens = append(tokens, fmt.Sprintf("%08b", r))
	}
	return strings.Join(tokens, " ")
}

func newTestPipeline(t *testing.T) *pipeline.Pipeline {
	t.Helper()
	m, err := quadgram.Builtin()
	require.NoError(t, err)
	cfg := substitution.DefaultConfig()
	cfg.Restarts = 1
	cfg.Iterations = 200
	cfg.Seed = 5
	p, err := pipeline.New(m, cfg)
	require.NoError(t, err)
	return p
}

// dial serves srv over an in-memory listener and returns a client for it.
func dial(t *testing.T, srv *Server) (*Client, *grpc.ClientConn) {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	gs := grpc.NewServer()
	srv.Register(gs)
	go gs.Serve(lis)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)

	t.Cleanup(func() {
		conn.Close()
		gs.Stop()
	})
	return NewClientWithConn(conn), conn
}

// #endregion helpers

// #region break-tests

func TestBreakRoundTrip(t *testing.T) {
	client, _ := dial(t, NewServer(newTestPipeline(t), nil, nil))

	resp, err := client.Break(context.Background(), &BreakRequest{Encoded: binary("Khoor, zruog")})
	require.NoError(t, err)

	assert.Equal(t, "Khoor, zruog", resp.Decoded)
	assert.Len(t, resp.Key, 26)
	assert.Equal(t, uint64(5), resp.Seed)
	assert.Empty(t, resp.RunID)
	assert.Equal(t, len(resp.CaesarText), len(resp.Plaintext))
}

func TestBreakSeedOverride(t *testing.T) {
	client, _ := dial(t, NewServer(newTestPipeline(t), nil, nil))

	req := &BreakRequest{Encoded: binary("attack at dawn"), Seed: 99, Iterations: 150}
	first, err := client.Break(context.Background(), req)
	require.NoError(t, err)
	second, err := client.Break(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, uint64(99), first.Seed)
	assert.Equal(t, first.Key, second.Key)
	assert.Equal(t, first.Plaintext, second.Plaintext)
}

func TestBreakPersists(t *testing.T) {
	s, err := store.NewStore(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer s.Close()

	client, _ := dial(t, NewServer(newTestPipeline(t), s, nil))
	resp, err := client.Break(context.Background(), &BreakRequest{Encoded: binary("meet me later")})
	require.NoError(t, err)
	require.NotEmpty(t, resp.RunID)

	run, err := s.GetRun(resp.RunID)
	require.NoError(t, err)
	assert.Equal(t, resp.Key, run.Key)
	assert.Equal(t, resp.Plaintext, run.Plaintext)
}

func TestBreakMalformedInput(t *testing.T) {
	client, _ := dial(t, NewServer(newTestPipeline(t), nil, nil))

	_, err := client.Break(context.Background(), &BreakRequest{Encoded: "0100 2"})
	require.Error(t, err)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	assert.Contains(t, err.Error(), "break rpc")
}

func TestBreakBadOverride(t *testing.T) {
	client, _ := dial(t, NewServer(newTestPipeline(t), nil, nil))

	_, err := client.Break(context.Background(), &BreakRequest{Encoded: binary("abc"), Restarts: -1})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestBreakCapsOverrides(t *testing.T) {
	client, _ := dial(t, NewServer(newTestPipeline(t), nil, nil, WithLimits(2, 300)))

	_, err := client.Break(context.Background(), &BreakRequest{Encoded: binary("abc"), Iterations: 301})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	assert.Contains(t, err.Error(), "at most 300")

	_, err = client.Break(context.Background(), &BreakRequest{Encoded: binary("abc"), Restarts: 3})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.Break(context.Background(), &BreakRequest{Encoded: binary("abc"), Restarts: 2, Iterations: 300})
	assert.NoError(t, err)
}

func TestBreakDefaultCap(t *testing.T) {
	srv := NewServer(newTestPipeline(t), nil, nil)
	_, err := srv.Break(context.Background(), &BreakRequest{Encoded: binary("abc"), Iterations: 1 << 62})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestBreakCancelledContext(t *testing.T) {
	srv := NewServer(newTestPipeline(t), nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := srv.Break(ctx, &BreakRequest{Encoded: binary("some words here")})
	assert.Equal(t, codes.Canceled, status.Code(err))
}

// #endregion break-tests

// #region health-tests

func TestHealthServing(t *testing.T) {
	_, conn := dial(t, NewServer(newTestPipeline(t), nil, nil))

	resp, err := healthpb.NewHealthClient(conn).Check(context.Background(),
		&healthpb.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}

// #endregion health-tests

// #region client-tests

func TestNewClientIsLazy(t *testing.T) {
	c, err := NewClient("localhost:0")
	require.NoError(t, err)
	assert.NoError(t, c.Close())
}

func TestInjectedConnCloseIsNoop(t *testing.T) {
	_, conn := dial(t, NewServer(newTestPipeline(t), nil, nil))
	c := NewClientWithConn(conn)
	require.NoError(t, c.Close())

	_, err := c.Break(context.Background(), &BreakRequest{Encoded: binary("still open")})
	assert.NoError(t, err)
}

func TestJSONCodecName(t *testing.T) {
	var c jsonCodec
	assert.Equal(t, "json", c.Name())

	b, err := c.Marshal(&BreakRequest{Encoded: "01", Seed: 3})
	require.NoError(t, err)
	assert.JSONEq(t, `{"encoded":"01","seed":3}`, string(b))

	var req BreakRequest
	assert.Error(t, c.Unmarshal([]byte("{"), &req))
}

// #endregion client-tests
