package codec

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// #region client-struct
// Client calls a remote Breaker service.
type Client struct {
	conn *grpc.ClientConn // nil when built on an injected connection
	cc   grpc.ClientConnInterface
}

// #endregion client-struct

// #region constructor
// NewClient connects to the Breaker server at addr without transport security.
func NewClient(addr string) (*Client, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &Client{conn: conn, cc: conn}, nil
}

// NewClientWithConn wraps an existing connection. Close leaves it open.
func NewClientWithConn(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// #endregion constructor

// #region close
// Close shuts down a connection opened by NewClient.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// #endregion close

// #region break
// Break sends one ciphertext to the server.
func (c *Client) Break(ctx context.Context, req *BreakRequest) (*BreakResponse, error) {
	resp := new(BreakResponse)
	if err := c.cc.Invoke(ctx, breakFullMethod, req, resp, grpc.CallContentSubtype(Name)); err != nil {
		return nil, fmt.Errorf("break rpc: %w", err)
	}
	return resp, nil
}

// #endregion break
