package ipc

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"
)

// DialTimeout bounds a single connection attempt. Retry belongs to the
// caller; Dial itself makes exactly one attempt.
const DialTimeout = 2 * time.Second

// Client provides RPC access to a command server over its unix socket.
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// Dial connects to the command server at the given socket path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, DialTimeout)
	if err != nil {
		return nil, err
	}
	rpcClient := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return &Client{conn: conn, client: rpcClient}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		_ = c.client.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Run dispatches one command and returns its remote exit status.
func (c *Client) Run(req RunRequest) (*RunResponse, error) {
	var resp RunResponse
	if err := c.client.Call("Kiln.Run", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Ping returns the identity of the server instance behind the socket.
func (c *Client) Ping() (*PingResponse, error) {
	var resp PingResponse
	if err := c.client.Call("Kiln.Ping", PingRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Shutdown asks the server to exit.
func (c *Client) Shutdown() (*ShutdownResponse, error) {
	var resp ShutdownResponse
	if err := c.client.Call("Kiln.Shutdown", ShutdownRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
