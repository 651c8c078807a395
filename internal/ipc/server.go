package ipc

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"kiln/internal/logging"
)

// CommandFunc executes a registered command and returns its exit status.
type CommandFunc func(ctx context.Context, args []string) int

// Server exposes the command protocol via JSON-RPC over a unix domain socket.
// Each server instance carries a unique identifier so clients can tell whether
// two sockets lead to the same process.
type Server struct {
	path      string
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer binds the command server to the given socket path. A stale socket
// file at that path is removed before binding; a live listener makes the bind
// fail, which callers treat as another instance having won the address.
func NewServer(ctx context.Context, path string, commands map[string]CommandFunc, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	svc := &service{
		instanceID: uuid.NewString(),
		startedAt:  time.Now().UTC(),
		commands:   commands,
		logger:     logger,
		ctx:        serverCtx,
		cancel:     cancel,
	}

	rpcServer := rpc.NewServer()
	if err := rpcServer.RegisterName("Kiln", svc); err != nil {
		cancel()
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	return &Server{
		path:      path,
		logger:    logger,
		listener:  listener,
		rpcServer: rpcServer,
		ctx:       serverCtx,
		cancel:    cancel,
	}, nil
}

// Serve accepts RPC connections until the context is canceled or Shutdown is
// requested over the wire.
func (s *Server) Serve() {
	s.logger.Debug("command server listening", logging.String(logging.FieldSocket, s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				s.logger.Warn("accept failed",
					logging.Error(err),
					logging.String(logging.FieldEventType, "ipc_accept_failed"))
				continue
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(c))
			}(conn)
		}
	}()
}

// Done is closed once the server has been asked to stop, either via context
// cancellation or a Shutdown RPC.
func (s *Server) Done() <-chan struct{} {
	return s.ctx.Done()
}

// Close stops the server and removes the socket file.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("failed to remove socket",
			logging.String(logging.FieldSocket, s.path),
			logging.Error(err),
			logging.String(logging.FieldEventType, "ipc_socket_cleanup_failed"))
	}
}

type service struct {
	instanceID string
	startedAt  time.Time
	commands   map[string]CommandFunc
	logger     *slog.Logger
	ctx        context.Context
	cancel     context.CancelFunc
}

func (s *service) Run(req RunRequest, resp *RunResponse) error {
	resp.InstanceID = s.instanceID
	cmd, ok := s.commands[req.EntryClass]
	if !ok {
		s.logger.Debug("unknown entry class",
			logging.String(logging.FieldEntryClass, req.EntryClass))
		resp.ExitCode = ExitNoSuchCommand
		return nil
	}
	start := time.Now()
	resp.ExitCode = cmd(s.ctx, req.Args)
	s.logger.Info("command executed",
		logging.String(logging.FieldEventType, "command_executed"),
		logging.String(logging.FieldEntryClass, req.EntryClass),
		logging.Int("exit_code", resp.ExitCode),
		logging.Duration("elapsed", time.Since(start)))
	return nil
}

func (s *service) Ping(_ PingRequest, resp *PingResponse) error {
	resp.InstanceID = s.instanceID
	resp.PID = os.Getpid()
	resp.StartedAt = s.startedAt.Format(time.RFC3339)
	return nil
}

func (s *service) Shutdown(_ ShutdownRequest, resp *ShutdownResponse) error {
	s.logger.Info("shutdown requested",
		logging.String(logging.FieldEventType, "server_shutdown"))
	resp.Stopping = true
	s.cancel()
	return nil
}
