package ipc

// ExitNoSuchCommand is the reserved exit status a command server returns when
// the requested entry class is not registered. It is a protocol sentinel, not
// a real process exit code, and must never be surfaced to callers verbatim.
const ExitNoSuchCommand = 898

// RunRequest dispatches one command to the server.
type RunRequest struct {
	EntryClass string   `json:"entry_class"`
	Args       []string `json:"args"`
}

// RunResponse carries the remote exit status for a dispatched command.
type RunResponse struct {
	ExitCode   int    `json:"exit_code"`
	InstanceID string `json:"instance_id"`
}

// PingRequest checks server liveness.
type PingRequest struct{}

// PingResponse identifies the server instance behind a socket.
type PingResponse struct {
	InstanceID string `json:"instance_id"`
	PID        int    `json:"pid"`
	StartedAt  string `json:"started_at"`
}

// ShutdownRequest asks the server to stop accepting work and exit.
type ShutdownRequest struct{}

// ShutdownResponse acknowledges a shutdown request.
type ShutdownResponse struct {
	Stopping bool `json:"stopping"`
}
