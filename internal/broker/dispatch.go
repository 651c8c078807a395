package broker

import (
	"fmt"

	"kiln/internal/ipc"
)

// Runner is the remote side of a dispatch. *ipc.Client satisfies it; tests
// substitute stubs.
type Runner interface {
	Run(req ipc.RunRequest) (*ipc.RunResponse, error)
}

// CommandRequest names a server entry point and its arguments.
type CommandRequest struct {
	EntryClass string
	Args       []string
}

// CommandResult is the tagged outcome of a dispatched command. The protocol
// sentinel for unknown commands never appears here; it surfaces as a
// NotFoundError instead. A nonzero ExitCode is data for the caller to judge,
// not an error.
type CommandResult struct {
	ExitCode   int
	InstanceID string
}

// Success reports whether the remote command exited cleanly.
func (r CommandResult) Success() bool { return r.ExitCode == 0 }

// Dispatch sends one command over an established connection and returns the
// remote exit status. One request per connection; the protocol is not safe
// for multiplexing.
func Dispatch(conn Runner, req CommandRequest) (CommandResult, error) {
	resp, err := conn.Run(ipc.RunRequest{EntryClass: req.EntryClass, Args: req.Args})
	if err != nil {
		return CommandResult{}, fmt.Errorf("dispatch %s: %w", req.EntryClass, err)
	}
	if resp.ExitCode == ipc.ExitNoSuchCommand {
		return CommandResult{}, &NotFoundError{EntryClass: req.EntryClass}
	}
	return CommandResult{ExitCode: resp.ExitCode, InstanceID: resp.InstanceID}, nil
}
