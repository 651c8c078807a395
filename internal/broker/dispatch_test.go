package broker_test

import (
	"errors"
	"testing"

	"kiln/internal/broker"
	"kiln/internal/ipc"
)

type stubRunner struct {
	code int
	err  error
	last ipc.RunRequest
}

func (r *stubRunner) Run(req ipc.RunRequest) (*ipc.RunResponse, error) {
	r.last = req
	if r.err != nil {
		return nil, r.err
	}
	return &ipc.RunResponse{ExitCode: r.code, InstanceID: "inst-1"}, nil
}

func TestDispatchMapsSentinelToNotFound(t *testing.T) {
	runner := &stubRunner{code: ipc.ExitNoSuchCommand}
	_, err := broker.Dispatch(runner, broker.CommandRequest{EntryClass: "missing.Main"})
	var notFound *broker.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if notFound.EntryClass != "missing.Main" {
		t.Fatalf("unexpected entry class: %s", notFound.EntryClass)
	}
}

func TestDispatchPassesExitCodesThrough(t *testing.T) {
	for _, code := range []int{0, 1, 127} {
		runner := &stubRunner{code: code}
		result, err := broker.Dispatch(runner, broker.CommandRequest{
			EntryClass: "scala.tools.nsc.Main",
			Args:       []string{"-d", "out"},
		})
		if err != nil {
			t.Fatalf("Dispatch(code=%d): %v", code, err)
		}
		if result.ExitCode != code {
			t.Fatalf("exit code %d mangled to %d", code, result.ExitCode)
		}
		if result.Success() != (code == 0) {
			t.Fatalf("Success() wrong for code %d", code)
		}
		if runner.last.Args[0] != "-d" {
			t.Fatalf("args not forwarded: %#v", runner.last.Args)
		}
	}
}

func TestDispatchWrapsTransportErrors(t *testing.T) {
	cause := errors.New("broken pipe")
	runner := &stubRunner{err: cause}
	_, err := broker.Dispatch(runner, broker.CommandRequest{EntryClass: "X"})
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped transport error, got %v", err)
	}
}
