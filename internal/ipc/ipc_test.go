package ipc_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"kiln/internal/ipc"
	"kiln/internal/logging"
)

func startServer(t *testing.T, commands map[string]ipc.CommandFunc) (string, *ipc.Server) {
	t.Helper()
	socket := filepath.Join(t.TempDir(), "kiln.sock")
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	srv, err := ipc.NewServer(ctx, socket, commands, logging.NewNop())
	if err != nil {
		if strings.Contains(err.Error(), "operation not permitted") {
			t.Skipf("skipping IPC test: %v", err)
		}
		t.Fatalf("ipc.NewServer: %v", err)
	}
	srv.Serve()
	t.Cleanup(srv.Close)
	return socket, srv
}

func TestRunRoundTrip(t *testing.T) {
	var gotArgs []string
	socket, _ := startServer(t, map[string]ipc.CommandFunc{
		"scala.tools.nsc.Main": func(_ context.Context, args []string) int {
			gotArgs = append([]string(nil), args...)
			return 0
		},
	})

	client, err := ipc.Dial(socket)
	if err != nil {
		t.Fatalf("ipc.Dial: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	resp, err := client.Run(ipc.RunRequest{
		EntryClass: "scala.tools.nsc.Main",
		Args:       []string{"-d", "out", "A.scala"},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if resp.ExitCode != 0 {
		t.Fatalf("expected exit 0, got %d", resp.ExitCode)
	}
	if resp.InstanceID == "" {
		t.Fatal("expected instance id on run response")
	}
	if len(gotArgs) != 3 || gotArgs[0] != "-d" || gotArgs[2] != "A.scala" {
		t.Fatalf("unexpected args: %#v", gotArgs)
	}
}

func TestRunUnknownEntryReturnsSentinel(t *testing.T) {
	socket, _ := startServer(t, nil)

	client, err := ipc.Dial(socket)
	if err != nil {
		t.Fatalf("ipc.Dial: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	resp, err := client.Run(ipc.RunRequest{EntryClass: "does.not.Exist"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if resp.ExitCode != ipc.ExitNoSuchCommand {
		t.Fatalf("expected sentinel %d, got %d", ipc.ExitNoSuchCommand, resp.ExitCode)
	}
}

func TestPingReportsStableInstanceID(t *testing.T) {
	socket, _ := startServer(t, nil)

	first, err := ipc.Dial(socket)
	if err != nil {
		t.Fatalf("ipc.Dial: %v", err)
	}
	t.Cleanup(func() { first.Close() })
	second, err := ipc.Dial(socket)
	if err != nil {
		t.Fatalf("ipc.Dial second: %v", err)
	}
	t.Cleanup(func() { second.Close() })

	pingA, err := first.Ping()
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	pingB, err := second.Ping()
	if err != nil {
		t.Fatalf("Ping second: %v", err)
	}
	if pingA.InstanceID == "" || pingA.InstanceID != pingB.InstanceID {
		t.Fatalf("instance ids diverge: %q vs %q", pingA.InstanceID, pingB.InstanceID)
	}
	if pingA.PID <= 0 {
		t.Fatalf("expected positive pid, got %d", pingA.PID)
	}
}

func TestShutdownClosesServer(t *testing.T) {
	socket, srv := startServer(t, nil)

	client, err := ipc.Dial(socket)
	if err != nil {
		t.Fatalf("ipc.Dial: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	resp, err := client.Shutdown()
	if err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if !resp.Stopping {
		t.Fatal("expected stopping acknowledgement")
	}

	select {
	case <-srv.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("server did not report shutdown")
	}
}
