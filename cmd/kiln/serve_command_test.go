package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"kiln/internal/ipc"
)

func TestServeHostsDiagnosticServer(t *testing.T) {
	env := setupCLITestEnv(t, okCommands())
	env.cancel()
	env.server.Close()

	socket := filepath.Join(filepath.Dir(env.socketPath), "serve.sock")

	cmd := newRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--workspace", env.workspaceRoot, "--config", env.configPath, "serve", "--socket", socket})
	cmd.SetContext(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- cmd.Execute()
	}()

	client := dialWithRetry(t, socket, 2*time.Second)
	defer client.Close()

	resp, err := client.Run(ipc.RunRequest{EntryClass: "kiln.diag.Exit", Args: []string{"7"}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if resp.ExitCode != 7 {
		t.Fatalf("expected exit code 7, got %d", resp.ExitCode)
	}

	resp, err = client.Run(ipc.RunRequest{EntryClass: "no.such.Entry"})
	if err != nil {
		t.Fatalf("Run unknown: %v", err)
	}
	if resp.ExitCode != ipc.ExitNoSuchCommand {
		t.Fatalf("expected sentinel exit code, got %d", resp.ExitCode)
	}

	if _, err := client.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve exited with error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not exit after shutdown")
	}
}

func dialWithRetry(t *testing.T, socket string, budget time.Duration) *ipc.Client {
	t.Helper()
	deadline := time.Now().Add(budget)
	for {
		client, err := ipc.Dial(socket)
		if err == nil {
			return client
		}
		if time.Now().After(deadline) {
			t.Fatalf("dial %s: %v", socket, err)
		}
		time.Sleep(10 * time.Millisecond)
	}
}
