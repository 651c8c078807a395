package main

import (
	"testing"

	"kiln/internal/config"
)

func TestServerStatusReportsRunningInstance(t *testing.T) {
	defaults := config.Default()
	env := setupCLITestEnv(t, okCommands(defaults.Toolchain.CompileEntryClass))

	out, _, err := runCLI(t, env, []string{"server", "status"})
	if err != nil {
		t.Fatalf("server status: %v", err)
	}
	requireContains(t, out, "Toolchain")
	requireContains(t, out, "Server")
	requireContains(t, out, "running (pid ")
	requireContains(t, out, "instance ")
}

func TestServerStopSendsShutdown(t *testing.T) {
	env := setupCLITestEnv(t, okCommands())

	out, _, err := runCLI(t, env, []string{"server", "stop"})
	if err != nil {
		t.Fatalf("server stop: %v", err)
	}
	requireContains(t, out, "Server stopping")

	select {
	case <-env.server.Done():
	default:
		t.Fatal("expected server to observe the shutdown request")
	}
}

func TestServerStatusNotRunning(t *testing.T) {
	env := setupCLITestEnv(t, okCommands())
	env.cancel()
	env.server.Close()

	out, _, err := runCLI(t, env, []string{"server", "status"})
	if err != nil {
		t.Fatalf("server status: %v", err)
	}
	requireContains(t, out, "not running")

	out, _, err = runCLI(t, env, []string{"server", "stop"})
	if err != nil {
		t.Fatalf("server stop: %v", err)
	}
	requireContains(t, out, "Server is not running")
}
