package broker

import (
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"kiln/internal/logging"
)

// LaunchSpec describes how to start a command server process. Immutable once
// constructed.
type LaunchSpec struct {
	BootClasspath string
	Classpath     string
	EntryClass    string
	Args          []string
}

// Launcher starts a detached server process bound to a socket address.
type Launcher interface {
	Launch(addr string, spec LaunchSpec, workDir string) error
}

// CommandLauncher launches JVM command servers. The child binds the socket
// itself; the launcher never waits for it and does not own its lifetime.
type CommandLauncher struct {
	JavaBinary string
	Logger     *slog.Logger
}

// Launch composes the server command line and starts the process detached.
// Argument order: optional boot classpath flag, optional classpath flag, the
// entry class, the socket address, then any trailing args.
func (l CommandLauncher) Launch(addr string, spec LaunchSpec, workDir string) error {
	binary := strings.TrimSpace(l.JavaBinary)
	if binary == "" {
		return &SpawnError{Binary: "java", Err: fmt.Errorf("java binary not configured")}
	}
	if strings.TrimSpace(spec.EntryClass) == "" {
		return &SpawnError{Binary: binary, Err: fmt.Errorf("entry class is empty")}
	}

	args := make([]string, 0, len(spec.Args)+4)
	if spec.BootClasspath != "" {
		args = append(args, "-Xbootclasspath/a:"+spec.BootClasspath)
	}
	if spec.Classpath != "" {
		args = append(args, "-cp", spec.Classpath)
	}
	args = append(args, spec.EntryClass, addr)
	args = append(args, spec.Args...)

	proc := exec.Command(binary, args...)
	if workDir != "" {
		proc.Dir = workDir
	}
	if err := proc.Start(); err != nil {
		return &SpawnError{Binary: binary, Err: err}
	}
	if l.Logger != nil {
		l.Logger.Info("server launched",
			logging.String(logging.FieldEventType, "server_launched"),
			logging.String(logging.FieldSocket, addr),
			logging.String(logging.FieldEntryClass, spec.EntryClass),
			logging.Int("pid", proc.Process.Pid))
	}
	return proc.Process.Release()
}
