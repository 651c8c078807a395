package preflight

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/sys/unix"

	"kiln/internal/config"
)

// Result reports the outcome of one preflight check.
type Result struct {
	Name    string
	Command string
	Passed  bool
	Detail  string
}

// CheckToolchain verifies the external binaries kiln depends on.
func CheckToolchain(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}
	return []Result{
		checkBinary("Java", cfg.Toolchain.JavaBinary, "runs compile servers"),
		checkBinary("Coursier", cfg.Toolchain.CoursierBinary, "resolves dependency coordinates"),
	}
}

func checkBinary(name, command, purpose string) Result {
	cmd := strings.TrimSpace(command)
	result := Result{Name: name, Command: cmd}
	if cmd == "" {
		result.Detail = "command not configured"
		return result
	}
	path, err := exec.LookPath(cmd)
	if err != nil {
		result.Detail = fmt.Sprintf("binary %q not found (%s)", cmd, purpose)
		return result
	}
	result.Passed = true
	result.Detail = path
	return result
}

// CheckDirectoryAccess verifies that the directory exists and is
// readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// MissingRequired lists names of failed checks, for terse error output.
func MissingRequired(results []Result) []string {
	var missing []string
	for _, result := range results {
		if !result.Passed {
			missing = append(missing, result.Name)
		}
	}
	return missing
}
