package sockpath

import (
	"fmt"
	"path/filepath"
	"strings"
)

// WorkspaceDirName is the hidden directory kiln maintains under a workspace root.
const WorkspaceDirName = ".kiln"

// sockDirName holds one socket and one launch lock per service.
const sockDirName = "sock"

// Resolve derives the unix socket path backing a named service within a
// workspace. It is a pure function: the same (root, service) pair always maps
// to the same path, and distinct services never collide.
func Resolve(workspaceRoot, service string) string {
	return filepath.Join(workspaceRoot, WorkspaceDirName, sockDirName, service+".sock")
}

// LockPath derives the launch lock file guarding a service's socket. The lock
// lives next to the socket so both share the workspace lifetime.
func LockPath(workspaceRoot, service string) string {
	return filepath.Join(workspaceRoot, WorkspaceDirName, sockDirName, service+".lock")
}

// ValidateService rejects service names that would break the path mapping.
func ValidateService(service string) error {
	if strings.TrimSpace(service) == "" {
		return fmt.Errorf("service name is empty")
	}
	if strings.ContainsAny(service, "/\\\x00") {
		return fmt.Errorf("service name %q contains path separators", service)
	}
	if service == "." || service == ".." || strings.Contains(service, "..") {
		return fmt.Errorf("service name %q is not a valid path component", service)
	}
	return nil
}
