// Package sockpath maps service names to the unix socket and lock paths that
// back them inside a workspace. The mapping is deterministic so every kiln
// invocation against the same workspace converges on the same endpoints.
package sockpath
