// Package ipc defines the wire protocol between kiln and a command server:
// JSON-RPC over a unix domain socket. The JVM compile servers kiln launches
// implement the same protocol; the Server type here is the pure-Go
// implementation backing `kiln serve` and the protocol tests.
package ipc
