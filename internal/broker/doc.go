// Package broker supervises named command servers within a workspace: it
// probes their sockets, launches missing servers detached, waits for
// readiness on a bounded polling loop, and dispatches commands over
// established connections. Server liveness is inferred via probing; no
// process handles are retained.
package broker
