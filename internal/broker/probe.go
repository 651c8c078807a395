package broker

import "kiln/internal/ipc"

// Prober attempts a single connection to a server socket. No retry or
// backoff happens here; that is the Waiter's contract.
type Prober interface {
	Probe(addr string) (*ipc.Client, error)
}

// DialProber probes by dialing the socket with the protocol's dial timeout.
type DialProber struct{}

// Probe returns a connected client, or a ConnectError when no server is
// reachable at the address.
func (DialProber) Probe(addr string) (*ipc.Client, error) {
	client, err := ipc.Dial(addr)
	if err != nil {
		return nil, &ConnectError{Addr: addr, Err: err}
	}
	return client, nil
}
