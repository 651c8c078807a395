package main

import "fmt"

// exitError carries a remote command's exit status to the process boundary,
// where main mirrors it as the kiln exit code.
type exitError struct {
	op   string
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("%s failed with exit code %d", e.op, e.code)
}
