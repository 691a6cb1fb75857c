package node

import "fmt"

type RPCError struct {
	Message string
	Method  string
	URL     string
	Status  int // HTTP status code, zero if no response received
}

func (e *RPCError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("Node: %s, Method: %s, Status: %d, Message: %s", e.URL, e.Method, e.Status, e.Message)
	}

	return fmt.Sprintf("Node: %s, Method: %s, Message: %s", e.URL, e.Method, e.Message)
}
