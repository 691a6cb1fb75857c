package rpc

import (
	"net/http"

	"github.com/ethereum/go-ethereum/node"
	"github.com/openweb3/go-rpc-provider"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Middleware wraps the raw JSON-RPC handler, before response compression and cors.
type Middleware func(next http.Handler) http.Handler

// NewHandler creates a http.Handler that serves the specified RPC apis, keyed by namespace.
// Middlewares are applied in order and observe uncompressed JSON-RPC payloads.
func NewHandler(apis map[string]interface{}, middlewares ...Middleware) (http.Handler, error) {
	server := rpc.NewServer()

	for namespace, impl := range apis {
		if err := server.RegisterName(namespace, impl); err != nil {
			return nil, errors.WithMessagef(err, "Failed to register rpc service %v", namespace)
		}
	}

	var handler http.Handler = server
	for _, m := range middlewares {
		handler = m(handler)
	}

	// enable cors and accept any virtual host
	return node.NewHTTPHandlerStack(handler, []string{"*"}, []string{"*"}, []byte{}), nil
}

// MustServe serves the handler on the specified endpoint until shutdown.
func MustServe(endpoint string, handler http.Handler) {
	server := http.Server{
		Addr:    endpoint,
		Handler: handler,
	}

	logrus.WithField("endpoint", endpoint).Info("RPC service started")

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logrus.WithError(err).WithField("endpoint", endpoint).Fatal("Failed to serve RPC")
	}
}
