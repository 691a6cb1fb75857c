package rpc

import (
	"context"
	"time"

	"github.com/openweb3/go-rpc-provider/interfaces"
	providers "github.com/openweb3/go-rpc-provider/provider_wrapper"
)

// DefaultOption is applied to clients created without an explicit option.
var DefaultOption = providers.Option{
	RequestTimeout: 10 * time.Second,
}

// Client is a middlewarable JSON-RPC client bound to a single node URL.
type Client struct {
	*providers.MiddlewarableProvider
	url string
}

// NewClient creates a new client instance. Connections are established lazily.
func NewClient(url string, option ...providers.Option) (*Client, error) {
	opt := DefaultOption
	if len(option) > 0 {
		opt = option[0]
	}

	provider, err := providers.NewProviderWithOption(url, opt)
	if err != nil {
		return nil, err
	}

	return &Client{providers.NewMiddlewarableProvider(provider), url}, nil
}

// URL returns the node URL the client is bound to.
func (c *Client) URL() string {
	return c.url
}

// CallContext is a generic method to call RPC with context.
func CallContext[T any](provider interfaces.Provider, ctx context.Context, method string, args ...any) (result T, err error) {
	err = provider.CallContext(ctx, &result, method, args...)
	return
}
