package node

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/lendscope/loan-preview-client/common/rpc"
	providers "github.com/openweb3/go-rpc-provider/provider_wrapper"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type ClientOption struct {
	Provider   providers.Option // used for single calls only
	HTTPClient *http.Client     // used for batch calls, http.DefaultClient if nil
}

// Client talks to a blockchain node over JSON-RPC.
//
// Batches are posted as raw JSON arrays so that callers keep full control of the
// request ids and can validate the response shape themselves. Single calls go
// through the rpc provider.
type Client struct {
	url        string
	httpClient *http.Client
	provider   *rpc.Client
}

func MustNewClient(url string, option ...ClientOption) *Client {
	client, err := NewClient(url, option...)
	if err != nil {
		logrus.WithError(err).WithField("url", url).Fatal("Failed to connect to blockchain node")
	}

	return client
}

func NewClient(url string, option ...ClientOption) (*Client, error) {
	var opt ClientOption
	if len(option) > 0 {
		opt = option[0]
	}

	provider, err := rpc.NewClient(url, opt.Provider)
	if err != nil {
		return nil, err
	}

	httpClient := opt.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	client := &Client{
		url:        url,
		httpClient: httpClient,
		provider:   provider,
	}

	provider.HookCallContext(client.wrapErrorMiddleware)

	return client, nil
}

func (c *Client) URL() string {
	return c.url
}

func (c *Client) Close() {
	c.provider.Close()
}

func (c *Client) wrapErrorMiddleware(handler providers.CallContextFunc) providers.CallContextFunc {
	return func(ctx context.Context, result interface{}, method string, args ...interface{}) error {
		if err := handler(ctx, result, method, args...); err != nil {
			return &RPCError{Message: err.Error(), Method: method, URL: c.url}
		}

		return nil
	}
}

// ChainId returns the chain id reported by the node.
func (c *Client) ChainId(ctx context.Context) (uint64, error) {
	id, err := rpc.CallContext[hexutil.Uint64](c.provider, ctx, MethodChainId)
	return uint64(id), err
}

// BlockNumber returns the latest block number reported by the node.
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	bn, err := rpc.CallContext[hexutil.Uint64](c.provider, ctx, MethodBlockNumber)
	return uint64(bn), err
}

// BatchCall posts all requests as a single JSON-RPC batch and returns the raw
// response body. The body is not interpreted, so an empty body or a non-array
// body is returned as is.
func (c *Client) BatchCall(ctx context.Context, requests []*Request) ([]byte, error) {
	method := batchMethod(requests)

	body, err := json.Marshal(requests)
	if err != nil {
		return nil, errors.WithMessage(err, "Failed to marshal batch request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.WithMessage(err, "Failed to create http request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RPCError{Message: err.Error(), Method: method, URL: c.url}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RPCError{Message: err.Error(), Method: method, URL: c.url, Status: resp.StatusCode}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &RPCError{Message: string(respBody), Method: method, URL: c.url, Status: resp.StatusCode}
	}

	return respBody, nil
}

func batchMethod(requests []*Request) string {
	if len(requests) == 0 {
		return "batch"
	}

	return requests[0].Method
}
