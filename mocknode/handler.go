package mocknode

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/lendscope/loan-preview-client/common/rpc"
	"github.com/lendscope/loan-preview-client/common/util"
)

// NewHandler creates the http handler of a synthetic node.
func NewHandler(config Config) (http.Handler, error) {
	api, err := NewEthAPI(config)
	if err != nil {
		return nil, err
	}

	var middlewares []rpc.Middleware
	if config.Shuffle {
		middlewares = append(middlewares, newShuffleHandler)
	}

	return rpc.NewHandler(map[string]interface{}{
		Namespace: api,
	}, middlewares...)
}

// shuffleHandler randomly reorders the items of batch responses, which is allowed
// by JSON-RPC and must be tolerated by clients.
type shuffleHandler struct {
	next http.Handler
}

func newShuffleHandler(next http.Handler) http.Handler {
	return &shuffleHandler{next}
}

func (h *shuffleHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	recorder := bufferedResponse{header: make(http.Header), status: http.StatusOK}
	h.next.ServeHTTP(&recorder, r)

	body := recorder.body.Bytes()
	if shuffled, ok := shuffleArray(body); ok {
		body = shuffled
	}

	for k, v := range recorder.header {
		w.Header()[k] = v
	}
	w.Header().Del("Content-Length")
	w.WriteHeader(recorder.status)
	w.Write(body)
}

func shuffleArray(body []byte) ([]byte, bool) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, false
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, false
	}

	util.Shuffle(items)

	shuffled, err := json.Marshal(items)
	if err != nil {
		return nil, false
	}

	return shuffled, true
}

type bufferedResponse struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func (r *bufferedResponse) Header() http.Header {
	return r.header
}

func (r *bufferedResponse) Write(data []byte) (int, error) {
	return r.body.Write(data)
}

func (r *bufferedResponse) WriteHeader(status int) {
	r.status = status
}
