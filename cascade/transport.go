package cascade

import (
	"context"
	"encoding/json"

	"github.com/kbukum/cascade/httpclient"
	"github.com/kbukum/cascade/httpclient/rest"
	"github.com/kbukum/cascade/observability"
)

// Transport opens the connection scope used by one run.
type Transport interface {
	Open(ctx context.Context) (Session, error)
}

// Session calls peers. It is opened at the start of a run that needs peer
// I/O and closed when the run returns.
type Session interface {
	// Call sends payload to address and returns the peer's parsed result.
	// A nil result means the peer answered with nothing usable.
	Call(ctx context.Context, address string, method Method, payload any) (*Result, error)
	Close() error
}

// HTTPTransport calls peers with a JSON REST client.
type HTTPTransport struct {
	config httpclient.Config
}

// NewHTTPTransport creates a transport whose sessions use cfg.
func NewHTTPTransport(cfg httpclient.Config) *HTTPTransport {
	return &HTTPTransport{config: cfg}
}

// Open creates a client for one run.
func (t *HTTPTransport) Open(_ context.Context) (Session, error) {
	client, err := rest.New(t.config)
	if err != nil {
		return nil, err
	}
	return &httpSession{client: client}, nil
}

type httpSession struct {
	client *rest.Client
}

func (s *httpSession) Call(ctx context.Context, address string, method Method, payload any) (*Result, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, httpclient.NewValidationError("encode payload: " + err.Error())
	}
	headers := map[string]string{"Content-Type": "application/json"}
	observability.InjectHeaders(ctx, headers)

	resp, err := rest.Do[*Result](ctx, s.client, string(method), address, body, rest.WithHeaders(headers))
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (s *httpSession) Close() error {
	return s.client.Close()
}
