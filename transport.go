// Oracle transports generalize the original program's single in-process
// encryption call into a capability that can also be reached over the
// network, adapting the URI-dispatched Triggerer design this codebase's
// lineage uses for invoking victim behaviour: a scheme (local://, http://)
// picks the concrete implementation, and every caller talks to the
// OracleTransport interface instead of branching on scheme itself.
package tboxtiming

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"

	fasthex "github.com/tmthrgd/go-hex"
)

// OracleTransport reaches a victim's encryption oracle, local or remote,
// under whatever key it currently has expanded.
type OracleTransport interface {
	// Encrypt asks the victim to encrypt in and returns the resulting
	// ciphertext.
	Encrypt(in Block) (Block, error)
}

// NewTransportFromURI resolves uri to an OracleTransport. Returns an error
// if no transport is known for the given scheme.
func NewTransportFromURI(uri string, local CipherOracle) (OracleTransport, error) {
	if uri == "" || uri == "local://" {
		return &LocalTransport{oracle: local}, nil
	}
	parsed, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("%w: parse transport URI %q: %v", ErrConfiguration, uri, err)
	}
	switch parsed.Scheme {
	case "", "local":
		return &LocalTransport{oracle: local}, nil
	case "http", "https":
		return NewHTTPTransport(uri), nil
	default:
		return nil, fmt.Errorf("%w: unsupported transport scheme %q", ErrConfiguration, parsed.Scheme)
	}
}

// LocalTransport drives an in-process CipherOracle directly. This is the
// default transport and matches the original program's sole mode of
// operation.
type LocalTransport struct {
	oracle CipherOracle
}

// Encrypt implements OracleTransport.
func (l *LocalTransport) Encrypt(in Block) (Block, error) {
	return l.oracle.Encrypt(in), nil
}

// HTTPTransport reaches a victim's encryption oracle over HTTP: it POSTs a
// 32-hex-character plaintext to url and expects a 32-hex-character
// ciphertext body back. cmd/tboxoracle is the server side of this
// protocol. The timed window then covers the full request/response round
// trip rather than a single function call — noisier, but a legitimate
// instance of the same T-box leakage model when the victim process isn't
// in the attacker's address space.
type HTTPTransport struct {
	url    string
	client *http.Client
}

// NewHTTPTransport constructs an HTTPTransport targeting url.
func NewHTTPTransport(url string) *HTTPTransport {
	return &HTTPTransport{url: url, client: http.DefaultClient}
}

// Encrypt implements OracleTransport.
func (h *HTTPTransport) Encrypt(in Block) (Block, error) {
	body := bytes.NewReader([]byte(fasthex.EncodeToString(in[:])))
	resp, err := h.client.Post(h.url, "text/plain", body)
	if err != nil {
		return Block{}, fmt.Errorf("%w: oracle HTTP request: %v", ErrIO, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Block{}, fmt.Errorf("%w: read oracle HTTP response: %v", ErrIO, err)
	}
	if resp.StatusCode != http.StatusOK {
		return Block{}, fmt.Errorf("%w: oracle HTTP status %d: %s", ErrIO, resp.StatusCode, respBody)
	}

	decoded, err := fasthex.DecodeString(string(bytes.TrimSpace(respBody)))
	if err != nil {
		return Block{}, fmt.Errorf("%w: decode oracle HTTP response: %v", ErrIO, err)
	}
	if len(decoded) != 16 {
		return Block{}, fmt.Errorf("%w: oracle HTTP response had %d bytes, want 16", ErrIO, len(decoded))
	}
	var out Block
	copy(out[:], decoded)
	return out, nil
}
