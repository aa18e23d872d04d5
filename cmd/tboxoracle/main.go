// tboxoracle serves an AES-128 encryption oracle over HTTP: the server
// side of HTTPTransport, for studying a key that genuinely lives outside
// the attacker's process.
package main

import (
	"flag"
	"io"
	"net/http"

	"github.com/golang/glog"

	fasthex "github.com/tmthrgd/go-hex"

	tbox "github.com/sidechannel-lab/tboxtiming"
)

var (
	listenAddr = flag.String("listen", "127.0.0.1:8080", "address to serve the encryption oracle on")
	keyFile    = flag.String("key", "target.key", "path to the 16-byte key file this oracle encrypts under")
)

func init() {
	flag.Parse()
}

type oracleHandler struct {
	oracle tbox.CipherOracle
}

func (h *oracleHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	decoded, err := fasthex.DecodeString(string(body))
	if err != nil || len(decoded) != 16 {
		http.Error(w, "body must be 32 hex characters", http.StatusBadRequest)
		return
	}

	var in tbox.Block
	copy(in[:], decoded)
	out := h.oracle.Encrypt(in)
	io.WriteString(w, fasthex.EncodeToString(out[:]))
}

func main() {
	defer glog.Flush()

	key, err := tbox.ReadTargetKeyFile(*keyFile)
	if err != nil {
		glog.Fatalf("read key file: %v", err)
	}

	oracle := tbox.NewAESOracle()
	if err := oracle.Expand(key); err != nil {
		glog.Fatalf("expand key: %v", err)
	}

	glog.Infof("serving encryption oracle on %s", *listenAddr)
	if err := http.ListenAndServe(*listenAddr, &oracleHandler{oracle: oracle}); err != nil {
		glog.Fatalf("serve: %v", err)
	}
}
