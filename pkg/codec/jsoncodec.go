// pkg/codec/jsoncodec.go
package codec

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
)

type Codec interface {
	Marshal(v any) ([]byte, error)
	ContentType() string
}

type jsonCodec struct{ indent bool }

var (
	JSON       Codec = jsonCodec{}
	JSONIndent Codec = jsonCodec{indent: true}
)

func (c jsonCodec) Marshal(v any) ([]byte, error) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if c.indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func (jsonCodec) ContentType() string { return "application/json" }

// Respond writes v with status. Encoding failures become a 500.
func Respond(w http.ResponseWriter, c Codec, status int, v any) {
	b, err := c.Marshal(v)
	if err != nil {
		http.Error(w, "encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", c.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(len(b)))
	w.WriteHeader(status)
	_, _ = w.Write(b)
}
