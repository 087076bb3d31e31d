package manifest

// HandlerKind enumerates the responder strategies a manifest entry can use.
type HandlerKind string

const (
	HandlerString HandlerKind = "string"
	HandlerBuffer HandlerKind = "buffer"
	HandlerFile   HandlerKind = "file"
	HandlerHTTP   HandlerKind = "http"
	HandlerStream HandlerKind = "stream"
)

func (k HandlerKind) valid() bool {
	switch k {
	case HandlerString, HandlerBuffer, HandlerFile, HandlerHTTP, HandlerStream:
		return true
	}
	return false
}
