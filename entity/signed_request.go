package entity

// SignedRequest is one authenticated outbound call, discarded once the response is read.
type SignedRequest struct {
	Uri    string
	Method string
	// Fields is the V2 body, including the sign field
	Fields Fields
	// Body is the exact V3 JSON that was signed
	Body          []byte
	Signature     string
	Authorization string
}
