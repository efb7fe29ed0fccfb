package reqforge

// Request is the assembly protocol every request shape satisfies.
//
// Only Method and Endpoint are required. The optional interfaces below
// override the defaults: no headers, no query parameters, a JSON body made
// of the request value itself, and no multipart form.
//
// Implementations are produced by `reqforge gen` or by Shape.Bind; they can
// also be written by hand:
//
//	type Ping struct{}
//
//	func (Ping) Method() reqforge.Method { return reqforge.MethodGet }
//	func (Ping) Endpoint() string        { return "/ping" }
type Request interface {
	Method() Method
	// Endpoint returns the path with placeholders already substituted.
	Endpoint() string
}

// HeaderSource provides auxiliary headers. The returned value must
// serialize to a JSON object of strings; *Params does. A nil value means
// no headers.
type HeaderSource interface {
	Headers() any
}

// QuerySource provides query parameters. A nil result means no query
// parameters.
type QuerySource interface {
	QueryParams() *Params
}

// BodyKinder selects the body encoding. Without it, the body is JSON.
type BodyKinder interface {
	BodyKind() BodyKind
}

// PayloadSource provides the value encoded as a JSON or form body.
// Without it, the request value itself is used.
type PayloadSource interface {
	Payload() any
}

// MultipartSource provides the form sent for BodyMultipart requests.
// It is consulted only when the body kind is BodyMultipart.
type MultipartSource interface {
	MultipartForm() *MultipartForm
}

func headersOf(r Request) any {
	if hs, ok := r.(HeaderSource); ok {
		return hs.Headers()
	}
	return nil
}

func queryOf(r Request) *Params {
	if qs, ok := r.(QuerySource); ok {
		return qs.QueryParams()
	}
	return nil
}

func bodyKindOf(r Request) BodyKind {
	if bk, ok := r.(BodyKinder); ok {
		if k := bk.BodyKind(); k != "" {
			return k
		}
	}
	return BodyJSON
}

func payloadOf(r Request) any {
	if ps, ok := r.(PayloadSource); ok {
		return ps.Payload()
	}
	return r
}

func multipartOf(r Request) *MultipartForm {
	if ms, ok := r.(MultipartSource); ok {
		return ms.MultipartForm()
	}
	return nil
}
