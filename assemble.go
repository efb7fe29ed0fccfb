package reqforge

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"reflect"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// AssembledRequest is an inert HTTP request descriptor. It is produced by a
// single assembly call and handed to an HTTP client as a whole; see
// NewHTTPRequest.
type AssembledRequest struct {
	Method Method
	// URL is the base URL joined with the substituted endpoint, without
	// the query string.
	URL string
	// Query is nil when the request has no query parameters.
	Query *Params
	// Headers is nil when the request has no headers.
	Headers *Params
	// Body is nil when no body is sent.
	Body *Body
}

// Body is the encoded body of an AssembledRequest. Exactly one of
// Document, Form and Multipart is set, according to Kind.
type Body struct {
	Kind      BodyKind
	Document  json.RawMessage
	Form      *Params
	Multipart *MultipartForm
}

// Builder turns requests into AssembledRequests against one base URL.
// A Builder is safe for concurrent use once configured.
type Builder struct {
	baseURL  string
	logger   *slog.Logger
	validate bool
}

// NewBuilder creates a Builder for an absolute base URL.
func NewBuilder(baseURL string) (*Builder, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, Errorf(CodeInvalidRequest, "invalid base URL %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, Errorf(CodeInvalidRequest, "base URL %q must be absolute", baseURL)
	}
	return &Builder{baseURL: u.String()}, nil
}

// WithLogger sets the logger used to report pieces dropped by Build.
// If not set, slog.Default() will be used.
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// WithValidation makes TryBuild check `validate` struct tags on the request
// value before assembling it.
func (b *Builder) WithValidation(enabled bool) *Builder {
	b.validate = enabled
	return b
}

// BaseURL returns the base URL requests are assembled against.
func (b *Builder) BaseURL() string {
	return b.baseURL
}

func (b *Builder) log() *slog.Logger {
	if b.logger == nil {
		return slog.Default()
	}
	return b.logger
}

// Build assembles r on the best-effort path. It never fails: a body that
// cannot be serialized is left out, a form that cannot be flattened is sent
// empty and headers failing validation are dropped. Nothing tells the
// caller what was dropped; use TryBuild to find out.
func (b *Builder) Build(r Request) *AssembledRequest {
	out, _ := b.assemble(r, func(err error) error {
		b.log().Debug("request piece dropped",
			slog.String("method", string(r.Method())),
			slog.Any("error", err))
		return nil
	})
	return out
}

// TryBuild assembles r on the validating path. The first failing step
// aborts assembly and its error is returned; no partial request is
// returned with an error.
func (b *Builder) TryBuild(r Request) (*AssembledRequest, error) {
	if b.validate {
		if err := validateValue(r); err != nil {
			return nil, err
		}
	}
	return b.assemble(r, propagate)
}

// Build assembles r against baseURL on the best-effort path.
func Build(baseURL string, r Request) *AssembledRequest {
	return (&Builder{baseURL: baseURL}).Build(r)
}

// TryBuild assembles r against baseURL on the validating path.
func TryBuild(baseURL string, r Request) (*AssembledRequest, error) {
	b, err := NewBuilder(baseURL)
	if err != nil {
		return nil, err
	}
	return b.TryBuild(r)
}

// assemble is the single assembly routine. Steps run in a fixed order:
// method, endpoint, query, body, headers.
func (b *Builder) assemble(r Request, handle onError) (*AssembledRequest, error) {
	out := &AssembledRequest{
		Method: r.Method(),
		URL:    JoinURL(b.baseURL, r.Endpoint()),
		Query:  NilIfEmpty(queryOf(r)),
	}

	body, err := assembleBody(r, handle)
	if err != nil {
		return nil, err
	}
	out.Body = body

	if h := headersOf(r); !isNil(h) {
		headers, err := buildHeaders(h, handle)
		if err != nil {
			return nil, err
		}
		out.Headers = NilIfEmpty(headers)
	}
	return out, nil
}

func assembleBody(r Request, handle onError) (*Body, error) {
	switch kind := bodyKindOf(r); kind {
	case BodyJSON:
		data, err := json.Marshal(payloadOf(r))
		if err != nil {
			return nil, handle(serializationError(err))
		}
		if string(data) == emptyObject {
			return nil, nil
		}
		return &Body{Kind: BodyJSON, Document: data}, nil
	case BodyForm:
		form, err := flattenForm(payloadOf(r), handle)
		if err != nil {
			return nil, err
		}
		return &Body{Kind: BodyForm, Form: form}, nil
	case BodyMultipart:
		if form := multipartOf(r); form != nil {
			return &Body{Kind: BodyMultipart, Multipart: form}, nil
		}
		return nil, nil
	case BodyNone:
		return nil, nil
	default:
		return nil, handle(Errorf(CodeInvalidRequest, "unsupported body kind %q", kind))
	}
}

// valueSource is implemented by requests wrapping another value, such as
// those returned by Shape.Bind.
type valueSource interface {
	value() any
}

func validateValue(r Request) error {
	var target any = r
	if vs, ok := r.(valueSource); ok {
		target = vs.value()
	}
	err := validate.Struct(target)
	var invalid *validator.InvalidValidationError
	if err == nil || errors.As(err, &invalid) {
		return nil
	}
	return fromValidation(err)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

func (r *AssembledRequest) String() string {
	return fmt.Sprintf("%s %s", r.Method, r.fullURL())
}
