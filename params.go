package reqforge

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Params is an insertion-ordered string map. It carries query parameters,
// flattened form fields and header sets. Params marshals to a JSON object
// with keys in insertion order.
type Params = orderedmap.OrderedMap[string, string]

// NewParams returns an empty Params.
func NewParams() *Params {
	return orderedmap.New[string, string]()
}

// ParamsFromPairs builds Params from alternating key and value arguments.
// A trailing key without a value is ignored.
func ParamsFromPairs(kv ...string) *Params {
	p := NewParams()
	for i := 0; i+1 < len(kv); i += 2 {
		p.Set(kv[i], kv[i+1])
	}
	return p
}

// AddParam stores the canonical text of v under name, unless v is absent.
// Generated code uses it to fill query parameters and header sets.
func AddParam(p *Params, name string, v any) {
	if s, ok := ParamValue(v); ok {
		p.Set(name, s)
	}
}

// NilIfEmpty maps an empty Params to nil, so "no parameters" is never an
// empty-but-present container.
func NilIfEmpty(p *Params) *Params {
	if p == nil || p.Len() == 0 {
		return nil
	}
	return p
}
