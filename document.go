package reqforge

import (
	"bytes"
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Document is the structured form of a value: an ordered object of field
// names to raw JSON values. It is produced by encoding/json and is the only
// view of a value the serialization functions rely on.
type Document = orderedmap.OrderedMap[string, json.RawMessage]

// emptyObject is the serialized form of a document with no fields.
const emptyObject = "{}"

// toDocument serializes v and decodes the result as an ordered object.
func toDocument(v any) (*Document, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, serializationError(err)
	}
	return decodeDocument(data)
}

func decodeDocument(data []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, serializationError(err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, NewError(CodeSerialization, "value must serialize to an object")
	}

	doc := orderedmap.New[string, json.RawMessage]()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, serializationError(err)
		}
		key, _ := tok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, serializationError(err)
		}
		doc.Set(key, raw)
	}
	return doc, nil
}

// fieldText renders one document value as a flat string.
// Strings are returned verbatim, numbers and booleans in their JSON form,
// arrays and objects as compact JSON text. Null reports false.
func fieldText(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", false
	}
	switch raw[0] {
	case 'n':
		return "", false
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return string(raw), true
		}
		return s, true
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return string(raw), true
		}
		return buf.String(), true
	default:
		return string(raw), true
	}
}

type omitted struct {
	v    any
	keys []string
}

// OmitKeys returns a value that marshals to the document of v without the
// given top-level keys, preserving the order of the remaining ones. Shapes
// use it so that path, query and header fields stay out of the body.
func OmitKeys(v any, keys ...string) json.Marshaler {
	return omitted{v: v, keys: keys}
}

func (o omitted) MarshalJSON() ([]byte, error) {
	doc, err := toDocument(o.v)
	if err != nil {
		return nil, err
	}
	for _, k := range o.keys {
		doc.Delete(k)
	}
	return doc.MarshalJSON()
}
