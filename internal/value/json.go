package value

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/buger/jsonparser"
)

var (
	// ErrNotObject indicates a document whose top level is not a JSON object.
	ErrNotObject = errors.New("value: top-level JSON value is not an object")
	// ErrInvalidJSON indicates input that is not a single well-formed JSON value.
	ErrInvalidJSON = errors.New("value: invalid JSON")
)

// Decode parses a JSON document into a tree, keeping record key order.
// The document is checked up front since the walk below accepts trailing
// bytes and malformed numbers.
func Decode(data []byte) (any, error) {
	if !json.Valid(data) {
		return nil, ErrInvalidJSON
	}
	raw, dt, _, err := jsonparser.Get(data)
	if err != nil {
		return nil, fmt.Errorf("value: decode: %w", err)
	}
	return decode(raw, dt)
}

// DecodeObject parses a JSON document that must be an object.
func DecodeObject(data []byte) (*Object, error) {
	v, err := Decode(data)
	if err != nil {
		return nil, err
	}
	o, ok := AsObject(v)
	if !ok {
		return nil, ErrNotObject
	}
	return o, nil
}

func decode(raw []byte, dt jsonparser.ValueType) (any, error) {
	switch dt {
	case jsonparser.Null:
		return nil, nil
	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(raw)
		if err != nil {
			return nil, err
		}
		return b, nil
	case jsonparser.Number:
		return json.Number(string(raw)), nil
	case jsonparser.String:
		s, err := jsonparser.ParseString(raw)
		if err == nil {
			return s, nil
		}
		// jsonparser rejects escapes such as lone surrogates that JSON
		// allows; encoding/json decodes them to U+FFFD.
		quoted := make([]byte, 0, len(raw)+2)
		quoted = append(append(append(quoted, '"'), raw...), '"')
		if jerr := json.Unmarshal(quoted, &s); jerr != nil {
			return nil, err
		}
		return s, nil
	case jsonparser.Array:
		out := []any{}
		var itemErr error
		_, err := jsonparser.ArrayEach(raw, func(item []byte, idt jsonparser.ValueType, _ int, err error) {
			if itemErr != nil {
				return
			}
			if err != nil {
				itemErr = err
				return
			}
			v, err := decode(item, idt)
			if err != nil {
				itemErr = err
				return
			}
			out = append(out, v)
		})
		if err != nil {
			return nil, fmt.Errorf("value: decode array: %w", err)
		}
		if itemErr != nil {
			return nil, itemErr
		}
		return out, nil
	case jsonparser.Object:
		obj := NewObject()
		err := jsonparser.ObjectEach(raw, func(key []byte, member []byte, mdt jsonparser.ValueType, _ int) error {
			v, err := decode(member, mdt)
			if err != nil {
				return err
			}
			obj.Set(string(key), v)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("value: decode object: %w", err)
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("value: unsupported JSON value %q", raw)
	}
}

// UnmarshalJSON implements json.Unmarshaler with order preservation.
func (o *Object) UnmarshalJSON(data []byte) error {
	decoded, err := DecodeObject(data)
	if err != nil {
		return err
	}
	*o = *decoded
	return nil
}

// MarshalJSON implements json.Marshaler, writing members in order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, o); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Marshal encodes a tree compactly.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalIndent encodes a tree with two-space indentation.
func MarshalIndent(v any) ([]byte, error) {
	compact, err := Marshal(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encode(buf *bytes.Buffer, v any) error {
	switch t := v.(type) {
	case nil:
		buf.WriteString("null")
	case *Object:
		if t == nil {
			buf.WriteString("null")
			return nil
		}
		buf.WriteByte('{')
		for i, k := range t.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			encodeString(buf, k)
			buf.WriteByte(':')
			if err := encode(buf, t.vals[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case []any:
		buf.WriteByte('[')
		for i, item := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encode(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case string:
		encodeString(buf, t)
	case bool:
		buf.WriteString(strconv.FormatBool(t))
	case json.Number:
		buf.WriteString(t.String())
	case int:
		buf.WriteString(strconv.Itoa(t))
	case int64:
		buf.WriteString(strconv.FormatInt(t, 10))
	case float64:
		if math.IsInf(t, 0) || math.IsNaN(t) {
			return fmt.Errorf("value: unsupported float %v", t)
		}
		buf.WriteString(strconv.FormatFloat(t, 'f', -1, 64))
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return err
		}
		buf.Write(b)
	}
	return nil
}

func encodeString(buf *bytes.Buffer, s string) {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	// Encoder terminates every value with a newline.
	buf.Truncate(buf.Len() - 1)
}
