// Package msgpack provides a MessagePack document codec.
package msgpack

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
	"github.com/zoobzio/satchel/document"
)

// ErrNotMap is returned when the top level MessagePack value is not a map.
var ErrNotMap = errors.New("top-level MessagePack value is not a map")

// msgpackCodec implements document.Codec for MessagePack.
type msgpackCodec struct{}

// New returns a MessagePack codec.
func New() document.Codec {
	return &msgpackCodec{}
}

// ContentType returns the MIME type for MessagePack.
func (c *msgpackCodec) ContentType() string {
	return "application/msgpack"
}

// Marshal encodes d as a MessagePack map written in document order.
func (c *msgpackCodec) Marshal(d *document.Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if err := encodeDocument(enc, d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a MessagePack map into a document.
func (c *msgpackCodec) Unmarshal(data []byte) (*document.Document, error) {
	r := bytes.NewReader(data)
	dec := msgpack.NewDecoder(r)
	code, err := dec.PeekCode()
	if err != nil {
		return nil, err
	}
	if !isMap(code) {
		return nil, ErrNotMap
	}
	d, err := decodeDocument(dec)
	if err != nil {
		return nil, err
	}
	if r.Len() > 0 {
		return nil, errors.New("unexpected data after top-level map")
	}
	return d, nil
}

func encodeDocument(enc *msgpack.Encoder, d *document.Document) error {
	if err := enc.EncodeMapLen(d.Len()); err != nil {
		return err
	}
	for _, f := range d.Fields() {
		if err := enc.EncodeString(f.Key); err != nil {
			return err
		}
		if err := encodeValue(enc, f.Value); err != nil {
			return fmt.Errorf("field %q: %w", f.Key, err)
		}
	}
	return nil
}

func encodeValue(enc *msgpack.Encoder, v any) error {
	v, err := document.Normalize(v)
	if err != nil {
		return err
	}
	switch x := v.(type) {
	case nil:
		return enc.EncodeNil()
	case bool:
		return enc.EncodeBool(x)
	case string:
		return enc.EncodeString(x)
	case int64:
		return enc.EncodeInt(x)
	case float64:
		return enc.EncodeFloat64(x)
	case []any:
		if err := enc.EncodeArrayLen(len(x)); err != nil {
			return err
		}
		for _, e := range x {
			if err := encodeValue(enc, e); err != nil {
				return err
			}
		}
		return nil
	case *document.Document:
		return encodeDocument(enc, x)
	}
	return fmt.Errorf("unsupported document value of type %T", v)
}

func isMap(code byte) bool {
	return msgpcode.IsFixedMap(code) || code == msgpcode.Map16 || code == msgpcode.Map32
}

func isArray(code byte) bool {
	return msgpcode.IsFixedArray(code) || code == msgpcode.Array16 || code == msgpcode.Array32
}

func decodeDocument(dec *msgpack.Decoder) (*document.Document, error) {
	n, err := dec.DecodeMapLen()
	if err != nil {
		return nil, err
	}
	d := document.New()
	for i := 0; i < n; i++ {
		key, err := dec.DecodeString()
		if err != nil {
			return nil, err
		}
		v, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		d.Set(key, v)
	}
	return d, nil
}

func decodeValue(dec *msgpack.Decoder) (any, error) {
	code, err := dec.PeekCode()
	if err != nil {
		return nil, err
	}
	switch {
	case isMap(code):
		return decodeDocument(dec)
	case isArray(code):
		n, err := dec.DecodeArrayLen()
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, nil
		}
		// n comes from the input; grow as elements actually arrive.
		out := []any{}
		for i := 0; i < n; i++ {
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	}
	v, err := dec.DecodeInterfaceLoose()
	if err != nil {
		return nil, err
	}
	if b, ok := v.([]byte); ok {
		return string(b), nil
	}
	return document.Normalize(v)
}
