// Package nbt provides a Minecraft NBT document codec.
//
// Documents are written as a root compound tag using the little endian
// encoding Bedrock uses on disk. NBT compounds are unordered, so decoded
// documents list their keys sorted by name.
package nbt

import (
	"errors"
	"fmt"
	"sort"

	"github.com/sandertv/gophertunnel/minecraft/nbt"
	"github.com/zoobzio/satchel/document"
)

// ErrNilValue is returned when a document holds a null value, which NBT
// cannot represent.
var ErrNilValue = errors.New("nbt has no null tag")

// nbtCodec implements document.Codec for NBT.
type nbtCodec struct {
	encoding    nbt.Encoding
	contentType string
}

// New returns an NBT codec using the little endian encoding.
func New() document.Codec {
	return &nbtCodec{encoding: nbt.LittleEndian, contentType: "application/x-minecraft-nbt"}
}

// NewNetwork returns an NBT codec using the varint encoding of the network
// protocol.
func NewNetwork() document.Codec {
	return &nbtCodec{encoding: nbt.NetworkLittleEndian, contentType: "application/x-minecraft-nbt+network"}
}

// ContentType returns the MIME type for NBT.
func (c *nbtCodec) ContentType() string {
	return c.contentType
}

// Marshal encodes d as a compound tag.
func (c *nbtCodec) Marshal(d *document.Document) ([]byte, error) {
	m, err := toCompound(d)
	if err != nil {
		return nil, err
	}
	return nbt.MarshalEncoding(m, c.encoding)
}

// Unmarshal decodes a compound tag.
func (c *nbtCodec) Unmarshal(data []byte) (*document.Document, error) {
	var m map[string]any
	if err := nbt.UnmarshalEncoding(data, &m, c.encoding); err != nil {
		return nil, err
	}
	return fromCompound(m)
}

func toCompound(d *document.Document) (map[string]any, error) {
	m := make(map[string]any, d.Len())
	for _, f := range d.Fields() {
		v, err := toTag(f.Value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Key, err)
		}
		m[f.Key] = v
	}
	return m, nil
}

func toTag(v any) (any, error) {
	v, err := document.Normalize(v)
	if err != nil {
		return nil, err
	}
	switch x := v.(type) {
	case nil:
		return nil, ErrNilValue
	case bool:
		if x {
			return uint8(1), nil
		}
		return uint8(0), nil
	case []any:
		out := make([]any, 0, len(x))
		for _, e := range x {
			t, err := toTag(e)
			if err != nil {
				return nil, err
			}
			out = append(out, t)
		}
		return out, nil
	case *document.Document:
		return toCompound(x)
	}
	return v, nil
}

func fromCompound(m map[string]any) (*document.Document, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	d := document.New()
	for _, k := range keys {
		v, err := fromTag(m[k])
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		d.Set(k, v)
	}
	return d, nil
}

func fromTag(v any) (any, error) {
	switch x := v.(type) {
	case map[string]any:
		return fromCompound(x)
	case []any:
		out := make([]any, 0, len(x))
		for _, e := range x {
			t, err := fromTag(e)
			if err != nil {
				return nil, err
			}
			out = append(out, t)
		}
		return out, nil
	}
	return document.Normalize(v)
}
