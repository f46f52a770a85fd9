// Package bson provides a BSON document codec.
package bson

import (
	"fmt"

	"github.com/zoobzio/satchel/document"
	"go.mongodb.org/mongo-driver/bson"
)

// bsonCodec implements document.Codec for BSON.
type bsonCodec struct{}

// New returns a BSON codec.
func New() document.Codec {
	return &bsonCodec{}
}

// ContentType returns the MIME type for BSON.
func (c *bsonCodec) ContentType() string {
	return "application/bson"
}

// Marshal encodes d as a BSON document in document order.
func (c *bsonCodec) Marshal(d *document.Document) ([]byte, error) {
	doc, err := toD(d)
	if err != nil {
		return nil, err
	}
	return bson.Marshal(doc)
}

// Unmarshal decodes a BSON document.
func (c *bsonCodec) Unmarshal(data []byte) (*document.Document, error) {
	var doc bson.D
	if err := bson.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return fromD(doc)
}

func toD(d *document.Document) (bson.D, error) {
	out := make(bson.D, 0, d.Len())
	for _, f := range d.Fields() {
		v, err := toBSON(f.Value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Key, err)
		}
		out = append(out, bson.E{Key: f.Key, Value: v})
	}
	return out, nil
}

func toBSON(v any) (any, error) {
	v, err := document.Normalize(v)
	if err != nil {
		return nil, err
	}
	switch x := v.(type) {
	case []any:
		out := make(bson.A, 0, len(x))
		for _, e := range x {
			bv, err := toBSON(e)
			if err != nil {
				return nil, err
			}
			out = append(out, bv)
		}
		return out, nil
	case *document.Document:
		return toD(x)
	}
	return v, nil
}

func fromD(doc bson.D) (*document.Document, error) {
	d := document.New()
	for _, e := range doc {
		v, err := fromBSON(e.Value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", e.Key, err)
		}
		d.Set(e.Key, v)
	}
	return d, nil
}

func fromBSON(v any) (any, error) {
	switch x := v.(type) {
	case bson.D:
		return fromD(x)
	case bson.M:
		d := document.New()
		for k, e := range x {
			ev, err := fromBSON(e)
			if err != nil {
				return nil, err
			}
			d.Set(k, ev)
		}
		return d, nil
	case bson.A:
		return fromSlice(x)
	case []any:
		return fromSlice(x)
	}
	return document.Normalize(v)
}

func fromSlice(in []any) ([]any, error) {
	out := make([]any, 0, len(in))
	for _, e := range in {
		v, err := fromBSON(e)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
