package document

import (
	"fmt"
	"math"
)

// Codec provides content-type aware marshaling of documents.
type Codec interface {
	// ContentType returns the MIME type for this codec (e.g., "application/json").
	ContentType() string

	// Marshal encodes d into bytes. Field order is preserved where the
	// format allows it.
	Marshal(d *Document) ([]byte, error)

	// Unmarshal decodes data into a document. The top level value must be
	// an object/map.
	Unmarshal(data []byte) (*Document, error)
}

// Normalize converts a decoded scalar into one of the value kinds a Document
// holds. Signed and unsigned integers become int64, floats become float64.
// Slices and documents are returned untouched.
func Normalize(v any) (any, error) {
	switch x := v.(type) {
	case nil, bool, string, int64, float64, []any, *Document:
		return v, nil
	case int:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case uint:
		return normalizeUint(uint64(x))
	case uint8:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint64:
		return normalizeUint(x)
	case float32:
		return float64(x), nil
	default:
		return nil, fmt.Errorf("unsupported document value of type %T", v)
	}
}

func normalizeUint(u uint64) (any, error) {
	if u > math.MaxInt64 {
		return float64(u), nil
	}
	return int64(u), nil
}
