package satchel

import (
	"context"
	"time"

	"github.com/zoobzio/satchel/document"
)

// Serializer stores and loads items through a document codec.
//
// Serializers hold no per-call state and are safe for concurrent use.
type Serializer struct {
	codec           document.Codec
	catalog         *Catalog
	translateColors bool
}

// Option configures a Serializer.
type Option func(*Serializer)

// WithCatalog resolves names against c instead of the default catalog.
func WithCatalog(c *Catalog) Option {
	return func(s *Serializer) {
		s.catalog = c
	}
}

// WithColorTranslation makes Load turn "&x" sequences in the display name
// and lore back into formatting codes. Off by default: documents are
// decoded verbatim and callers translate where they need to.
func WithColorTranslation(enabled bool) Option {
	return func(s *Serializer) {
		s.translateColors = enabled
	}
}

// NewSerializer creates a Serializer for the given codec.
func NewSerializer(codec document.Codec, opts ...Option) *Serializer {
	s := &Serializer{
		codec:   codec,
		catalog: DefaultCatalog(),
	}
	for _, opt := range opts {
		opt(s)
	}

	emitSerializerCreated(context.Background(), codec.ContentType())
	return s
}

// ContentType returns the codec's MIME type.
func (s *Serializer) ContentType() string {
	return s.codec.ContentType()
}

// Catalog returns the catalog names are resolved against.
func (s *Serializer) Catalog() *Catalog {
	return s.catalog
}

// Store encodes it for persistence or transfer.
func (s *Serializer) Store(ctx context.Context, it *Item) ([]byte, error) {
	start := time.Now()

	data, err := s.codec.Marshal(EncodeDocument(it))
	if err != nil {
		err = newCodecError(ErrMarshal, err)
		emitStoreComplete(ctx, s.codec.ContentType(), it.Material.String(), 0, time.Since(start), err)
		return nil, err
	}

	emitStoreComplete(ctx, s.codec.ContentType(), it.Material.String(), len(data), time.Since(start), nil)
	return data, nil
}

// Load decodes an item. Every failure is a *ParseError.
func (s *Serializer) Load(ctx context.Context, data []byte) (*Item, error) {
	start := time.Now()
	emitLoadStart(ctx, s.codec.ContentType(), len(data))

	it, err := s.load(data)
	material := ""
	if it != nil {
		material = it.Material.String()
	}
	emitLoadComplete(ctx, s.codec.ContentType(), material, time.Since(start), err)
	return it, err
}

func (s *Serializer) load(data []byte) (it *Item, err error) {
	defer recoverParseError(&it, &err)

	d, err := s.codec.Unmarshal(data)
	if err != nil {
		return nil, wrapParseError(err)
	}
	return decoder{catalog: s.catalog, translateColors: s.translateColors}.decode(d)
}
