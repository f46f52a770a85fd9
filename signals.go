package satchel

import (
	"context"
	"errors"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for serializer events.
var (
	SignalSerializerCreated = capitan.NewSignal("satchel.serializer.created", "Serializer instantiated")
	SignalStoreComplete     = capitan.NewSignal("satchel.store.complete", "Item encoded")
	SignalLoadStart         = capitan.NewSignal("satchel.load.start", "Item decode beginning")
	SignalLoadComplete      = capitan.NewSignal("satchel.load.complete", "Item decode finished")
)

// Keys for typed event data.
var (
	KeyContentType = capitan.NewStringKey("content_type")
	KeyMaterial    = capitan.NewStringKey("material")
	KeySize        = capitan.NewIntKey("size")
	KeyDuration    = capitan.NewDurationKey("duration")
	KeyError       = capitan.NewErrorKey("error")
	KeyCause       = capitan.NewErrorKey("cause")
)

// emitSerializerCreated emits an event when a serializer is created.
func emitSerializerCreated(ctx context.Context, contentType string) {
	capitan.Emit(ctx, SignalSerializerCreated,
		KeyContentType.Field(contentType),
	)
}

// emitStoreComplete emits an event when an item has been encoded.
func emitStoreComplete(ctx context.Context, contentType, material string, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyContentType.Field(contentType),
		KeyMaterial.Field(material),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalStoreComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalStoreComplete, fields...)
	}
}

// emitLoadStart emits an event when a decode begins.
func emitLoadStart(ctx context.Context, contentType string, size int) {
	capitan.Emit(ctx, SignalLoadStart,
		KeyContentType.Field(contentType),
		KeySize.Field(size),
	)
}

// emitLoadComplete emits an event when a decode finishes.
func emitLoadComplete(ctx context.Context, contentType, material string, duration time.Duration, err error) {
	fields := loadCompleteFields(contentType, material, duration, err)
	if err != nil {
		capitan.Error(ctx, SignalLoadComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalLoadComplete, fields...)
	}
}

// loadCompleteFields builds the load.complete payload. Failures carry the
// parse error and, when present, the underlying cause.
func loadCompleteFields(contentType, material string, duration time.Duration, err error) []capitan.Field {
	fields := []capitan.Field{
		KeyContentType.Field(contentType),
		KeyMaterial.Field(material),
		KeyDuration.Field(duration),
	}
	if err == nil {
		return fields
	}
	fields = append(fields, KeyError.Field(err))
	var pe *ParseError
	if errors.As(err, &pe) && pe.Cause != nil {
		fields = append(fields, KeyCause.Field(pe.Cause))
	}
	return fields
}
