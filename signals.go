package cryptera

import (
	"context"
	"strings"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for cryptera events.
var (
	SignalIdentifierGenerated = capitan.NewSignal("cryptera.identifier.generated", "Identifier minted from the random source")
	SignalIdentifierFallback  = capitan.NewSignal("cryptera.identifier.fallback", "Random source failed, time-based identifier minted")
	SignalEncodeStart         = capitan.NewSignal("cryptera.encode.start", "Encode operation beginning")
	SignalEncodeComplete      = capitan.NewSignal("cryptera.encode.complete", "Encode operation finished")
	SignalDecodeStart         = capitan.NewSignal("cryptera.decode.start", "Decode operation beginning")
	SignalDecodeComplete      = capitan.NewSignal("cryptera.decode.complete", "Decode operation finished")
	SignalProcessorCreated    = capitan.NewSignal("cryptera.processor.created", "Processor instantiated")
	SignalStoreComplete       = capitan.NewSignal("cryptera.store.complete", "Store operation finished")
	SignalLoadComplete        = capitan.NewSignal("cryptera.load.complete", "Load operation finished")
)

// Keys for typed event data.
// Payloads and secrets are never attached to events.
var (
	KeyAlgorithm   = capitan.NewStringKey("algorithm")
	KeyKDF         = capitan.NewStringKey("kdf")
	KeyIdentifier  = capitan.NewStringKey("identifier")
	KeySize        = capitan.NewIntKey("size")
	KeyDuration    = capitan.NewDurationKey("duration")
	KeyError       = capitan.NewErrorKey("error")
	KeyErrorKind   = capitan.NewStringKey("error_kind")
	KeyFieldCount  = capitan.NewIntKey("field_count")
	KeyContentType = capitan.NewStringKey("content_type")
	KeyTypeName    = capitan.NewStringKey("type_name")
)

// maskIdentifier keeps the first segment of an identifier:
// 550e8400-e29b-41d4-a716-446655440000 -> 550e8400-****-****-****-************
func maskIdentifier(id Identifier) string {
	s := id.String()
	first, _, ok := strings.Cut(s, "-")
	if !ok {
		return strings.Repeat("*", len(s))
	}
	return first + "-****-****-****-************"
}

func emitIdentifierGenerated(ctx context.Context, id Identifier) {
	capitan.Emit(ctx, SignalIdentifierGenerated,
		KeyIdentifier.Field(maskIdentifier(id)),
	)
}

func emitIdentifierFallback(ctx context.Context, id Identifier, cause error) {
	capitan.Error(ctx, SignalIdentifierFallback,
		KeyIdentifier.Field(maskIdentifier(id)),
		KeyError.Field(cause),
	)
}

func emitEncodeStart(ctx context.Context, algo Algorithm, kdf KDF, size int) {
	capitan.Emit(ctx, SignalEncodeStart,
		KeyAlgorithm.Field(string(algo)),
		KeyKDF.Field(string(kdf)),
		KeySize.Field(size),
	)
}

func emitEncodeComplete(ctx context.Context, algo Algorithm, id Identifier, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyAlgorithm.Field(string(algo)),
		KeyIdentifier.Field(maskIdentifier(id)),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err), KeyErrorKind.Field(Kind(err)))
		capitan.Error(ctx, SignalEncodeComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalEncodeComplete, fields...)
	}
}

func emitDecodeStart(ctx context.Context, algo Algorithm, kdf KDF, size int) {
	capitan.Emit(ctx, SignalDecodeStart,
		KeyAlgorithm.Field(string(algo)),
		KeyKDF.Field(string(kdf)),
		KeySize.Field(size),
	)
}

func emitDecodeComplete(ctx context.Context, algo Algorithm, id Identifier, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyAlgorithm.Field(string(algo)),
		KeyIdentifier.Field(maskIdentifier(id)),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err), KeyErrorKind.Field(Kind(err)))
		capitan.Error(ctx, SignalDecodeComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalDecodeComplete, fields...)
	}
}

func emitProcessorCreated(ctx context.Context, contentType, typeName string, fields int) {
	capitan.Emit(ctx, SignalProcessorCreated,
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
		KeyFieldCount.Field(fields),
	)
}

func emitStoreComplete(ctx context.Context, contentType, typeName string, size int, duration time.Duration, fields int, err error) {
	f := []capitan.Field{
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
		KeySize.Field(size),
		KeyDuration.Field(duration),
		KeyFieldCount.Field(fields),
	}
	if err != nil {
		f = append(f, KeyError.Field(err), KeyErrorKind.Field(Kind(err)))
		capitan.Error(ctx, SignalStoreComplete, f...)
	} else {
		capitan.Emit(ctx, SignalStoreComplete, f...)
	}
}

func emitLoadComplete(ctx context.Context, contentType, typeName string, duration time.Duration, fields int, err error) {
	f := []capitan.Field{
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
		KeyDuration.Field(duration),
		KeyFieldCount.Field(fields),
	}
	if err != nil {
		f = append(f, KeyError.Field(err), KeyErrorKind.Field(Kind(err)))
		capitan.Error(ctx, SignalLoadComplete, f...)
	} else {
		capitan.Emit(ctx, SignalLoadComplete, f...)
	}
}
