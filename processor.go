package cryptera

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"reflect"
	"slices"
	"time"

	"github.com/zoobzio/sentinel"
)

// sealTag marks fields sealed by Processor: `cryptera:"seal"`.
const (
	sealTag   = "cryptera"
	sealValue = "seal"
)

func init() {
	sentinel.Tag(sealTag)
}

// Processor seals tagged struct fields on Store and opens them on Load.
// String fields carry base64 blobs; []byte fields carry raw blobs.
// Empty values are left as they are.
//
// Processors are immutable after construction and safe for concurrent use.
type Processor[T Cloner[T]] struct {
	format   Format
	codec    *Codec
	secret   []byte
	fields   []fieldPlan
	typeName string
}

type fieldKind int

const (
	fieldString fieldKind = iota
	fieldBytes
	fieldStringSlice
	fieldStringMap
)

// fieldPlan describes a single sealed field.
type fieldPlan struct {
	index      []int  // path of struct field indices from the root
	ptrIndices []int  // positions in index that hold a pointer to dereference
	name       string // dotted field path for error messages
	kind       fieldKind
}

// NewProcessor creates a Processor for type T.
// The secret is copied; opts configure the underlying Codec.
func NewProcessor[T Cloner[T]](format Format, secret []byte, opts ...Option) (*Processor[T], error) {
	if len(secret) == 0 {
		return nil, newConfigError(ErrMissingSecret, "secret", "")
	}

	codec, err := New(opts...)
	if err != nil {
		return nil, err
	}
	if err := codec.checkSecret("processor", secret); err != nil {
		return nil, err
	}

	spec := sentinel.Scan[T]()
	var fields []fieldPlan
	if err := buildFieldPlans(&fields, spec, nil, nil, "", map[string]bool{}); err != nil {
		return nil, err
	}

	p := &Processor[T]{
		format:   format,
		codec:    codec,
		secret:   bytes.Clone(secret),
		fields:   fields,
		typeName: spec.TypeName,
	}

	emitProcessorCreated(context.Background(), format.ContentType(), spec.TypeName, len(fields))
	return p, nil
}

// buildFieldPlans collects sealed fields, descending into nested structs
// and pointers to structs. seen guards against recursive types.
func buildFieldPlans(plans *[]fieldPlan, spec sentinel.Metadata, parentIndex, ptrIndices []int, prefix string, seen map[string]bool) error {
	for _, field := range spec.Fields {
		index := append(append([]int{}, parentIndex...), field.Index...)
		name := field.Name
		if prefix != "" {
			name = prefix + "." + field.Name
		}

		val, tagged := field.Tags[sealTag]

		if !tagged {
			nested, ptr := nestedStruct(field)
			if nested == nil || seen[nested.String()] {
				continue
			}
			nestedSpec := scanNested(nested)
			if nestedSpec == nil {
				continue
			}
			ptrs := ptrIndices
			if ptr {
				ptrs = append(append([]int{}, ptrIndices...), len(index)-1)
			}
			seen[nested.String()] = true
			err := buildFieldPlans(plans, *nestedSpec, index, ptrs, name, seen)
			delete(seen, nested.String())
			if err != nil {
				return err
			}
			continue
		}

		if val != sealValue {
			return newConfigError(ErrInvalidConfig, "tag on field "+name, val)
		}

		kind, ok := classify(field.ReflectType)
		if !ok {
			return newConfigError(ErrInvalidConfig, "sealed field type", name+" "+field.ReflectType.String())
		}

		*plans = append(*plans, fieldPlan{
			index:      index,
			ptrIndices: ptrIndices,
			name:       name,
			kind:       kind,
		})
	}

	return nil
}

// nestedStruct reports the struct type behind a struct or pointer-to-struct field.
func nestedStruct(field sentinel.FieldMetadata) (reflect.Type, bool) {
	switch {
	case field.Kind == sentinel.KindStruct:
		return field.ReflectType, false
	case field.Kind == sentinel.KindPointer && field.ReflectType.Elem().Kind() == reflect.Struct:
		return field.ReflectType.Elem(), true
	default:
		return nil, false
	}
}

// scanNested returns metadata for a nested struct type, scanning it
// directly when sentinel has not registered it.
func scanNested(rt reflect.Type) *sentinel.Metadata {
	if spec, ok := sentinel.Lookup(rt.String()); ok {
		return &spec
	}

	spec := sentinel.Metadata{
		TypeName:    rt.Name(),
		PackageName: rt.PkgPath(),
		Fields:      make([]sentinel.FieldMetadata, 0, rt.NumField()),
	}

	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}

		fm := sentinel.FieldMetadata{
			Name:        sf.Name,
			Type:        sf.Type.String(),
			ReflectType: sf.Type,
			Index:       sf.Index,
			Tags:        map[string]string{},
		}
		if val, ok := sf.Tag.Lookup(sealTag); ok {
			fm.Tags[sealTag] = val
		}

		switch sf.Type.Kind() {
		case reflect.Struct:
			fm.Kind = sentinel.KindStruct
		case reflect.Ptr:
			fm.Kind = sentinel.KindPointer
		case reflect.Slice, reflect.Array:
			fm.Kind = sentinel.KindSlice
		case reflect.Map:
			fm.Kind = sentinel.KindMap
		case reflect.Interface:
			fm.Kind = sentinel.KindInterface
		default:
			fm.Kind = sentinel.KindScalar
		}

		spec.Fields = append(spec.Fields, fm)
	}

	return &spec
}

func classify(rt reflect.Type) (fieldKind, bool) {
	switch {
	case rt.Kind() == reflect.String:
		return fieldString, true
	case rt.Kind() == reflect.Slice && rt.Elem().Kind() == reflect.Uint8:
		return fieldBytes, true
	case rt.Kind() == reflect.Slice && rt.Elem().Kind() == reflect.String:
		return fieldStringSlice, true
	case rt.Kind() == reflect.Map && rt.Key().Kind() == reflect.String && rt.Elem().Kind() == reflect.String:
		return fieldStringMap, true
	default:
		return 0, false
	}
}

// Store seals tagged fields on a clone of obj and marshals the result.
func (p *Processor[T]) Store(ctx context.Context, obj *T) ([]byte, error) {
	start := time.Now()

	var retErr error
	var retData []byte
	defer func() {
		emitStoreComplete(ctx, p.format.ContentType(), p.typeName,
			len(retData), time.Since(start), len(p.fields), retErr)
	}()

	if obj == nil {
		retData, retErr = p.marshal(nil)
		return retData, retErr
	}

	clone := (*obj).Clone()
	sealer := p.sealer(ctx)

	if s, ok := any(&clone).(Sealable); ok {
		if err := s.Seal(sealer); err != nil {
			retErr = fmt.Errorf("seal: %w", err)
			return nil, retErr
		}
	} else if err := p.applySeal(&clone, sealer); err != nil {
		retErr = err
		return nil, retErr
	}

	retData, retErr = p.marshal(&clone)
	return retData, retErr
}

// Load unmarshals data and opens tagged fields.
// Any field failing authentication fails the whole call.
func (p *Processor[T]) Load(ctx context.Context, data []byte) (*T, error) {
	start := time.Now()

	var retErr error
	defer func() {
		emitLoadComplete(ctx, p.format.ContentType(), p.typeName,
			time.Since(start), len(p.fields), retErr)
	}()

	var obj T
	if err := p.format.Unmarshal(data, &obj); err != nil {
		retErr = newCodecError(ErrUnmarshal, err)
		return nil, retErr
	}

	sealer := p.sealer(ctx)

	if o, ok := any(&obj).(Openable); ok {
		if err := o.Open(sealer); err != nil {
			retErr = fmt.Errorf("open: %w", err)
			return nil, retErr
		}
		return &obj, nil
	}

	if err := p.applyOpen(&obj, sealer); err != nil {
		retErr = err
		return nil, retErr
	}
	return &obj, nil
}

func (p *Processor[T]) marshal(v any) ([]byte, error) {
	data, err := p.format.Marshal(v)
	if err != nil {
		return nil, newCodecError(ErrMarshal, err)
	}
	return data, nil
}

func (p *Processor[T]) sealer(ctx context.Context) FieldSealer {
	return &boundSealer{ctx: ctx, codec: p.codec, secret: p.secret}
}

// boundSealer binds a codec and secret to a single Store or Load call.
type boundSealer struct {
	ctx    context.Context
	codec  *Codec
	secret []byte
}

func (s *boundSealer) Seal(plaintext []byte) ([]byte, error) {
	return s.codec.Encode(s.ctx, plaintext, s.secret)
}

func (s *boundSealer) Open(blob []byte) ([]byte, error) {
	return s.codec.Decode(s.ctx, blob, s.secret)
}

// applySeal seals tagged fields via reflection.
func (p *Processor[T]) applySeal(obj *T, s FieldSealer) error {
	rv := reflect.ValueOf(obj).Elem()

	for _, plan := range p.fields {
		field, ok := getField(rv, plan)
		if !ok || !field.CanSet() {
			continue
		}

		switch plan.kind {
		case fieldString:
			out, err := sealString(s, field.String())
			if err != nil {
				return newFieldError("seal", plan.name, err)
			}
			field.SetString(out)

		case fieldBytes:
			if field.Len() == 0 {
				continue
			}
			blob, err := s.Seal(field.Bytes())
			if err != nil {
				return newFieldError("seal", plan.name, err)
			}
			field.SetBytes(blob)

		case fieldStringSlice:
			for i := 0; i < field.Len(); i++ {
				elem := field.Index(i)
				out, err := sealString(s, elem.String())
				if err != nil {
					return newFieldError("seal", fmt.Sprintf("%s[%d]", plan.name, i), err)
				}
				elem.SetString(out)
			}

		case fieldStringMap:
			iter := field.MapRange()
			for iter.Next() {
				k, v := iter.Key(), iter.Value()
				out, err := sealString(s, v.String())
				if err != nil {
					return newFieldError("seal", fmt.Sprintf("%s[%v]", plan.name, k.Interface()), err)
				}
				field.SetMapIndex(k, reflect.ValueOf(out).Convert(field.Type().Elem()))
			}
		}
	}

	return nil
}

// applyOpen opens tagged fields via reflection.
func (p *Processor[T]) applyOpen(obj *T, s FieldSealer) error {
	rv := reflect.ValueOf(obj).Elem()

	for _, plan := range p.fields {
		field, ok := getField(rv, plan)
		if !ok || !field.CanSet() {
			continue
		}

		switch plan.kind {
		case fieldString:
			out, err := openString(s, field.String())
			if err != nil {
				return newFieldError("open", plan.name, err)
			}
			field.SetString(out)

		case fieldBytes:
			if field.Len() == 0 {
				continue
			}
			plaintext, err := s.Open(field.Bytes())
			if err != nil {
				return newFieldError("open", plan.name, err)
			}
			field.SetBytes(plaintext)

		case fieldStringSlice:
			for i := 0; i < field.Len(); i++ {
				elem := field.Index(i)
				out, err := openString(s, elem.String())
				if err != nil {
					return newFieldError("open", fmt.Sprintf("%s[%d]", plan.name, i), err)
				}
				elem.SetString(out)
			}

		case fieldStringMap:
			iter := field.MapRange()
			for iter.Next() {
				k, v := iter.Key(), iter.Value()
				out, err := openString(s, v.String())
				if err != nil {
					return newFieldError("open", fmt.Sprintf("%s[%v]", plan.name, k.Interface()), err)
				}
				field.SetMapIndex(k, reflect.ValueOf(out).Convert(field.Type().Elem()))
			}
		}
	}

	return nil
}

// getField walks a plan's index path, dereferencing pointers along the way.
// A nil pointer on the path means there is nothing to seal or open.
func getField(rv reflect.Value, plan fieldPlan) (reflect.Value, bool) {
	if len(plan.ptrIndices) == 0 {
		return rv.FieldByIndex(plan.index), true
	}

	current := rv
	for i, idx := range plan.index {
		current = current.Field(idx)
		if slices.Contains(plan.ptrIndices, i) {
			if current.IsNil() {
				return reflect.Value{}, false
			}
			current = current.Elem()
		}
	}
	return current, true
}

func sealString(s FieldSealer, value string) (string, error) {
	if value == "" {
		return "", nil
	}
	blob, err := s.Seal([]byte(value))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(blob), nil
}

func openString(s FieldSealer, value string) (string, error) {
	if value == "" {
		return "", nil
	}
	blob, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return "", newBlobError("invalid base64", len(value))
	}
	plaintext, err := s.Open(blob)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}
