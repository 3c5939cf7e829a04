package stream

import (
	"encoding"
	"encoding/base64"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"

	"github.com/signadot/jsonstream/ir"
)

var (
	bytesType           = reflect.TypeFor[[]byte]()
	durationType        = reflect.TypeFor[time.Duration]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// toScalar returns the tree form of v if v is a scalar. handled is false
// when v is not a scalar type.
func toScalar(v any) (kind ir.Kind, text string, handled bool, err error) {
	switch x := v.(type) {
	case string:
		return ir.StringKind, x, true, nil
	case bool:
		return ir.LiteralKind, strconv.FormatBool(x), true, nil
	case time.Duration:
		return ir.StringKind, x.String(), true, nil
	case int:
		return ir.LiteralKind, strconv.FormatInt(int64(x), 10), true, nil
	case int64:
		return ir.LiteralKind, strconv.FormatInt(x, 10), true, nil
	case uint64:
		return ir.LiteralKind, strconv.FormatUint(x, 10), true, nil
	case float64:
		return floatScalar(x, 64)
	case []byte:
		return ir.StringKind, base64.StdEncoding.EncodeToString(x), true, nil
	case encoding.TextMarshaler:
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Pointer && rv.IsNil() {
			return ir.NullKind, "null", true, nil
		}
		d, err := x.MarshalText()
		if err != nil {
			return 0, "", true, err
		}
		return ir.StringKind, string(d), true, nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return ir.StringKind, rv.String(), true, nil
	case reflect.Bool:
		return ir.LiteralKind, strconv.FormatBool(rv.Bool()), true, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return ir.LiteralKind, strconv.FormatInt(rv.Int(), 10), true, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return ir.LiteralKind, strconv.FormatUint(rv.Uint(), 10), true, nil
	case reflect.Float32:
		return floatScalar(rv.Float(), 32)
	case reflect.Float64:
		return floatScalar(rv.Float(), 64)
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return ir.StringKind, base64.StdEncoding.EncodeToString(rv.Bytes()), true, nil
		}
	}
	return 0, "", false, nil
}

func floatScalar(f float64, bits int) (ir.Kind, string, bool, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, "", true, fmt.Errorf("%v has no JSON form", f)
	}
	return ir.LiteralKind, strconv.FormatFloat(f, 'g', -1, bits), true, nil
}

// fromScalar sets rv from the scalar node n when rv has a scalar type.
// handled is false when rv is not a scalar type. rv is only modified on
// success.
func fromScalar(n *ir.Node, rv reflect.Value) (handled bool, err error) {
	t := rv.Type()
	switch {
	case reflect.PointerTo(t).Implements(textUnmarshalerType):
		if err := wantScalar(n, t); err != nil {
			return true, err
		}
		tmp := reflect.New(t)
		if err := tmp.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(n.Scalar)); err != nil {
			return true, conversionErr(n, t, err)
		}
		rv.Set(tmp.Elem())
		return true, nil
	case t == durationType:
		if err := wantScalar(n, t); err != nil {
			return true, err
		}
		d, err := time.ParseDuration(n.Scalar)
		if err != nil {
			return true, conversionErr(n, t, err)
		}
		rv.SetInt(int64(d))
		return true, nil
	case t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8 && n.IsScalar():
		if n.Kind == ir.NullKind {
			rv.SetZero()
			return true, nil
		}
		d, err := base64.StdEncoding.DecodeString(n.Scalar)
		if err != nil {
			return true, conversionErr(n, t, err)
		}
		rv.SetBytes(d)
		return true, nil
	}
	switch t.Kind() {
	case reflect.String:
		if err := wantScalar(n, t); err != nil {
			return true, err
		}
		rv.SetString(n.Scalar)
	case reflect.Bool:
		if err := wantScalar(n, t); err != nil {
			return true, err
		}
		b, err := strconv.ParseBool(n.Scalar)
		if err != nil {
			return true, conversionErr(n, t, err)
		}
		rv.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if err := wantScalar(n, t); err != nil {
			return true, err
		}
		i, err := strconv.ParseInt(n.Scalar, 10, t.Bits())
		if err != nil {
			return true, conversionErr(n, t, err)
		}
		rv.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if err := wantScalar(n, t); err != nil {
			return true, err
		}
		u, err := strconv.ParseUint(n.Scalar, 10, t.Bits())
		if err != nil {
			return true, conversionErr(n, t, err)
		}
		rv.SetUint(u)
	case reflect.Float32, reflect.Float64:
		if err := wantScalar(n, t); err != nil {
			return true, err
		}
		f, err := strconv.ParseFloat(n.Scalar, t.Bits())
		if err != nil {
			return true, conversionErr(n, t, err)
		}
		rv.SetFloat(f)
	default:
		return false, nil
	}
	return true, nil
}

// wantScalar accepts any non-null scalar: text typing is recovered from
// the target type.
func wantScalar(n *ir.Node, t reflect.Type) error {
	if !n.IsScalar() {
		return fmt.Errorf("%w: %s: expected scalar for %s, got %s", ErrConversion, n.Path(), t, n.Shape())
	}
	if n.Kind == ir.NullKind {
		return fmt.Errorf("%w: %s: null for %s", ErrConversion, n.Path(), t)
	}
	return nil
}

func conversionErr(n *ir.Node, t reflect.Type, err error) error {
	return fmt.Errorf("%w: %s: %q as %s: %w", ErrConversion, n.Path(), n.Scalar, t, err)
}

// toAny converts n to the generic Go form: map[string]any, []any, string,
// float64, bool or nil.
func toAny(n *ir.Node) (any, error) {
	switch n.Kind {
	case ir.NullKind:
		return nil, nil
	case ir.StringKind:
		return n.Scalar, nil
	case ir.LiteralKind:
		switch n.Scalar {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		f, err := strconv.ParseFloat(n.Scalar, 64)
		if err != nil {
			return nil, conversionErr(n, reflect.TypeFor[float64](), err)
		}
		return f, nil
	}
	if n.IsArray() {
		res := make([]any, 0, n.Len())
		for _, e := range n.Children {
			v, err := toAny(e.Node)
			if err != nil {
				return nil, err
			}
			res = append(res, v)
		}
		return res, nil
	}
	res := make(map[string]any, n.Len())
	for _, e := range n.Children {
		v, err := toAny(e.Node)
		if err != nil {
			return nil, err
		}
		res[e.Label] = v
	}
	return res, nil
}
