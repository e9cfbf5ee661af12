package definition

import (
	"fmt"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
)

var parameterTypes = map[string]reflect.Type{
	"string":   reflect.TypeOf(""),
	"int":      reflect.TypeOf(0),
	"int64":    reflect.TypeOf(int64(0)),
	"float64":  reflect.TypeOf(0.0),
	"bool":     reflect.TypeOf(false),
	"duration": reflect.TypeOf(time.Duration(0)),
	"any":      nil,
}

// ConvertArgs converts raw values, usually text from a command line, to
// the argument types in types. A nil type keeps the raw value.
func ConvertArgs(types []reflect.Type, raw []any) ([]any, error) {
	args := make([]any, len(raw))
	for i, value := range raw {
		if i >= len(types) || types[i] == nil {
			args[i] = value
			continue
		}
		converted, err := convert(types[i], value)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		args[i] = converted
	}
	return args, nil
}

func convert(typ reflect.Type, value any) (any, error) {
	target := reflect.New(typ)
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		Result:           target.Interface(),
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(value); err != nil {
		return nil, fmt.Errorf("convert %v to %v: %w", value, typ, err)
	}
	return target.Elem().Interface(), nil
}
