package diagram

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/hashicorp/go-multierror"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// attrDecoder decodes raw attribute strings into payload structs tagged
// with `attr` and collects every problem it meets instead of stopping at
// the first.
type attrDecoder struct {
	attrs map[string]string
	errs  *multierror.Error
}

func (d *attrDecoder) has(key string) bool {
	_, ok := d.attrs[key]
	return ok
}

func (d *attrDecoder) fail(key, format string, args ...any) {
	d.errs = multierror.Append(d.errs, fmt.Errorf("attribute %q: "+format, append([]any{key}, args...)...))
}

// decode fills out from the listed attributes. Fields whose attribute is
// absent keep the value out already holds, so defaults are set beforehand.
func (d *attrDecoder) decode(out any, required []string, optional ...string) {
	input := make(map[string]any, len(required)+len(optional))
	for _, k := range required {
		v, ok := d.attrs[k]
		if !ok {
			d.fail(k, "missing")
			continue
		}
		input[k] = v
	}
	for _, k := range optional {
		if v, ok := d.attrs[k]; ok {
			input[k] = v
		}
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       attrValueHook,
		WeaklyTypedInput: true,
		TagName:          "attr",
		Result:           out,
	})
	if err != nil {
		d.errs = multierror.Append(d.errs, err)
		return
	}
	if err := dec.Decode(input); err != nil {
		d.errs = multierror.Append(d.errs, err)
	}
}

func (d *attrDecoder) err() error {
	return d.errs.ErrorOrNil()
}

// attrValueHook converts attribute strings bound for numeric or boolean
// fields through cty, so "4", " 4" and "4.0" all decode to the integer 4
// and "4.5" is rejected for an integer field.
func attrValueHook(from, to reflect.Type, data any) (any, error) {
	s, ok := data.(string)
	if !ok || from.Kind() != reflect.String {
		return data, nil
	}
	s = strings.TrimSpace(s)

	switch to.Kind() {
	case reflect.Bool:
		if s == "" {
			return false, nil
		}
		v, err := convert.Convert(cty.StringVal(strings.ToLower(s)), cty.Bool)
		if err != nil {
			return nil, fmt.Errorf("%q is not a bool", s)
		}
		return v.True(), nil
	case reflect.Float32, reflect.Float64:
		v, err := convert.Convert(cty.StringVal(s), cty.Number)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", s)
		}
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, fmt.Errorf("%q: %w", s, err)
		}
		return f, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v, err := convert.Convert(cty.StringVal(s), cty.Number)
		if err != nil {
			return nil, fmt.Errorf("%q is not an integer", s)
		}
		var i int
		if err := gocty.FromCtyValue(v, &i); err != nil {
			return nil, fmt.Errorf("%q is not an integer", s)
		}
		return i, nil
	}
	return s, nil
}
