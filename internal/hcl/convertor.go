package hcl

import (
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// decodeAttributes evaluates a node's attributes expression into the string
// map diagram nodes carry. A missing expression yields an empty map.
func decodeAttributes(expr hcl.Expression) (map[string]string, error) {
	attrs := make(map[string]string)
	if expr == nil {
		return attrs, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	if val.IsNull() {
		return attrs, nil
	}
	ty := val.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return nil, fmt.Errorf("attributes must be an object, got %s", ty.FriendlyName())
	}
	if !val.IsWhollyKnown() {
		return nil, fmt.Errorf("attributes must be known values")
	}

	values := val.AsValueMap()
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		s, err := attributeString(values[k])
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", k, err)
		}
		attrs[k] = s
	}
	return attrs, nil
}

// attributeString converts one primitive value to its string form.
func attributeString(v cty.Value) (string, error) {
	if v.IsNull() {
		return "", nil
	}
	if !v.Type().IsPrimitiveType() {
		return "", fmt.Errorf("cannot use %s as an attribute value", v.Type().FriendlyName())
	}
	sv, err := convert.Convert(v, cty.String)
	if err != nil {
		return "", err
	}
	var s string
	if err := gocty.FromCtyValue(sv, &s); err != nil {
		return "", err
	}
	return s, nil
}

// stringList builds the cty list used for wire endpoints.
func stringList(items []string) cty.Value {
	if len(items) == 0 {
		return cty.ListValEmpty(cty.String)
	}
	vals := make([]cty.Value, len(items))
	for i, s := range items {
		vals[i] = cty.StringVal(s)
	}
	return cty.ListVal(vals)
}
