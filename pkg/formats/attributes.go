package formats

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/buger/jsonparser"
)

// Attribute is a named accessor reference on a primitive.
type Attribute struct {
	Name     string
	Accessor int
}

// Attributes holds a primitive's attributes in document declaration order.
// The order is significant: it drives the vertex layout of the baked mesh.
type Attributes []Attribute

// UnmarshalJSON decodes the attribute object keeping key order. A name may
// appear only once.
func (a *Attributes) UnmarshalJSON(data []byte) error {
	var attrs Attributes
	err := jsonparser.ObjectEach(data, func(key, value []byte, dataType jsonparser.ValueType, _ int) error {
		name, err := jsonparser.ParseString(key)
		if err != nil {
			return err
		}
		if dataType != jsonparser.Number {
			return fmt.Errorf("attribute %s: accessor index is %s, not a number", name, dataType)
		}
		index, err := jsonparser.ParseInt(value)
		if err != nil {
			return fmt.Errorf("attribute %s: %w", name, err)
		}
		attrs = append(attrs, Attribute{Name: name, Accessor: int(index)})
		return nil
	})
	if err != nil {
		return err
	}
	for i := range attrs {
		for _, prev := range attrs[:i] {
			if prev.Name == attrs[i].Name {
				return fmt.Errorf("%w: attribute %s declared twice", ErrMalformedDocument, prev.Name)
			}
		}
	}
	*a = attrs
	return nil
}

// MarshalJSON encodes the attributes as a JSON object in declaration order.
func (a Attributes) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, attr := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(attr.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		fmt.Fprintf(&buf, ":%d", attr.Accessor)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Lookup returns the accessor index of the named attribute.
func (a Attributes) Lookup(name string) (int, bool) {
	for _, attr := range a {
		if attr.Name == name {
			return attr.Accessor, true
		}
	}
	return 0, false
}
