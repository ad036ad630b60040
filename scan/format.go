package scan

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes m as "name = value" lines in name order.
func (m *Map) Format(_ context.Context, w io.Writer) error {
	for name, value := range m.All() {
		_, err := fmt.Fprintf(w, "%s = %s\n", name, value)
		if err != nil {
			return err
		}
	}

	return nil
}

// FormatJSON writes m as a JSON object. An indent of zero writes compact
// output.
func (m *Map) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(m, "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(m)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes m as a YAML mapping in name order. An indent of zero
// writes flow style.
func (m *Map) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, m.mapSlice(), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(data))

	return err
}

// MarshalJSON implements json.Marshaler.
func (m *Map) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.ToMap())
}

// MarshalYAML implements yaml.InterfaceMarshaler.
func (m *Map) MarshalYAML() (any, error) {
	return m.mapSlice(), nil
}

func (m *Map) mapSlice() yaml.MapSlice {
	slice := make(yaml.MapSlice, 0, m.Len())

	for name, value := range m.All() {
		slice = append(slice, yaml.MapItem{Key: name, Value: value})
	}

	return slice
}
