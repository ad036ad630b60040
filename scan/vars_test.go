package scan

import (
	"bytes"
	"context"
	"encoding/json"
	"maps"
	"slices"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
)

func sampleMap() *Map {
	return NewMap(
		Binding{Name: "y", Value: "hello world", Line: 2},
		Binding{Name: "x", Value: "1", Line: 1},
		Binding{Name: "z()", Value: "3", Line: 4},
	)
}

func TestMap_SetLastWins(t *testing.T) {
	var m Map

	m.Set(Binding{Name: "k", Value: "1", Line: 1})
	m.Set(Binding{Name: "k", Value: "2", Line: 7})

	b, ok := m.Lookup("k")
	if !ok || b.Value != "2" || b.Line != 7 {
		t.Errorf("Lookup(k) = %+v, %v", b, ok)
	}
	if m.Len() != 1 {
		t.Errorf("Len() = %d", m.Len())
	}
}

func TestMap_Accessors(t *testing.T) {
	m := sampleMap()

	if v, ok := m.Get("y"); !ok || v != "hello world" {
		t.Errorf("Get(y) = %q, %v", v, ok)
	}
	if _, ok := m.Get("missing"); ok {
		t.Error("Get(missing) found a value")
	}
	if got := m.Names(); !slices.Equal(got, []string{"x", "y", "z()"}) {
		t.Errorf("Names() = %v", got)
	}

	var names []string
	for b := range m.Bindings() {
		names = append(names, b.Name)
	}

	if !slices.Equal(names, m.Names()) {
		t.Errorf("Bindings() order = %v", names)
	}
}

func TestMap_Nil(t *testing.T) {
	var m *Map

	if m.Len() != 0 || m.Names() != nil {
		t.Error("nil map not empty")
	}
	if _, ok := m.Lookup("x"); ok {
		t.Error("nil map lookup succeeded")
	}
	if m.Clone().Len() != 0 {
		t.Error("clone of nil map not empty")
	}
}

func TestMap_CloneIsIndependent(t *testing.T) {
	m := sampleMap()
	c := m.Clone()

	c.Set(Binding{Name: "x", Value: "changed"})

	if v, _ := m.Get("x"); v != "1" {
		t.Errorf("original modified through clone: x=%q", v)
	}
	if m.Equal(c) {
		t.Error("Equal() after divergent Set")
	}
}

func TestMap_EqualIgnoresLines(t *testing.T) {
	a := NewMap(Binding{Name: "k", Value: "v", Line: 1})
	b := NewMap(Binding{Name: "k", Value: "v", Line: 9})

	if !a.Equal(b) {
		t.Error("maps differing only in line numbers are not equal")
	}
}

func TestMap_Format(t *testing.T) {
	var buf bytes.Buffer

	err := sampleMap().Format(context.Background(), &buf)
	if err != nil {
		t.Fatal(err)
	}

	want := "x = 1\ny = hello world\nz() = 3\n"
	if buf.String() != want {
		t.Errorf("Format() = %q, want %q", buf.String(), want)
	}

	// The output is itself valid input.
	vars, err := Read(context.Background(), &buf)
	if err != nil {
		t.Fatal(err)
	}
	if !vars.Equal(sampleMap()) {
		t.Errorf("reparsed = %v", vars.ToMap())
	}
}

func TestMap_FormatJSON(t *testing.T) {
	tests := []struct {
		name   string
		indent int
		want   string
	}{
		{"compact", 0, `{"x":"1","y":"hello world","z()":"3"}` + "\n"},
		{"indented", 2, "{\n  \"x\": \"1\",\n  \"y\": \"hello world\",\n  \"z()\": \"3\"\n}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			err := sampleMap().FormatJSON(context.Background(), &buf, tt.indent)
			if err != nil {
				t.Fatal(err)
			}

			if buf.String() != tt.want {
				t.Errorf("FormatJSON() = %q, want %q", buf.String(), tt.want)
			}
		})
	}

	data, err := json.Marshal(NewMap())
	if err != nil || string(data) != "{}" {
		t.Errorf("empty map JSON = %s, %v", data, err)
	}
}

func TestMap_FormatYAML(t *testing.T) {
	for _, indent := range []int{0, 2, 4} {
		var buf bytes.Buffer

		err := sampleMap().FormatYAML(context.Background(), &buf, indent)
		if err != nil {
			t.Fatal(err)
		}

		var got map[string]string
		if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("indent %d: output is not YAML: %v\n%s", indent, err, buf.String())
		}

		if !maps.Equal(got, sampleMap().ToMap()) {
			t.Errorf("indent %d: decoded %v", indent, got)
		}

		if indent > 0 {
			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			if len(lines) != 3 || !strings.HasPrefix(lines[0], "x:") {
				t.Errorf("indent %d: block output = %q", indent, buf.String())
			}
		}
	}
}
