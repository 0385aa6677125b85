package document

import (
	"testing"
)

func TestID(t *testing.T) {
	tests := []struct {
		name string
		doc  Document
		want string
	}{
		{"string", Document{"id": "doc-1"}, "doc-1"},
		{"number", Document{"id": float64(42)}, "42"},
		{"missing", Document{"name": "Alice"}, ""},
		{"nil map", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.doc.ID(); got != tt.want {
				t.Errorf("ID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWithID_DoesNotMutate(t *testing.T) {
	orig := Document{"id": "a", "name": "Alice"}
	c := orig.WithID("b")

	if c.ID() != "b" {
		t.Errorf("copy ID = %q, want b", c.ID())
	}
	if orig.ID() != "a" {
		t.Errorf("original mutated: ID = %q", orig.ID())
	}
}

func TestWithID_NilDocument(t *testing.T) {
	var d Document
	c := d.WithID("x")
	if c.ID() != "x" {
		t.Errorf("ID = %q, want x", c.ID())
	}
}

func TestWithoutServerFields(t *testing.T) {
	d := Document{"id": "a", "_version_": float64(1234)}
	if d.Version() != 1234 {
		t.Errorf("Version() = %d, want 1234", d.Version())
	}
	c := d.WithoutServerFields()
	if _, ok := c["_version_"]; ok {
		t.Error("_version_ should be stripped")
	}
	if _, ok := d["_version_"]; !ok {
		t.Error("original should keep _version_")
	}
}

func TestValidate(t *testing.T) {
	if err := (Document{"id": "a"}).Validate(); err != nil {
		t.Errorf("string id: %v", err)
	}
	if err := (Document{"name": "no id"}).Validate(); err != nil {
		t.Errorf("missing id: %v", err)
	}
	if err := (Document{"id": []any{"a"}}).Validate(); err == nil {
		t.Error("expected error for array id")
	}
}

func TestAtomicUpdate(t *testing.T) {
	u := AtomicUpdate("doc-1", Document{"id": "ignored", "age": float64(21), "nick": nil, "_version_": float64(1)})

	if u.ID() != "doc-1" {
		t.Errorf("ID = %q", u.ID())
	}
	age, ok := u["age"].(map[string]any)
	if !ok || age["set"] != float64(21) {
		t.Errorf("age = %v, want set:21", u["age"])
	}
	nick, ok := u["nick"].(map[string]any)
	if !ok {
		t.Fatalf("nick = %v, want set:nil", u["nick"])
	}
	if v, present := nick["set"]; !present || v != nil {
		t.Errorf("nick.set = %v", v)
	}
	if _, ok := u["_version_"]; ok {
		t.Error("_version_ must not be patched")
	}
}
