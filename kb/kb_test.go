package kb

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLookupExact(t *testing.T) {
	kb := Default()
	for _, e := range builtin {
		got := kb.Lookup(e.Make, e.Model)
		if diff := cmp.Diff(e.Attributes, got); diff != "" {
			t.Errorf("Lookup(%q, %q) mismatch (-want +got):\n%s", e.Make, e.Model, diff)
		}
	}
}

func TestLookupNormalization(t *testing.T) {
	kb := Default()
	for _, e := range builtin {
		variants := [][2]string{
			{"  " + e.Make + " ", "\t" + e.Model + "  "},
			{upper(e.Make), upper(e.Model)},
		}
		for _, v := range variants {
			m, ok := kb.Match(v[0], v[1])
			if !ok || m.Make != e.Make || m.Model != e.Model {
				t.Errorf("Match(%q, %q) = %s %s, want %s %s", v[0], v[1], m.Make, m.Model, e.Make, e.Model)
			}
		}
	}
}

func TestLookupFuzzy(t *testing.T) {
	kb := Default()
	tests := []struct {
		name      string
		make      string
		model     string
		wantModel string
	}{
		{"model contains entry", "BMW", "M3 Competition xDrive", "M3"},
		{"entry contains model", "Nissan", "GT-R", "GT-R Nismo"},
		{"ambiguous prefers table order", "Porsche", "911", "911 Turbo"},
		{"empty model takes first of make", "Audi", "", "TT RS"},
		{"make substring", "Mercedes", "S-Class", "AMG GT"},
		{"make superstring", "Toyota Gazoo Racing", "Yaris", "GR Supra"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := kb.Match(tt.make, tt.model)
			if !ok || m.Model != tt.wantModel {
				t.Errorf("Match(%q, %q) = %q, %v; want %q", tt.make, tt.model, m.Model, ok, tt.wantModel)
			}
		})
	}
}

func TestLookupGenericDefault(t *testing.T) {
	kb := Default()
	got := kb.Lookup("Lada", "Niva")
	if diff := cmp.Diff(genericSpecs, got); diff != "" {
		t.Errorf("generic mismatch (-want +got):\n%s", diff)
	}
	if len(kb.Lookup("", "")) == 0 {
		t.Error("Lookup must never return an empty map")
	}
}

func TestLookupReturnsCopy(t *testing.T) {
	kb := Default()
	got := kb.Lookup("Audi", "TT RS")
	got["Engine"] = "mutated"
	if kb.Lookup("Audi", "TT RS")["Engine"] != "2.5 TFSI 5-cylinder" {
		t.Error("Lookup leaked the stored map")
	}
}

func TestFirstModel(t *testing.T) {
	kb := Default()
	if m, ok := kb.FirstModel("porsche"); !ok || m != "911 Turbo" {
		t.Errorf("FirstModel(porsche) = %q, %v", m, ok)
	}
	if _, ok := kb.FirstModel("Lada"); ok {
		t.Error("FirstModel(Lada) should miss")
	}
}

func TestLoadFileAndPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extra.json5")
	data := `// local overrides
[
  {make: "Audi", model: "TT RS", attributes: {Engine: "2.5 TFSI tuned", Power: "500 hp"}},
  {make: "Lada", model: "Niva", attributes: {Engine: "1.7 inline-4",}},
  {make: "", model: "ignored", attributes: {Engine: "x"}},
]`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	extra, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	kb := Default().WithEntries(extra)

	if got := kb.Lookup("audi", "tt rs")["Power"]; got != "500 hp" {
		t.Errorf("override Power = %q, want 500 hp", got)
	}
	if got := kb.Lookup("Lada", "Niva")["Engine"]; got != "1.7 inline-4" {
		t.Errorf("added entry Engine = %q", got)
	}
	if kb.Len() != len(builtin)+2 {
		t.Errorf("Len = %d, want %d", kb.Len(), len(builtin)+2)
	}
}

func TestLoadFileErrors(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.json5")); err == nil {
		t.Error("expected error for missing file")
	}
	bad := filepath.Join(t.TempDir(), "bad.json5")
	os.WriteFile(bad, []byte("{not an array"), 0o644)
	if _, err := LoadFile(bad); err == nil {
		t.Error("expected parse error")
	}
}

func upper(s string) string {
	out := []rune(s)
	for i, r := range out {
		if r >= 'a' && r <= 'z' {
			out[i] = r - 'a' + 'A'
		}
	}
	return string(out)
}
