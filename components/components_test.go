package components

import "testing"

func TestParseSpecies(t *testing.T) {
	tests := []struct {
		name string
		want Species
		ok   bool
	}{
		{"erbast", Erbast, true},
		{"carviz", Carviz, true},
		{"vegetob", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseSpecies(tt.name)
			if ok != tt.ok || (ok && got != tt.want) {
				t.Errorf("ParseSpecies(%q) = %v, %v; want %v, %v", tt.name, got, ok, tt.want, tt.ok)
			}
			if ok && got.String() != tt.name {
				t.Errorf("String() = %q, want %q", got.String(), tt.name)
			}
		})
	}
}

func TestActivityBusy(t *testing.T) {
	if (Activity{}).Busy() {
		t.Error("zero activity should not be busy")
	}
	if !(Activity{Newborn: true}).Busy() {
		t.Error("newborn should be busy")
	}
	if !(Activity{Doomed: true}).Busy() {
		t.Error("doomed should be busy")
	}
	if (Activity{Moved: true, Fought: true}).Busy() {
		t.Error("moved and fought alone should not be busy")
	}
}
