package store

import (
	"reflect"
	"testing"
)

func TestNormalizeList_AcceptsThreeForms(t *testing.T) {
	want := []string{"N2 Japanese", "2 years experience"}

	cases := []struct {
		name  string
		input any
	}{
		{"json array string", `["N2 Japanese","2 years experience"]`},
		{"csv string", "N2 Japanese, 2 years experience"},
		{"native array", []any{"N2 Japanese", "2 years experience"}},
		{"string slice", []string{"N2 Japanese", "2 years experience"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeList(tc.input)
			if !reflect.DeepEqual(got, want) {
				t.Fatalf("NormalizeList(%v) = %v, want %v", tc.input, got, want)
			}
		})
	}
}

func TestNormalizeList_DropsEmptyEntries(t *testing.T) {
	got := NormalizeList("  a , , b ,")
	want := []string{"a", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("NormalizeList = %v, want %v", got, want)
	}
}

func TestNormalizeList_Nil(t *testing.T) {
	if got := NormalizeList(nil); len(got) != 0 {
		t.Fatalf("NormalizeList(nil) = %v, want empty", got)
	}
}

func TestNormalizeList_MalformedJSONFallsBackToCSV(t *testing.T) {
	got := NormalizeList(`["unterminated`)
	if len(got) != 1 || got[0] != `["unterminated` {
		t.Fatalf("NormalizeList = %v, want single raw entry", got)
	}
}
