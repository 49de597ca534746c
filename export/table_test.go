package export

import (
	"reflect"
	"testing"
)

func TestTable(t *testing.T) {
	s, p := testStore(t)

	got := Table(s, p, false)
	want := [][]string{
		{"key", "en-US", "pl-PL"},
		{"a.title", "Title", ""},
		{"b.greet", "Hello %s", "Witaj %s"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Table() = %#v, want %#v", got, want)
	}

	got = Table(s, p, true)
	want = [][]string{
		{"key", "en-US", "pl-PL"},
		{"a.title", "Title", ""},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Table(untranslated) = %#v, want %#v", got, want)
	}
}
