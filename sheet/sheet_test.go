package sheet

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestOpenPicksSource(t *testing.T) {
	tests := []struct {
		location string
		want     any
	}{
		{"strings.xlsx", &XLSX{}},
		{"Strings.XLSM", &XLSX{}},
		{"strings.csv", &CSV{}},
		{"gsheet:abc123", &GoogleSheet{}},
	}

	for _, tc := range tests {
		src, err := Open(tc.location, Options{})
		if err != nil {
			t.Fatalf("Open(%q) error: %v", tc.location, err)
		}
		if reflect.TypeOf(src) != reflect.TypeOf(tc.want) {
			t.Fatalf("Open(%q) = %T, want %T", tc.location, src, tc.want)
		}
	}

	for _, bad := range []string{"strings.ods", "gsheet:", "noext"} {
		if _, err := Open(bad, Options{}); !errors.Is(err, ErrUnsupportedSource) {
			t.Fatalf("Open(%q) error = %v, want ErrUnsupportedSource", bad, err)
		}
	}
}

func TestOpenPassesOptions(t *testing.T) {
	src, err := Open("gsheet:id42", Options{Sheet: "Main", APIKey: "k"})
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	g := src.(*GoogleSheet)
	if g.SpreadsheetID != "id42" || g.Sheet != "Main" || g.APIKey != "k" || g.Ctx == nil {
		t.Fatalf("GoogleSheet = %+v", g)
	}
}

func TestRowsCopies(t *testing.T) {
	r := Rows{{"key", "en"}, {"a", "A"}}
	got, _ := r.Rows()
	got[1][1] = "changed"
	if r[1][1] != "A" {
		t.Fatal("Rows() should return a copy")
	}
}

func TestReadCSV(t *testing.T) {
	data := "\xEF\xBB\xBFkey,en-US,de-DE\napp.a,  indented value,Hallo \napp.b,\"Say \"\"hi\"\"\"\napp.c\n"
	rows, err := ReadCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ReadCSV() error: %v", err)
	}
	want := [][]string{
		{"key", "en-US", "de-DE"},
		{"app.a", "  indented value", "Hallo "},
		{"app.b", `Say "hi"`},
		{"app.c"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("ReadCSV() = %#v, want %#v", rows, want)
	}
}

func TestCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.csv")
	if err := os.WriteFile(path, []byte("key,en\nk1,v1\n"), 0644); err != nil {
		t.Fatalf("os.WriteFile() error: %v", err)
	}
	rows, err := (&CSV{Path: path}).Rows()
	if err != nil {
		t.Fatalf("Rows() error: %v", err)
	}
	if len(rows) != 2 || rows[1][1] != "v1" {
		t.Fatalf("Rows() = %v", rows)
	}

	if _, err := (&CSV{Path: filepath.Join(t.TempDir(), "missing.csv")}).Rows(); err == nil {
		t.Fatal("missing CSV should fail")
	}
}

func TestXLSXRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	rows := [][]string{
		{"key", "en-US", "pl-PL"},
		{"app.title", "Hello", "Witaj"},
		{"app.empty", "Only English"},
	}
	if err := WriteXLSX(path, "TestProject", rows); err != nil {
		t.Fatalf("WriteXLSX() error: %v", err)
	}

	got, err := (&XLSX{Path: path}).Rows()
	if err != nil {
		t.Fatalf("Rows() error: %v", err)
	}
	if !reflect.DeepEqual(got, rows) {
		t.Fatalf("Rows() = %#v, want %#v", got, rows)
	}

	named, err := (&XLSX{Path: path, Sheet: "TestProject"}).Rows()
	if err != nil || len(named) != 3 {
		t.Fatalf("Rows(named sheet) = %v, %v", named, err)
	}
	if _, err := (&XLSX{Path: path, Sheet: "Nope"}).Rows(); err == nil {
		t.Fatal("unknown worksheet should fail")
	}
}

func TestStringifyValues(t *testing.T) {
	got := stringifyValues([][]interface{}{{"key", "en"}, {"n", 3.5}, {"x", nil}})
	want := [][]string{{"key", "en"}, {"n", "3.5"}, {"x", ""}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("stringifyValues() = %#v, want %#v", got, want)
	}
}

func TestGoogleSheetRequiresAuth(t *testing.T) {
	if _, err := (&GoogleSheet{SpreadsheetID: "id"}).Rows(); err == nil {
		t.Fatal("Rows() without credentials should fail")
	}
}
