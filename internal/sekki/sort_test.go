package sekki

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/thinktide/seasons/internal/jsondoc"
)

func writeDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "content.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func readDoc(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(b)
}

func TestSortByDateExample(t *testing.T) {
	path := writeDoc(t, `{"sekki":[{"name":"Risshun","startDate":"2024-02-04"},{"name":"Shōkan","startDate":"2024-01-06"}]}`)

	if err := SortByDate(path); err != nil {
		t.Fatalf("SortByDate: %v", err)
	}

	want := `{
    "sekki": [
        {
            "name": "Shōkan",
            "startDate": "2024-01-06"
        },
        {
            "name": "Risshun",
            "startDate": "2024-02-04"
        }
    ]
}`
	if got := readDoc(t, path); got != want {
		t.Fatalf("output =\n%s\nwant\n%s", got, want)
	}
}

func TestSortByDateIsIdempotent(t *testing.T) {
	path := writeDoc(t, `{"title":"Small Seasons","sekki":[
		{"id":"c","startDate":"03-05"},
		{"id":"a","startDate":"01-05"},
		{"id":"b","startDate":"02-04","extra":{"k":[1,2]}}
	],"version":2}`)

	if err := SortByDate(path); err != nil {
		t.Fatalf("first run: %v", err)
	}
	once := readDoc(t, path)

	res, err := SortFile(path, Options{})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if twice := readDoc(t, path); twice != once {
		t.Fatalf("second run changed the file:\n%s\n---\n%s", once, twice)
	}
	if res.Changed || res.Moved != 0 {
		t.Fatalf("second run result = %+v, want unchanged", res)
	}
}

func TestSortByDateOrdersAnyPermutation(t *testing.T) {
	dates := []string{"2024-01-06", "2024-01-20", "2024-02-04", "2024-02-19", "2024-03-05", "2024-03-20", "2024-04-04"}
	rng := rand.New(rand.NewSource(7))

	for round := 0; round < 20; round++ {
		perm := rng.Perm(len(dates))
		items := make([]string, len(perm))
		for i, p := range perm {
			items[i] = fmt.Sprintf(`{"startDate":%q,"n":%d}`, dates[p], p)
		}
		path := writeDoc(t, `{"sekki":[`+strings.Join(items, ",")+`]}`)

		if err := SortByDate(path); err != nil {
			t.Fatalf("round %d: %v", round, err)
		}
		got, err := Load(path)
		if err != nil {
			t.Fatalf("round %d: Load: %v", round, err)
		}
		for i := range got {
			if got[i].StartDate != dates[i] {
				t.Fatalf("round %d: position %d = %s, want %s", round, i, got[i].StartDate, dates[i])
			}
		}
	}
}

func TestSortByDateIsStable(t *testing.T) {
	path := writeDoc(t, `{"sekki":[
		{"id":"late","startDate":"05-01"},
		{"id":"first","startDate":"01-01"},
		{"id":"second","startDate":"01-01"},
		{"id":"third","startDate":"01-01"}
	]}`)

	if err := SortByDate(path); err != nil {
		t.Fatalf("SortByDate: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	var ids []string
	for _, s := range got {
		ids = append(ids, s.ID)
	}
	if want := "first,second,third,late"; strings.Join(ids, ",") != want {
		t.Fatalf("order = %v, want %s", ids, want)
	}
}

func TestSortByDatePreservesFields(t *testing.T) {
	in := `{"meta":{"source":"guide","count":2.0},"sekki":[
		{"id":"b","startDate":"2024-02-04","tags":["x",null,true],"kanji":"立春"},
		{"startDate":"2024-01-06","id":"a","n":1e3}
	],"footer":"<end>"}`
	path := writeDoc(t, in)

	if err := SortByDate(path); err != nil {
		t.Fatalf("SortByDate: %v", err)
	}

	before, _ := jsondoc.Decode([]byte(in))
	after, err := jsondoc.Decode([]byte(readDoc(t, path)))
	if err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	b, a := before.(*jsondoc.Object), after.(*jsondoc.Object)
	if strings.Join(a.Keys(), ",") != "meta,sekki,footer" {
		t.Fatalf("top-level keys = %v", a.Keys())
	}
	for _, k := range []string{"meta", "footer"} {
		bv, _ := b.Get(k)
		av, _ := a.Get(k)
		if !jsondoc.Equal(bv, av) {
			t.Fatalf("%s changed", k)
		}
	}

	bl, _ := b.Get(ListKey)
	al, _ := a.Get(ListKey)
	bList, aList := bl.([]any), al.([]any)
	if !jsondoc.Equal(bList[0], aList[1]) || !jsondoc.Equal(bList[1], aList[0]) {
		t.Fatal("entry fields changed while sorting")
	}
	if keys := aList[1].(*jsondoc.Object).Keys(); strings.Join(keys, ",") != "id,startDate,tags,kanji" {
		t.Fatalf("entry key order = %v", keys)
	}
}

func TestSortByDateNumericKeys(t *testing.T) {
	path := writeDoc(t, `{"sekki":[{"startDate":10},{"startDate":9.5},{"startDate":-1},{"startDate":100}]}`)

	res, err := SortFile(path, Options{DryRun: true})
	if err != nil {
		t.Fatalf("SortFile: %v", err)
	}
	doc, _ := jsondoc.Decode(res.Output)
	list, _ := doc.(*jsondoc.Object).Get(ListKey)

	var got []string
	for _, item := range list.([]any) {
		v, _ := item.(*jsondoc.Object).Get(DateKey)
		got = append(got, fmt.Sprint(v))
	}
	if want := "-1,9.5,10,100"; strings.Join(got, ",") != want {
		t.Fatalf("order = %v, want %s", got, want)
	}
}

func TestSortByDateArrayKeys(t *testing.T) {
	path := writeDoc(t, `{"sekki":[
		{"id":"c","startDate":[2024,2,4]},
		{"id":"b","startDate":[2024,1,6]},
		{"id":"a","startDate":[2024,1]},
		{"id":"d","startDate":[2024,2,4,null]}
	]}`)

	if err := SortByDate(path); err != nil {
		t.Fatalf("SortByDate: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	var ids []string
	for _, s := range got {
		ids = append(ids, s.ID)
	}
	if want := "a,b,c,d"; strings.Join(ids, ",") != want {
		t.Fatalf("order = %v, want %s", ids, want)
	}
}

func TestSortFileDryRunLeavesFile(t *testing.T) {
	in := `{"sekki":[{"startDate":"b"},{"startDate":"a"}]}`
	path := writeDoc(t, in)

	res, err := SortFile(path, Options{DryRun: true})
	if err != nil {
		t.Fatalf("SortFile: %v", err)
	}
	if !res.Changed || res.Moved != 2 || res.Entries != 2 {
		t.Fatalf("result = %+v", res)
	}
	if got := readDoc(t, path); got != in {
		t.Fatalf("dry run modified file: %s", got)
	}
}

func TestSortByDateErrors(t *testing.T) {
	cases := []struct {
		name    string
		content string
		kind    ErrorKind
		target  error
	}{
		{"malformed", `{"sekki":[`, KindParse, ErrParse},
		{"empty file", ``, KindParse, ErrParse},
		{"invalid utf-8", "{\"sekki\":[{\"startDate\":\"b\",\"n\":\"\xff\xfe\"},{\"startDate\":\"a\"}]}", KindParse, ErrParse},
		{"root array", `[{"startDate":"a"}]`, KindSchema, ErrSchema},
		{"missing sekki", `{"seasons":[]}`, KindSchema, ErrSchema},
		{"sekki not array", `{"sekki":{"startDate":"a"}}`, KindSchema, ErrSchema},
		{"entry not object", `{"sekki":[{"startDate":"a"},"b"]}`, KindSchema, ErrSchema},
		{"missing startDate", `{"sekki":[{"startDate":"a"},{"name":"b"}]}`, KindSchema, ErrSchema},
		{"single entry missing startDate", `{"sekki":[{"name":"b"}]}`, KindSchema, ErrSchema},
		{"mixed types", `{"sekki":[{"startDate":"a"},{"startDate":1}]}`, KindSchema, ErrSchema},
		{"null dates", `{"sekki":[{"startDate":null},{"startDate":null}]}`, KindSchema, ErrSchema},
		{"object dates", `{"sekki":[{"startDate":{}},{"startDate":{}}]}`, KindSchema, ErrSchema},
		{"array against string", `{"sekki":[{"startDate":[2024,1]},{"startDate":"2024-01"}]}`, KindSchema, ErrSchema},
		{"array elements mismatch", `{"sekki":[{"startDate":[2024,"a"]},{"startDate":[2024,1]}]}`, KindSchema, ErrSchema},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeDoc(t, tc.content)

			err := SortByDate(path)
			if err == nil {
				t.Fatal("SortByDate succeeded, want error")
			}
			var se *Error
			if !errors.As(err, &se) {
				t.Fatalf("error %T is not *Error: %v", err, err)
			}
			if se.Kind != tc.kind || !errors.Is(err, tc.target) {
				t.Fatalf("error = %v (kind %d), want kind %d", err, se.Kind, tc.kind)
			}
			if got := readDoc(t, path); got != tc.content {
				t.Fatalf("file modified on error: %q", got)
			}
		})
	}
}

func TestSortByDateSingleValueNeedsNoOrdering(t *testing.T) {
	path := writeDoc(t, `{"sekki":[{"startDate":null}]}`)
	if err := SortByDate(path); err != nil {
		t.Fatalf("SortByDate: %v", err)
	}
}

func TestSortByDateEmptyList(t *testing.T) {
	path := writeDoc(t, `{"sekki":[]}`)
	if err := SortByDate(path); err != nil {
		t.Fatalf("SortByDate: %v", err)
	}
	if got, want := readDoc(t, path), "{\n    \"sekki\": []\n}"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestSortByDateNotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")

	err := SortByDate(path)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("error %v does not unwrap to os.ErrNotExist", err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Fatal("missing file was created")
	}
}

func TestSortByDateWriteError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "content.json")
	in := `{"sekki":[{"startDate":"b"},{"startDate":"a"}]}`
	if err := os.WriteFile(path, []byte(in), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(dir, 0o555); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	// Root can write into read-only directories.
	if f, err := os.CreateTemp(dir, "writable"); err == nil {
		f.Close()
		os.Remove(f.Name())
		t.Skip("directory permissions are not enforced")
	}

	err := SortByDate(path)
	if !errors.Is(err, ErrWrite) {
		t.Fatalf("error = %v, want ErrWrite", err)
	}
	if got := readDoc(t, path); got != in {
		t.Fatalf("original file changed after failed write: %q", got)
	}
}

func TestSortByDateKeepsPermissions(t *testing.T) {
	path := writeDoc(t, `{"sekki":[{"startDate":"b"},{"startDate":"a"}]}`)
	if err := os.Chmod(path, 0o600); err != nil {
		t.Fatal(err)
	}
	if err := SortByDate(path); err != nil {
		t.Fatalf("SortByDate: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("mode = %o, want 600", perm)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Fatalf("leftover files in directory: %d entries", len(entries))
	}
}

func TestErrorMessageNamesStage(t *testing.T) {
	err := newError(KindSchema, "content.json", errors.New(`missing "sekki" key`))
	if got := err.Error(); !strings.HasPrefix(got, "validate content.json:") {
		t.Fatalf("Error() = %q", got)
	}
}
