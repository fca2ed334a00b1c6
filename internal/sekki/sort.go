// Package sekki sorts the sekki list of a content document by start date and
// resolves which sekki is in effect on a given day.
package sekki

import (
	"bytes"
	"cmp"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/thinktide/seasons/internal/jsondoc"
)

const (
	// ListKey is the top-level key holding the sekki entries.
	ListKey = "sekki"
	// DateKey is the entry field the list is ordered by.
	DateKey = "startDate"
	// Indent is the per-level indentation of a written document.
	Indent = "    "
)

type Options struct {
	// DryRun sorts in memory and fills Result.Output without touching the file.
	DryRun bool
}

type Result struct {
	Entries int
	// Moved counts entries whose position changed.
	Moved int
	// Changed reports whether the serialized output differs from the file's
	// previous bytes.
	Changed bool
	Output  []byte
}

// SortByDate rewrites the document at path with its sekki list ordered by
// startDate. Any failure is an *Error; nothing is written unless the document
// was read, parsed and validated successfully.
func SortByDate(path string) error {
	_, err := SortFile(path, Options{})
	return err
}

// SortFile is SortByDate with options and a report of what changed.
func SortFile(path string, opts Options) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newError(KindNotFound, path, err)
	}

	doc, err := jsondoc.Decode(data)
	if err != nil {
		return nil, newError(KindParse, path, err)
	}

	list, err := entries(path, doc)
	if err != nil {
		return nil, err
	}

	moved, err := sortEntries(path, list)
	if err != nil {
		return nil, err
	}

	out, err := jsondoc.Encode(doc, Indent)
	if err != nil {
		return nil, newError(KindWrite, path, err)
	}

	res := &Result{
		Entries: len(list),
		Moved:   moved,
		Changed: !bytes.Equal(out, data),
		Output:  out,
	}
	if opts.DryRun {
		return res, nil
	}

	if err := replaceFile(path, out); err != nil {
		return nil, newError(KindWrite, path, err)
	}
	return res, nil
}

// entries returns the sekki array of doc after checking the document shape.
func entries(path string, doc any) ([]any, error) {
	root, ok := doc.(*jsondoc.Object)
	if !ok {
		return nil, schemaErrorf(path, "document root is %s, want object", typeName(doc))
	}
	raw, ok := root.Get(ListKey)
	if !ok {
		return nil, schemaErrorf(path, "missing %q key", ListKey)
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, schemaErrorf(path, "%q is %s, want array", ListKey, typeName(raw))
	}
	return list, nil
}

// sortEntries stable-sorts list in place by each element's startDate and
// returns how many elements moved.
func sortEntries(path string, list []any) (int, error) {
	keys := make([]any, len(list))
	for i, item := range list {
		obj, ok := item.(*jsondoc.Object)
		if !ok {
			return 0, schemaErrorf(path, "%s[%d] is %s, want object", ListKey, i, typeName(item))
		}
		v, ok := obj.Get(DateKey)
		if !ok {
			return 0, schemaErrorf(path, "%s[%d] has no %q field", ListKey, i, DateKey)
		}
		keys[i] = v
	}

	var cmpErr error
	order := make([]int, len(list))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		if cmpErr != nil {
			return 0
		}
		c, err := compareKeys(keys[a], keys[b])
		if err != nil {
			cmpErr = err
			return 0
		}
		return c
	})
	if cmpErr != nil {
		return 0, schemaErrorf(path, "%q values are not mutually comparable: %v", DateKey, cmpErr)
	}

	sorted := make([]any, len(list))
	moved := 0
	for i, j := range order {
		sorted[i] = list[j]
		if i != j {
			moved++
		}
	}
	copy(list, sorted)
	return moved, nil
}

// compareKeys orders two startDate values. Strings order lexically; numbers
// and booleans order numerically with false < true; arrays order
// element-wise, a shorter prefix first. Any other pairing is an error. Values
// are only checked when compared, so a single entry never fails here.
func compareKeys(a, b any) (int, error) {
	switch x := a.(type) {
	case string:
		y, ok := b.(string)
		if !ok {
			return 0, fmt.Errorf("cannot order string against %s", typeName(b))
		}
		return strings.Compare(x, y), nil

	case []any:
		y, ok := b.([]any)
		if !ok {
			return 0, fmt.Errorf("cannot order array against %s", typeName(b))
		}
		for i := 0; i < len(x) && i < len(y); i++ {
			if sameValue(x[i], y[i]) {
				continue
			}
			return compareKeys(x[i], y[i])
		}
		return cmp.Compare(len(x), len(y)), nil
	}

	xf, err := number(a)
	if err != nil {
		return 0, err
	}
	yf, err := number(b)
	if err != nil {
		return 0, fmt.Errorf("cannot order number against %s", typeName(b))
	}
	return xf.Cmp(yf), nil
}

// sameValue reports equality the way array elements are matched before
// ordering: numerically for numbers and booleans, deeply otherwise.
func sameValue(a, b any) bool {
	if x, err := number(a); err == nil {
		if y, err := number(b); err == nil {
			return x.Cmp(y) == 0
		}
		return false
	}
	return jsondoc.Equal(a, b)
}

func number(v any) (*big.Float, error) {
	switch t := v.(type) {
	case bool:
		if t {
			return big.NewFloat(1), nil
		}
		return big.NewFloat(0), nil
	case json.Number:
		f, ok := new(big.Float).SetPrec(256).SetString(t.String())
		if !ok {
			return nil, fmt.Errorf("invalid number %q", t)
		}
		return f, nil
	}
	return nil, fmt.Errorf("%s values are not orderable", typeName(v))
}

func typeName(v any) string {
	switch v.(type) {
	case *jsondoc.Object:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case json.Number:
		return "number"
	case bool:
		return "boolean"
	case nil:
		return "null"
	}
	return fmt.Sprintf("%T", v)
}

// replaceFile writes data to a temporary file next to path and renames it
// over path, so a failed write never leaves a truncated document behind.
// Symlinks are followed and the target's permissions are kept.
func replaceFile(path string, data []byte) (err error) {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}

	perm := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}
