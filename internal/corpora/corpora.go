// Package corpora provides a mechanism for managing test corpora: a
// collection of files on disk that define compiler test cases, each with
// golden files recording the expected outputs.
package corpora

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pmezard/go-difflib/difflib"
)

// A Corpus describes a test data corpus: table-driven tests where the
// "table" is in the file system. Each file under Root with the configured
// Extension is one test case; for each element of Outputs, the case's
// expected value lives next to it in a file with an extra extension.
type Corpus struct {
	// The root of the test data directory, relative to the file that calls
	// [Corpus.Run].
	Root string

	// An environment variable to check with regards to whether to run in
	// "refresh" mode or not. In refresh mode, golden files for test cases
	// matching the variable's glob value are rewritten with the actual
	// outputs (and the run is failed, so refreshed goldens are never
	// silently trusted).
	Refresh string

	// The file extension (without a dot) of files which define a test
	// case, e.g. "yaml".
	Extension string

	// The outputs of the test. A missing golden file is treated as
	// expecting the empty string.
	Outputs []Output

	// Run executes the test on one test case from the corpus. Returns a
	// slice of strings corresponding to the elements of Outputs.
	Test func(t *testing.T, path, text string) []string
}

// Output describes one output of a test case. For a case "foo.yaml" and an
// Extension of "js", the golden file is "foo.yaml.js".
type Output struct {
	Extension string
}

func (c Corpus) Run(t *testing.T) {
	testDir := callerDir(0)
	root := filepath.Join(testDir, c.Root)

	var tests []string
	err := filepath.Walk(root, func(p string, fi fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !fi.IsDir() && strings.TrimPrefix(path.Ext(p), ".") == c.Extension {
			tests = append(tests, p)
		}
		return nil
	})
	if err != nil {
		t.Fatal("corpora: error while walking testdata FS:", err)
	}

	var refresh string
	if c.Refresh != "" {
		refresh = os.Getenv(c.Refresh)
	}
	if refresh != "" {
		if !doublestar.ValidatePattern(refresh) {
			t.Fatalf("corpora: invalid glob in %s: %q", c.Refresh, refresh)
		}
		t.Logf("corpora: refreshing test data because %s=%s", c.Refresh, refresh)
		t.Fail()
	}

	for _, tc := range tests {
		name, _ := filepath.Rel(testDir, tc)
		t.Run(name, func(t *testing.T) {
			text, err := os.ReadFile(tc)
			if err != nil {
				t.Fatalf("corpora: error while loading input file %q: %v", tc, err)
			}

			results := c.Test(t, name, string(text))
			if len(results) != len(c.Outputs) {
				t.Fatalf("corpora: test returned %d outputs, want %d", len(results), len(c.Outputs))
			}

			doRefresh, _ := doublestar.Match(refresh, name)
			for i, output := range c.Outputs {
				golden := fmt.Sprint(tc, ".", output.Extension)
				if doRefresh {
					c.refreshGolden(t, golden, results[i])
					continue
				}

				want, err := os.ReadFile(golden)
				if err != nil && !errors.Is(err, os.ErrNotExist) {
					t.Errorf("corpora: error while loading output file %q: %v", golden, err)
					continue
				}
				if diff := diffStrings(results[i], string(want)); diff != "" {
					t.Errorf("output mismatch for %q:\n%s", golden, diff)
				}
			}
		})
	}
}

func (c Corpus) refreshGolden(t *testing.T, golden, text string) {
	if text == "" {
		err := os.Remove(golden)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			t.Errorf("corpora: error while deleting output file %q: %v", golden, err)
		}
		return
	}
	if err := os.WriteFile(golden, []byte(text), 0o660); err != nil {
		t.Errorf("corpora: error while writing output file %q: %v", golden, err)
	}
}

// diffStrings returns a unified diff between got and want, or the empty
// string if they are equal.
func diffStrings(got, want string) string {
	if got == want {
		return ""
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  2,
	})
	if err != nil {
		return err.Error()
	}
	return diff
}

func callerDir(skip int) string {
	_, file, _, ok := runtime.Caller(skip + 2)
	if !ok {
		panic("corpora: could not determine test file's directory")
	}
	return filepath.Dir(file)
}
