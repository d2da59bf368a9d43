package tester

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nihei9/docblock/docblock"
	"gopkg.in/yaml.v3"
)

// TestCase is a docblock comment and what parsing it must result in. Exactly one of Output and
// Error is set.
type TestCase struct {
	Description string             `yaml:"description"`
	Source      string             `yaml:"source"`
	Output      *docblock.Docblock `yaml:"output"`
	Error       string             `yaml:"error"`
}

// ParseTestCase reads a test case written in YAML.
func ParseTestCase(r io.Reader) (*TestCase, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	c := &TestCase{}
	err := dec.Decode(c)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("a test case is empty")
		}
		return nil, err
	}
	if c.Source == "" {
		return nil, fmt.Errorf("a test case needs a source")
	}
	if c.Output == nil && c.Error == "" {
		return nil, fmt.Errorf("a test case needs either output or error")
	}
	if c.Output != nil && c.Error != "" {
		return nil, fmt.Errorf("a test case cannot have both output and error")
	}
	return c, nil
}

type Diff struct {
	Path     string
	Expected string
	Actual   string
}

func (d *Diff) String() string {
	return fmt.Sprintf("%v: expected: %q, actual: %q", d.Path, d.Expected, d.Actual)
}

func diffDocblock(expected, actual *docblock.Docblock) []*Diff {
	var diffs []*Diff
	if expected.Text != actual.Text {
		diffs = append(diffs, &Diff{
			Path:     "text",
			Expected: expected.Text,
			Actual:   actual.Text,
		})
	}
	if len(expected.Tags) != len(actual.Tags) {
		return append(diffs, &Diff{
			Path:     "tags",
			Expected: fmt.Sprintf("%v tags", len(expected.Tags)),
			Actual:   fmt.Sprintf("%v tags", len(actual.Tags)),
		})
	}
	for i, eTag := range expected.Tags {
		aTag := actual.Tags[i]
		for _, f := range []struct {
			name     string
			expected string
			actual   string
		}{
			{"name", eTag.Name, aTag.Name},
			{"subname", eTag.Subname, aTag.Subname},
			{"body", eTag.Body, aTag.Body},
		} {
			if f.expected == f.actual {
				continue
			}
			diffs = append(diffs, &Diff{
				Path:     fmt.Sprintf("tags[%v].%v", i, f.name),
				Expected: f.expected,
				Actual:   f.actual,
			})
		}
	}
	return diffs
}

type TestResult struct {
	TestCasePath string
	Error        error
	Diffs        []*Diff
}

func (r *TestResult) String() string {
	if r.Error != nil {
		const indent1 = "    "
		const indent2 = indent1 + indent1

		msgLines := strings.Split(r.Error.Error(), "\n")
		msg := fmt.Sprintf("Failed %v:\n%v%v", r.TestCasePath, indent1, strings.Join(msgLines, "\n"+indent1))
		if len(r.Diffs) == 0 {
			return msg
		}
		var diffLines []string
		for _, diff := range r.Diffs {
			diffLines = append(diffLines, diff.String())
		}
		return fmt.Sprintf("%v\n%v%v", msg, indent2, strings.Join(diffLines, "\n"+indent2))
	}
	return fmt.Sprintf("Passed %v", r.TestCasePath)
}

type TestCaseWithMetadata struct {
	TestCase *TestCase
	FilePath string
	Error    error
}

// ListTestCases reads a test case file or, when `testPath` is a directory, all files under it.
func ListTestCases(testPath string) []*TestCaseWithMetadata {
	fi, err := os.Stat(testPath)
	if err != nil {
		return []*TestCaseWithMetadata{
			{
				FilePath: testPath,
				Error:    err,
			},
		}
	}
	if !fi.IsDir() {
		c, err := parseTestCase(testPath)
		return []*TestCaseWithMetadata{
			{
				TestCase: c,
				FilePath: testPath,
				Error:    err,
			},
		}
	}

	es, err := os.ReadDir(testPath)
	if err != nil {
		return []*TestCaseWithMetadata{
			{
				FilePath: testPath,
				Error:    err,
			},
		}
	}
	var cases []*TestCaseWithMetadata
	for _, e := range es {
		cs := ListTestCases(filepath.Join(testPath, e.Name()))
		cases = append(cases, cs...)
	}
	return cases
}

func parseTestCase(testCasePath string) (*TestCase, error) {
	f, err := os.Open(testCasePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseTestCase(f)
}

type Tester struct {
	Parser *docblock.Parser
	Cases  []*TestCaseWithMetadata
}

func (t *Tester) Run() []*TestResult {
	var rs []*TestResult
	for _, c := range t.Cases {
		rs = append(rs, runTest(t.Parser, c))
	}
	return rs
}

func runTest(p *docblock.Parser, c *TestCaseWithMetadata) *TestResult {
	doc, err := p.Parse(strings.NewReader(c.TestCase.Source))
	if c.TestCase.Error != "" {
		if err == nil {
			return &TestResult{
				TestCasePath: c.FilePath,
				Error:        fmt.Errorf("an expected error didn't occur: %v", c.TestCase.Error),
			}
		}
		if err.Error() != c.TestCase.Error {
			return &TestResult{
				TestCasePath: c.FilePath,
				Error:        fmt.Errorf("error mismatch"),
				Diffs: []*Diff{
					{
						Path:     "error",
						Expected: c.TestCase.Error,
						Actual:   err.Error(),
					},
				},
			}
		}
		return &TestResult{
			TestCasePath: c.FilePath,
		}
	}
	if err != nil {
		return &TestResult{
			TestCasePath: c.FilePath,
			Error:        err,
		}
	}

	diffs := diffDocblock(c.TestCase.Output, doc)
	if len(diffs) > 0 {
		return &TestResult{
			TestCasePath: c.FilePath,
			Error:        fmt.Errorf("output mismatch"),
			Diffs:        diffs,
		}
	}
	return &TestResult{
		TestCasePath: c.FilePath,
	}
}
