package docblock

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestDocblock_Summary(t *testing.T) {
	tests := []struct {
		text        string
		summary     string
		description string
	}{
		{
			text: "",
		},
		{
			text:    "Adds numbers",
			summary: "Adds numbers",
		},
		{
			text:        "Adds numbers.\nThe result is exact.",
			summary:     "Adds numbers.",
			description: "The result is exact.",
		},
		{
			text:        "Adds numbers\nof any size.\n\nThe result is exact.",
			summary:     "Adds numbers of any size.",
			description: "The result is exact.",
		},
		{
			text:        "Adds numbers\n\nThe result is exact.\n\nReally.",
			summary:     "Adds numbers",
			description: "The result is exact.\n\nReally.",
		},
		{
			text:    "Adds 1.5 and 2",
			summary: "Adds 1.5 and 2",
		},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("#%v", i), func(t *testing.T) {
			doc := &Docblock{
				Text: tt.text,
			}
			if s := doc.Summary(); s != tt.summary {
				t.Errorf("unexpected summary\nwant: %q\ngot: %q", tt.summary, s)
			}
			if d := doc.Description(); d != tt.description {
				t.Errorf("unexpected description\nwant: %q\ngot: %q", tt.description, d)
			}
		})
	}
}

func TestDocblock_Lookup(t *testing.T) {
	doc, err := Parse("/**\n * @param int $a\n * @return int\n * @param int $b\n */")
	if err != nil {
		t.Fatal(err)
	}
	params := doc.Lookup("param")
	if len(params) != 2 || params[0].Body != "int $a" || params[1].Body != "int $b" {
		t.Fatalf("unexpected tags: %+v", params)
	}
	if tags := doc.Lookup("throws"); len(tags) != 0 {
		t.Fatalf("unexpected tags: %+v", tags)
	}
}

func TestDocblock_Marshal(t *testing.T) {
	doc := &Docblock{
		Tags: []*Tag{
			{Name: "var", Subname: "unittest"},
		},
	}

	j, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	if string(j) != `{"tags":[{"name":"var","subname":"unittest"}]}` {
		t.Errorf("unexpected JSON: %s", j)
	}

	y, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	expectedYAML := `tags:
    - name: var
      subname: unittest
`
	if string(y) != expectedYAML {
		t.Errorf("unexpected YAML\nwant:\n%v\ngot:\n%v", expectedYAML, string(y))
	}
}

func TestPrintTree(t *testing.T) {
	doc := &Docblock{
		Text: "Adds numbers.",
		Tags: []*Tag{
			{Name: "param", Body: "int $a"},
			{Name: "var", Subname: "unittest", Body: "int"},
			{Name: "deprecated"},
		},
	}

	var b strings.Builder
	PrintTree(&b, doc)
	expected := `docblock
├─ text "Adds numbers."
├─ tag "param"
│  └─ body "int $a"
├─ tag "var"
│  ├─ subname "unittest"
│  └─ body "int"
└─ tag "deprecated"
`
	if b.String() != expected {
		t.Fatalf("unexpected tree\nwant:\n%v\ngot:\n%v", expected, b.String())
	}

	b.Reset()
	PrintTree(&b, &Docblock{})
	if b.String() != "docblock\n" {
		t.Fatalf("unexpected tree of an empty docblock: %q", b.String())
	}
}
