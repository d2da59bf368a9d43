package docblock

import (
	"strings"
)

// Docblock is a parsed documentation comment. Text is the free text before the first tag.
type Docblock struct {
	Text string `json:"text,omitempty" yaml:"text,omitempty"`
	Tags []*Tag `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Tag is an annotation such as `@param int $x` or `@var:unittest`. Body is the text following the
// tag head, continued lines included.
type Tag struct {
	Name    string `json:"name" yaml:"name"`
	Subname string `json:"subname,omitempty" yaml:"subname,omitempty"`
	Body    string `json:"body,omitempty" yaml:"body,omitempty"`
}

// Summary returns the first sentence of the text: lines up to the first one ending with a period,
// or up to the first blank line.
func (d *Docblock) Summary() string {
	summary, _ := d.splitText()
	return summary
}

// Description returns the text following the summary.
func (d *Docblock) Description() string {
	_, desc := d.splitText()
	return desc
}

func (d *Docblock) splitText() (string, string) {
	if d.Text == "" {
		return "", ""
	}

	lines := strings.Split(d.Text, "\n")
	for i, l := range lines {
		l = strings.TrimSpace(l)
		if l == "" {
			return joinSummary(lines[:i]), strings.TrimSpace(strings.Join(lines[i+1:], "\n"))
		}
		if strings.HasSuffix(l, ".") {
			return joinSummary(lines[:i+1]), strings.TrimSpace(strings.Join(lines[i+1:], "\n"))
		}
	}
	return joinSummary(lines), ""
}

func joinSummary(lines []string) string {
	ls := make([]string, 0, len(lines))
	for _, l := range lines {
		ls = append(ls, strings.TrimSpace(l))
	}
	return strings.Join(ls, " ")
}

// Lookup returns the tags named `name` in the order they appear.
func (d *Docblock) Lookup(name string) []*Tag {
	var tags []*Tag
	for _, tag := range d.Tags {
		if tag.Name == name {
			tags = append(tags, tag)
		}
	}
	return tags
}

// line is the semantic value of one line of a docblock. A line holds a tag, text, or nothing.
type line struct {
	tag  *Tag
	text string
}

// newDocblock assembles lines. Text lines before the first tag form the text of the docblock, and
// text lines after a tag continue its body. Blank lines are kept inside them as paragraph breaks.
func newDocblock(lines []*line) *Docblock {
	doc := &Docblock{}
	var text []string
	var body []string
	var current *Tag
	flush := func() {
		if current == nil {
			return
		}
		current.Body = strings.TrimSpace(strings.Join(body, "\n"))
		body = nil
	}
	for _, l := range lines {
		if l.tag != nil {
			flush()
			current = l.tag
			if current.Body != "" {
				body = append(body, current.Body)
			}
			doc.Tags = append(doc.Tags, current)
			continue
		}
		if current != nil {
			body = append(body, l.text)
		} else {
			text = append(text, l.text)
		}
	}
	flush()
	doc.Text = strings.TrimSpace(strings.Join(text, "\n"))
	return doc
}
