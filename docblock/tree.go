package docblock

import (
	"fmt"
	"io"
)

type node struct {
	kindName string
	text     string
	children []*node
}

func (d *Docblock) tree() *node {
	root := &node{
		kindName: "docblock",
	}
	if d.Text != "" {
		root.children = append(root.children, &node{
			kindName: "text",
			text:     d.Text,
		})
	}
	for _, tag := range d.Tags {
		n := &node{
			kindName: "tag",
			text:     tag.Name,
		}
		if tag.Subname != "" {
			n.children = append(n.children, &node{
				kindName: "subname",
				text:     tag.Subname,
			})
		}
		if tag.Body != "" {
			n.children = append(n.children, &node{
				kindName: "body",
				text:     tag.Body,
			})
		}
		root.children = append(root.children, n)
	}
	return root
}

// PrintTree writes a docblock as a tree with ruled lines.
func PrintTree(w io.Writer, doc *Docblock) {
	if doc == nil {
		return
	}
	printTree(w, doc.tree(), "", "")
}

func printTree(w io.Writer, node *node, ruledLine string, childRuledLinePrefix string) {
	if node.text != "" {
		fmt.Fprintf(w, "%v%v %#v\n", ruledLine, node.kindName, node.text)
	} else {
		fmt.Fprintf(w, "%v%v\n", ruledLine, node.kindName)
	}

	num := len(node.children)
	for i, child := range node.children {
		var line string
		if num > 1 && i < num-1 {
			line = "├─ "
		} else {
			line = "└─ "
		}

		var prefix string
		if i >= num-1 {
			prefix = "   "
		} else {
			prefix = "│  "
		}

		printTree(w, child, childRuledLinePrefix+line, childRuledLinePrefix+prefix)
	}
}
