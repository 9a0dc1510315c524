// Package xml wraps antchfx/xmlquery for the few XML tasks of a collation
// run: selecting transcription text out of TEI exports and checking that a
// finished apparatus document is well-formed.
//
// Security: xmlquery parses with encoding/xml, which never fetches external
// entities. Validate additionally disables entity expansion.
package xml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/FocuswithJustin/JuniperCollate/core/errors"
)

// Document represents a parsed XML document.
type Document struct {
	root *xmlquery.Node
}

// Node represents an XML node.
type Node struct {
	node *xmlquery.Node
}

// ValidationResult contains the result of a well-formedness check.
type ValidationResult struct {
	Valid  bool
	Errors []ValidationError
}

// ValidationError represents a single well-formedness error.
type ValidationError struct {
	Line    int
	Column  int
	Message string
}

func (e ValidationError) String() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// Parse parses XML data and returns a Document.
func Parse(data []byte) (*Document, error) {
	root, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "parsing XML")
	}
	return &Document{root: root}, nil
}

// Validate checks that data is well-formed. It stops at the first error.
func Validate(data []byte) ValidationResult {
	result := ValidationResult{Valid: true}

	decoder := xml.NewDecoder(bytes.NewReader(data))
	// XXE Protection (CWE-611)
	decoder.Entity = map[string]string{}

	for {
		_, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			line, col := decoder.InputPos()
			result.Valid = false
			result.Errors = append(result.Errors, ValidationError{
				Line:    line,
				Column:  col,
				Message: err.Error(),
			})
			break
		}
	}

	return result
}

// Root returns the root element of the document.
func (d *Document) Root() *Node {
	if d.root == nil {
		return nil
	}
	for child := d.root.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode {
			return &Node{node: child}
		}
	}
	return nil
}

// XPath executes an XPath query and returns matching nodes.
func (d *Document) XPath(expr string) ([]*Node, error) {
	compiled, err := xpath.Compile(expr)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid xpath %q", expr)
	}

	nodes := xmlquery.QuerySelectorAll(d.root, compiled)
	result := make([]*Node, len(nodes))
	for i, n := range nodes {
		result[i] = &Node{node: n}
	}
	return result, nil
}

// XPathFirst executes an XPath query and returns the first matching node,
// or nil.
func (d *Document) XPathFirst(expr string) (*Node, error) {
	compiled, err := xpath.Compile(expr)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid xpath %q", expr)
	}
	node := xmlquery.QuerySelector(d.root, compiled)
	if node == nil {
		return nil, nil
	}
	return &Node{node: node}, nil
}

// Name returns the element name.
func (n *Node) Name() string {
	if n.node == nil {
		return ""
	}
	return n.node.Data
}

// Text returns the text content of the node and its descendants.
func (n *Node) Text() string {
	if n.node == nil {
		return ""
	}
	return n.node.InnerText()
}

// TextExcluding returns the text content of the node, skipping the
// subtrees of descendant elements whose local name is in skip.
func (n *Node) TextExcluding(skip ...string) string {
	if n.node == nil {
		return ""
	}
	if len(skip) == 0 {
		return n.node.InnerText()
	}
	excluded := make(map[string]bool, len(skip))
	for _, s := range skip {
		excluded[s] = true
	}
	var sb strings.Builder
	collectText(&sb, n.node, excluded)
	return sb.String()
}

func collectText(sb *strings.Builder, n *xmlquery.Node, skip map[string]bool) {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		switch child.Type {
		case xmlquery.TextNode, xmlquery.CharDataNode:
			sb.WriteString(child.Data)
		case xmlquery.ElementNode:
			if !skip[child.Data] {
				collectText(sb, child, skip)
			}
		}
	}
}

// Attr returns the value of a specific attribute.
func (n *Node) Attr(name string) string {
	if n.node == nil {
		return ""
	}
	return n.node.SelectAttr(name)
}
