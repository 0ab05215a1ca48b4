package toon

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// maxLineLength caps the total length of a composed output line. A
// docstring that would push a line past this is cut short with "...".
const maxLineLength = 100

// docstringOf returns the condensed docstring of a definition body, or
// "" when the body's first statement is not a bare string literal.
func docstringOf(body *sitter.Node, source []byte) string {
	if body == nil || body.NamedChildCount() == 0 {
		return ""
	}

	first := body.NamedChild(0)
	if first.Kind() != "expression_statement" || first.NamedChildCount() == 0 {
		return ""
	}

	str := first.NamedChild(0)
	if str.Kind() != "string" {
		return ""
	}

	return flattenDocstring(stringContent(str, source))
}

// stringContent extracts the literal content of a string node, without
// the surrounding quote tokens or any string prefix.
func stringContent(str *sitter.Node, source []byte) string {
	var sb strings.Builder
	for i := uint(0); i < str.NamedChildCount(); i++ {
		child := str.NamedChild(i)
		if child.Kind() == "string_content" {
			sb.Write(source[child.StartByte():child.EndByte()])
		}
	}
	return sb.String()
}

// flattenDocstring collapses every run of whitespace, including line
// breaks, into a single space. Section headers and underline rows
// ("Returns:", "----------") survive as plain tokens in the flattened
// stream.
func flattenDocstring(doc string) string {
	return strings.Join(strings.Fields(doc), " ")
}

// truncateDocstring fits doc onto a line whose non-docstring portion,
// including the opening space, is already prefixLen characters long. The
// two quote characters count against the budget too. When the docstring
// is cut, "..." replaces the remainder and the composed line is
// guaranteed to stay under maxLineLength. The cut is rune-safe.
func truncateDocstring(doc string, prefixLen int) string {
	avail := maxLineLength - prefixLen - len(`""`)
	runes := []rune(doc)
	if len(runes) <= avail {
		return doc
	}

	const ellipsis = "..."
	keep := avail - len(ellipsis) - 1
	if keep <= 0 {
		return ellipsis
	}
	return string(runes[:keep]) + ellipsis
}
