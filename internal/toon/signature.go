package toon

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// formatParameters renders a parameters node into the comma-joined args
// substring, without the surrounding parentheses.
//
// Each parameter renders as name:Type with the annotation text
// reproduced verbatim, or name:? when unannotated. Defaults append
// =Default using the default expression's literal text. The
// positional-only boundary renders as a bare "/". The bare keyword-only
// "*" separator is intentionally not rendered; keyword-only parameters
// follow the others unmarked.
func formatParameters(params *sitter.Node, source []byte) string {
	if params == nil {
		return ""
	}

	var parts []string
	for i := uint(0); i < params.NamedChildCount(); i++ {
		p := params.NamedChild(i)
		switch p.Kind() {
		case "identifier", "list_splat_pattern", "dictionary_splat_pattern":
			parts = append(parts, text(p, source)+":?")
		case "typed_parameter":
			// First named child is the pattern (identifier or splat),
			// the "type" field holds the annotation.
			name := text(p.NamedChild(0), source)
			parts = append(parts, name+":"+text(p.ChildByFieldName("type"), source))
		case "default_parameter":
			name := text(p.ChildByFieldName("name"), source)
			value := text(p.ChildByFieldName("value"), source)
			parts = append(parts, name+":?="+value)
		case "typed_default_parameter":
			name := text(p.ChildByFieldName("name"), source)
			typ := text(p.ChildByFieldName("type"), source)
			value := text(p.ChildByFieldName("value"), source)
			parts = append(parts, name+":"+typ+"="+value)
		case "positional_separator":
			parts = append(parts, "/")
		case "keyword_separator":
			// bare "*" is dropped
		}
	}

	return strings.Join(parts, ",")
}

// returnSuffix renders " -> Type" for a callable's return annotation,
// verbatim, or "" when there is none.
func returnSuffix(fn *sitter.Node, source []byte) string {
	ret := fn.ChildByFieldName("return_type")
	if ret == nil {
		return ""
	}
	return " -> " + text(ret, source)
}
