// Package toon converts a parsed Python syntax tree into TOON lines: a
// deterministic, one-line-per-declaration structural digest of a
// module's functions, methods, classes, and typed variables. The digest
// is meant for downstream context builders that want a dense overview
// of a file instead of its full source text.
//
// The package only reports syntactic shape. Type annotations are
// reproduced verbatim, never evaluated, and no symbol resolution is
// performed. Parsing is the caller's job; Summarize consumes a tree
// produced by tree-sitter-python.
package toon

import (
	"strings"
	"unicode/utf8"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Summary is the result of one traversal: the output lines in source
// order and the number of emitted declarations.
type Summary struct {
	Lines      []string
	ItemsFound int
}

// Text returns the digest as a newline-joined string.
func (s *Summary) Text() string {
	return strings.Join(s.Lines, "\n")
}

// scope identifies the kind of body currently being walked. The
// emission keyword for a callable depends on its immediately enclosing
// scope; typed declarations are only emitted at module or class scope.
type scope int

const (
	scopeModule scope = iota
	scopeClass
	scopeFunction
)

type walker struct {
	source  []byte
	emitter *Emitter
}

// Summarize walks a parsed module in a single depth-first pass and
// emits one TOON line per recognized declaration, in source order.
// Statement kinds it does not recognize are skipped silently. Each call
// owns fresh output state; the tree and source are read-only.
func Summarize(root *sitter.Node, source []byte) *Summary {
	w := &walker{source: source, emitter: NewEmitter()}
	w.walkBody(root, 0, scopeModule)
	return &Summary{Lines: w.emitter.Lines(), ItemsFound: w.emitter.Count()}
}

// walkBody dispatches every statement of a module, class, or function
// body at the given nesting depth.
func (w *walker) walkBody(body *sitter.Node, depth int, in scope) {
	for i := uint(0); i < body.NamedChildCount(); i++ {
		w.walkStatement(body.NamedChild(i), depth, in)
	}
}

func (w *walker) walkStatement(node *sitter.Node, depth int, in scope) {
	switch node.Kind() {
	case "decorated_definition":
		// Decorators never alter the emitted keyword or signature.
		if def := node.ChildByFieldName("definition"); def != nil {
			w.walkStatement(def, depth, in)
		}
	case "function_definition":
		w.emitFunction(node, depth, in)
	case "class_definition":
		w.emitClass(node, depth)
	case "expression_statement":
		if in != scopeFunction {
			w.maybeEmitTypedDeclaration(node, depth)
		}
	}
	// every other statement kind: no output, no counter increment
}

// emitFunction emits one line for a function definition, then recurses
// into its body one level deeper for nested definitions.
func (w *walker) emitFunction(node *sitter.Node, depth int, in scope) {
	name := text(node.ChildByFieldName("name"), w.source)
	args := formatParameters(node.ChildByFieldName("parameters"), w.source)

	line := indent(depth) + funcKeyword(node, in) + " " + name + "(" + args + ")" +
		returnSuffix(node, w.source) + ":"

	body := node.ChildByFieldName("body")
	if doc := docstringOf(body, w.source); doc != "" {
		// The budget is measured in characters, not bytes.
		line += ` "` + truncateDocstring(doc, utf8.RuneCountInString(line)+1) + `"`
	}
	w.emitter.Append(line)

	if body != nil {
		w.walkBody(body, depth+1, scopeFunction)
	}
}

// emitClass emits one line for a class definition, listing its base
// expressions verbatim, then walks the class body one level deeper.
func (w *walker) emitClass(node *sitter.Node, depth int) {
	name := text(node.ChildByFieldName("name"), w.source)

	bases := ""
	if sup := node.ChildByFieldName("superclasses"); sup != nil {
		// argument_list text, parentheses included
		bases = text(sup, w.source)
	}
	w.emitter.Append(indent(depth) + "CLS " + name + bases + ":")

	if body := node.ChildByFieldName("body"); body != nil {
		w.walkBody(body, depth+1, scopeClass)
	}
}

// maybeEmitTypedDeclaration emits a VAR line for an annotated
// assignment, or a bare annotation without initializer, at module or
// class scope. The initializer value is never rendered; assignments
// without an annotation are not declarations and produce nothing.
func (w *walker) maybeEmitTypedDeclaration(stmt *sitter.Node, depth int) {
	if stmt.NamedChildCount() == 0 {
		return
	}
	assign := stmt.NamedChild(0)
	if assign.Kind() != "assignment" {
		return
	}
	typ := assign.ChildByFieldName("type")
	if typ == nil {
		return
	}

	name := text(assign.ChildByFieldName("left"), w.source)
	w.emitter.Append(indent(depth) + "VAR " + name + ": " + text(typ, w.source))
}

// funcKeyword picks the emission keyword: FUNC at module (or nested
// function) level, MTHD directly inside a class body, with ASYNC_
// variants for async defs.
func funcKeyword(node *sitter.Node, in scope) string {
	async := node.ChildCount() > 0 && node.Child(0).Kind() == "async"
	if in == scopeClass {
		if async {
			return "ASYNC_MTHD"
		}
		return "MTHD"
	}
	if async {
		return "ASYNC_FUNC"
	}
	return "FUNC"
}

// indent renders two spaces per nesting level.
func indent(depth int) string {
	return strings.Repeat("  ", depth)
}

// text reproduces a node's original source span verbatim.
func text(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}
