// Package parser produces the syntax trees the toon package consumes.
// It wraps tree-sitter with the Python grammar; the digest core defines
// no grammar of its own.
package parser

import (
	"context"
	"fmt"
	"os"

	sitter "github.com/tree-sitter/go-tree-sitter"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

// PythonParser parses Python source into tree-sitter syntax trees.
type PythonParser struct {
	language *sitter.Language
}

// NewPythonParser creates a new Python parser.
func NewPythonParser() *PythonParser {
	return &PythonParser{language: sitter.NewLanguage(python.Language())}
}

// Parse parses source and returns the syntax tree. The caller owns the
// tree and must Close it.
func (p *PythonParser) Parse(ctx context.Context, source []byte) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	defer parser.Close()

	parser.SetLanguage(p.language)

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse python source")
	}
	return tree, nil
}

// ParseFile reads and parses a Python source file, returning the tree
// together with the source bytes the tree's spans refer to.
func (p *PythonParser) ParseFile(ctx context.Context, filePath string) (*sitter.Tree, []byte, error) {
	source, err := os.ReadFile(filePath)
	if err != nil {
		return nil, nil, err
	}

	tree, err := p.Parse(ctx, source)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", filePath, err)
	}
	return tree, source, nil
}
