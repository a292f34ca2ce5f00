// Command extract_examples walks docs/examples.md and regenerates
// examples_generated_test.go, one TestExample_<Name> function per "Test: "
// section, grounded directly on strager-Zong/sexy/testcase.go's
// goldmark-based walk of "Test: " headings and fenced code blocks —
// adapted from that package's full Sexy-assertion DSL down to the two
// fence kinds this repo actually needs (source, and expected stdout).
package main

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// example is one literate scenario extracted from docs/examples.md.
type example struct {
	Name     string
	Source   string
	Expected string
}

func extractExamples(markdown []byte) ([]example, error) {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(markdown))

	var examples []example
	var current *example

	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			heading := textOf(node, markdown)
			if strings.HasPrefix(heading, "Test: ") {
				if current != nil {
					examples = append(examples, *current)
				}
				current = &example{Name: strings.TrimPrefix(heading, "Test: ")}
			}

		case *ast.FencedCodeBlock:
			if current == nil {
				return ast.WalkContinue, nil
			}
			lang := string(node.Language(markdown))
			content := codeBlockContent(node, markdown)
			switch lang {
			case "sigma":
				current.Source = strings.TrimRight(content, "\n")
			case "execute":
				current.Expected = strings.TrimRight(content, "\n")
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking examples.md: %w", err)
	}
	if current != nil {
		examples = append(examples, *current)
	}
	return examples, nil
}

func textOf(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	ast.Walk(n, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if t, ok := child.(*ast.Text); ok {
				buf.Write(t.Segment.Value(source))
			}
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func codeBlockContent(block *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	for i := 0; i < block.Lines().Len(); i++ {
		line := block.Lines().At(i)
		buf.Write(line.Value(source))
	}
	return buf.String()
}

// testIdent turns a literate name like "array literal and index
// assignment" into a Go identifier suffix: ArrayLiteralAndIndexAssignment.
func testIdent(name string) string {
	var b strings.Builder
	capNext := true
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if capNext {
				r = unicode.ToUpper(r)
				capNext = false
			}
			b.WriteRune(r)
		} else {
			capNext = true
		}
	}
	return b.String()
}

func generateTestFile(examples []example) string {
	var b strings.Builder
	b.WriteString("// Code generated by scripts/extract_examples.go from docs/examples.md; DO NOT EDIT.\n")
	b.WriteString("//go:generate go run ./scripts/extract_examples.go docs/examples.md examples_generated_test.go\n\n")
	b.WriteString("package main\n\n")
	b.WriteString("import (\n\t\"strings\"\n\t\"testing\"\n\n\t\"github.com/nalgeon/be\"\n)\n\n")
	for _, ex := range examples {
		fmt.Fprintf(&b, "func TestExample_%s(t *testing.T) {\n", testIdent(ex.Name))
		fmt.Fprintf(&b, "\tgot := runExample(t, %s)\n", strconv.Quote(ex.Source))
		fmt.Fprintf(&b, "\tbe.Equal(t, strings.TrimRight(got, \"\\n\"), %s)\n", strconv.Quote(ex.Expected))
		b.WriteString("}\n\n")
	}
	return b.String()
}

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, "usage: extract_examples <docs/examples.md> <examples_generated_test.go>")
		os.Exit(1)
	}
	markdown, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading %s: %v\n", os.Args[1], err)
		os.Exit(1)
	}

	examples, err := extractExamples(markdown)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(os.Args[2], []byte(generateTestFile(examples)), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "error writing %s: %v\n", os.Args[2], err)
		os.Exit(1)
	}
}
