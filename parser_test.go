package main

import (
	"testing"

	"github.com/nalgeon/be"
)

func parseAll(src string) ([]Stmt, *Reporter) {
	r := NewReporter()
	toks := NewLexer(src, "<test>", r).Lex()
	program := NewParser(toks, r).Parse()
	return program, r
}

func TestVarDeclWithLiteral(t *testing.T) {
	program, r := parseAll("fr x = 5")
	be.True(t, !(r.HadError()))
	be.Equal(t, len(program), 1)
	decl, ok := program[0].(*VarDecl)
	be.True(t, ok)
	be.Equal(t, decl.Name, "x")
	lit, ok := decl.Initializer.(*Literal)
	be.True(t, ok)
	be.Equal(t, lit.Int, int64(5))
}

func TestBinaryPrecedenceMultiplicationOverAddition(t *testing.T) {
	program, r := parseAll("say 1 + 2 * 3")
	be.True(t, !(r.HadError()))
	print := program[0].(*Print)
	add := print.Expression.(*Binary)
	be.Equal(t, add.Op, PLUS)
	_, rightIsMul := add.Right.(*Binary)
	be.True(t, rightIsMul)
	_, leftIsLit := add.Left.(*Literal)
	be.True(t, leftIsLit)
}

func TestBinaryPrecedenceComparisonOverLogical(t *testing.T) {
	program, r := parseAll("say 1 < 2 && 3 < 4")
	be.True(t, !(r.HadError()))
	print := program[0].(*Print)
	logical := print.Expression.(*Logical)
	be.Equal(t, logical.Op, AND_AND)
	_, leftIsCmp := logical.Left.(*Binary)
	be.True(t, leftIsCmp)
	_, rightIsCmp := logical.Right.(*Binary)
	be.True(t, rightIsCmp)
}

func TestOrHasLowerPrecedenceThanAnd(t *testing.T) {
	program, r := parseAll("say ongod || cap && cap")
	be.True(t, !(r.HadError()))
	print := program[0].(*Print)
	or := print.Expression.(*Logical)
	be.Equal(t, or.Op, OR_OR)
	rightAnd, ok := or.Right.(*Logical)
	be.True(t, ok)
	be.Equal(t, rightAnd.Op, AND_AND)
}

func TestUnaryBindsTighterThanBinary(t *testing.T) {
	program, r := parseAll("say -1 + 2")
	be.True(t, !(r.HadError()))
	print := program[0].(*Print)
	add := print.Expression.(*Binary)
	be.Equal(t, add.Op, PLUS)
	_, leftIsUnary := add.Left.(*Unary)
	be.True(t, leftIsUnary)
}

func TestIfElseIfElseChain(t *testing.T) {
	program, r := parseAll(`
		lowkey (1) { say 1 }
		midkey (2) { say 2 }
		highkey { say 3 }
	`)
	be.True(t, !(r.HadError()))
	ifStmt := program[0].(*If)
	elseIf, ok := ifStmt.Else.(*If)
	be.True(t, ok)
	_, elseBlockOk := elseIf.Else.(*Block)
	be.True(t, elseBlockOk)
}

func TestForLoopWithAllClauses(t *testing.T) {
	program, r := parseAll("edge (fr i = 1, i <= 5, i = i + 1) { say i }")
	be.True(t, !(r.HadError()))
	forStmt := program[0].(*For)
	_, initIsVarDecl := forStmt.Init.(*VarDecl)
	be.True(t, initIsVarDecl)
	be.True(t, forStmt.Cond != nil)
	be.True(t, forStmt.Incr != nil)
}

func TestForLoopWithEmptyClauses(t *testing.T) {
	program, r := parseAll("edge (,,) { say 1 }")
	be.True(t, !(r.HadError()))
	forStmt := program[0].(*For)
	be.True(t, forStmt.Init == nil)
	be.True(t, forStmt.Cond == nil)
	be.True(t, forStmt.Incr == nil)
}

func TestIndexAssignmentTarget(t *testing.T) {
	program, r := parseAll("a[0] = 1")
	be.True(t, !(r.HadError()))
	_, ok := program[0].(*ExprStmt).Expression.(*IndexAssign)
	be.True(t, ok)
}

func TestInvalidAssignmentTargetIsParseError(t *testing.T) {
	_, r := parseAll("1 = 2")
	be.True(t, r.HadError())
}

func TestMissingExpressionAfterEqualsIsParseError(t *testing.T) {
	_, r := parseAll("fr x =")
	be.True(t, r.HadError())
}

func TestSwitchWithDefault(t *testing.T) {
	program, r := parseAll(`
		simp (x) {
			stan 1: { say 1 }
			ghost: { say 0 }
		}
	`)
	be.True(t, !(r.HadError()))
	sw := program[0].(*Switch)
	be.Equal(t, len(sw.Cases), 2)
	be.True(t, sw.Cases[1].IsDefault)
}

func TestTryCatch(t *testing.T) {
	program, r := parseAll("yeet { say 1 } caught { say 2 }")
	be.True(t, !(r.HadError()))
	_, ok := program[0].(*TryCatch)
	be.True(t, ok)
}

func TestInterpolationSplitsStringAndExprParts(t *testing.T) {
	program, r := parseAll(`say "hi {name}, you are {age}"`)
	be.True(t, !(r.HadError()))
	print := program[0].(*Print)
	interp := print.Expression.(*InterpolatedString)
	be.Equal(t, len(interp.StringParts), len(interp.ExprParts)+1)
	be.Equal(t, interp.ExprParts, []string{"name", "age"})
}

func TestSynchronizeRecoversAtNextStatementKeyword(t *testing.T) {
	program, r := parseAll("fr x =\nsay 1")
	be.True(t, r.HadError())
	// The malformed declaration is dropped, but the next statement
	// still parses after panic-mode recovery.
	be.Equal(t, len(program), 1)
	_, ok := program[0].(*Print)
	be.True(t, ok)
}

func TestBreakAtTopLevelParsesSyntactically(t *testing.T) {
	// break/continue are syntactically legal anywhere; contextual
	// legality is an IR-generation concern (spec.md §3).
	program, r := parseAll("mog")
	be.True(t, !(r.HadError()))
	_, ok := program[0].(*Break)
	be.True(t, ok)
}
