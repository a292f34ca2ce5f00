package main

import (
	"fmt"
	"strings"
)

// ExprToSExpr renders an expression as an s-expression, for --ast only.
// Debug-only collaborator (spec.md §1); kept deliberately minimal.
func ExprToSExpr(e Expr) string {
	switch n := e.(type) {
	case *Literal:
		switch n.Kind {
		case LiteralInt:
			return fmt.Sprintf("(int %d)", n.Int)
		case LiteralFloat:
			return fmt.Sprintf("(float %g)", n.Float)
		case LiteralBool:
			return fmt.Sprintf("(bool %v)", n.Bool)
		case LiteralString:
			return fmt.Sprintf("(string %q)", n.Str)
		default:
			return "(null)"
		}
	case *Identifier:
		return fmt.Sprintf("(ident %s)", n.Name)
	case *Binary:
		return fmt.Sprintf("(binary %q %s %s)", string(n.Op), ExprToSExpr(n.Left), ExprToSExpr(n.Right))
	case *Unary:
		return fmt.Sprintf("(unary %q %s)", string(n.Op), ExprToSExpr(n.Operand))
	case *Logical:
		return fmt.Sprintf("(logical %q %s %s)", string(n.Op), ExprToSExpr(n.Left), ExprToSExpr(n.Right))
	case *Grouping:
		return fmt.Sprintf("(group %s)", ExprToSExpr(n.Inner))
	case *Call:
		parts := []string{"(call", ExprToSExpr(n.Callee)}
		for _, a := range n.Args {
			parts = append(parts, ExprToSExpr(a))
		}
		return strings.Join(parts, " ") + ")"
	case *Assign:
		return fmt.Sprintf("(assign %s %s)", n.Name, ExprToSExpr(n.Value))
	case *CompoundAssign:
		return fmt.Sprintf("(compound-assign %s %q %s)", n.Name, string(n.Op), ExprToSExpr(n.Value))
	case *Increment:
		return fmt.Sprintf("(incr %s %q prefix=%v)", n.Name, string(n.Op), n.IsPrefix)
	case *Index:
		return fmt.Sprintf("(idx %s %s)", ExprToSExpr(n.Object), ExprToSExpr(n.Idx))
	case *IndexAssign:
		return fmt.Sprintf("(idx-assign %s %s %s)", ExprToSExpr(n.Object), ExprToSExpr(n.Idx), ExprToSExpr(n.Value))
	case *ArrayLiteral:
		parts := []string{"(array"}
		for _, el := range n.Elements {
			parts = append(parts, ExprToSExpr(el))
		}
		return strings.Join(parts, " ") + ")"
	case *InterpolatedString:
		return fmt.Sprintf("(interp %q %q)", n.StringParts, n.ExprParts)
	default:
		return "(?)"
	}
}

// StmtToSExpr renders a statement as an s-expression.
func StmtToSExpr(s Stmt) string {
	switch n := s.(type) {
	case *VarDecl:
		return fmt.Sprintf("(var %s %s)", n.Name, ExprToSExpr(n.Initializer))
	case *Print:
		return fmt.Sprintf("(say %s)", ExprToSExpr(n.Expression))
	case *ExprStmt:
		return ExprToSExpr(n.Expression)
	case *Block:
		parts := []string{"(block"}
		for _, st := range n.Statements {
			parts = append(parts, StmtToSExpr(st))
		}
		return strings.Join(parts, " ") + ")"
	case *If:
		result := "(if " + ExprToSExpr(n.Condition) + " " + StmtToSExpr(n.Then)
		if n.Else != nil {
			result += " " + StmtToSExpr(n.Else)
		}
		return result + ")"
	case *While:
		return fmt.Sprintf("(while %s %s)", ExprToSExpr(n.Condition), StmtToSExpr(n.Body))
	case *For:
		init := "()"
		if n.Init != nil {
			init = StmtToSExpr(n.Init)
		}
		cond := "()"
		if n.Cond != nil {
			cond = ExprToSExpr(n.Cond)
		}
		incr := "()"
		if n.Incr != nil {
			incr = ExprToSExpr(n.Incr)
		}
		return fmt.Sprintf("(for %s %s %s %s)", init, cond, incr, StmtToSExpr(n.Body))
	case *FuncDef:
		return fmt.Sprintf("(func %s (%s) %s)", n.Name, strings.Join(n.Params, " "), StmtToSExpr(n.Body))
	case *Return:
		if n.Value == nil {
			return "(send)"
		}
		return fmt.Sprintf("(send %s)", ExprToSExpr(n.Value))
	case *Break:
		return "(mog)"
	case *Continue:
		return "(skip)"
	case *Switch:
		parts := []string{"(simp", ExprToSExpr(n.Expression)}
		for _, c := range n.Cases {
			if c.IsDefault {
				parts = append(parts, "(ghost "+StmtToSExpr(c.Body)+")")
			} else {
				parts = append(parts, "(stan "+ExprToSExpr(c.Value)+" "+StmtToSExpr(c.Body)+")")
			}
		}
		return strings.Join(parts, " ") + ")"
	case *TryCatch:
		return fmt.Sprintf("(yeet %s %s)", StmtToSExpr(n.TryBlock), StmtToSExpr(n.CatchBlock))
	default:
		return "(?)"
	}
}

// ProgramToSExpr renders a whole top-level statement sequence.
func ProgramToSExpr(program []Stmt) string {
	var b strings.Builder
	for _, s := range program {
		b.WriteString(StmtToSExpr(s))
		b.WriteByte('\n')
	}
	return b.String()
}
