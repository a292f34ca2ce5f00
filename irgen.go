package main

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// CodeGen walks the AST once to predeclare every function symbol and
// once more to emit instructions (spec §4.3). It builds a real
// *ir.Module using github.com/llir/llvm instead of hand-assembling
// text, the one deliberate departure from the teacher's hand-rolled
// WASM byte encoder (DESIGN.md explains why).
type CodeGen struct {
	module   *ir.Module
	reporter *Reporter

	scopes *scopeStack
	loops  *loopStack

	funcs map[string]*ir.Func

	stringCache map[string]*constant.ExprGetElementPtr

	printfFunc *ir.Func
	mainFunc   *ir.Func

	curFunc  *ir.Func
	curBlock *ir.Block
	curEntry *ir.Block

	blockCounter int
}

// sigmaValue is an expression's lowered value paired with its
// physical kind, needed to pick %g vs %s at print sites and to decide
// whether an assignment must rebind its cell (spec §4.3).
type sigmaValue struct {
	V    value.Value
	Kind VariableKind
}

func NewCodeGen(reporter *Reporter) *CodeGen {
	return &CodeGen{
		reporter:    reporter,
		scopes:      newScopeStack(),
		loops:       &loopStack{},
		funcs:       map[string]*ir.Func{},
		stringCache: map[string]*constant.ExprGetElementPtr{},
	}
}

// Generate lowers the top-level statement sequence to an *ir.Module,
// returning nil if any error was recorded during generation (spec
// §4.3: "emitted only if no error occurred").
func (cg *CodeGen) Generate(program []Stmt) *ir.Module {
	cg.module = ir.NewModule()

	cg.printfFunc = cg.module.NewFunc("printf", types.I32, ir.NewParam("", types.NewPointer(types.I8)))
	cg.printfFunc.Sig.Variadic = true

	cg.predeclareFunctions(program)

	cg.mainFunc = cg.module.NewFunc("main", types.I32)
	entry := cg.mainFunc.NewBlock("entry")
	cg.curFunc = cg.mainFunc
	cg.curBlock = entry
	cg.curEntry = entry

	for _, stmt := range program {
		cg.genStmt(stmt)
	}
	cg.emitImplicitReturn()
	cg.verifyFunction(cg.mainFunc)

	if cg.reporter.HadError() {
		return nil
	}
	return cg.module
}

// predeclareFunctions is pass 1: every top-level FuncDef gets an
// external symbol with N double parameters and a double return type,
// with no body, so forward and backward calls both resolve.
func (cg *CodeGen) predeclareFunctions(program []Stmt) {
	for _, stmt := range program {
		fd, ok := stmt.(*FuncDef)
		if !ok {
			continue
		}
		params := make([]*ir.Param, len(fd.Params))
		for i, name := range fd.Params {
			params[i] = ir.NewParam(name, types.Double)
		}
		cg.funcs[fd.Name] = cg.module.NewFunc(fd.Name, types.Double, params...)
	}
}

func (cg *CodeGen) newBlock(name string) *ir.Block {
	cg.blockCounter++
	return cg.curFunc.NewBlock(fmt.Sprintf("%s%d", name, cg.blockCounter))
}

func (cg *CodeGen) line(tok Token) int { return tok.Loc.Line }

func (cg *CodeGen) terminated() bool { return cg.curBlock.Term != nil }

func (cg *CodeGen) emitImplicitReturn() {
	if cg.terminated() {
		return
	}
	if cg.curFunc == cg.mainFunc {
		cg.curBlock.NewRet(constant.NewInt(types.I32, 0))
	} else {
		cg.curBlock.NewRet(constant.NewFloat(types.Double, 0))
	}
}

// verifyFunction is the lightweight stand-in for spec §4.3's "Verify
// the function; any verifier failure is a generator error" — see
// DESIGN.md for why a pure-Go IR builder cannot call a real LLVM
// verifier, and why "every block has a terminator" is the property
// this repo checks instead.
func (cg *CodeGen) verifyFunction(fn *ir.Func) {
	for _, b := range fn.Blocks {
		if b.Term == nil {
			cg.reporter.SemanticError(0, fmt.Sprintf("function %s: basic block %s has no terminator", fn.Name(), b.Name()))
		}
	}
}

// ---- statements ----

func (cg *CodeGen) genStmt(s Stmt) {
	switch n := s.(type) {
	case *VarDecl:
		cg.genVarDecl(n)
	case *Print:
		cg.genPrint(n)
	case *ExprStmt:
		cg.genExpr(n.Expression)
	case *Block:
		cg.scopes.push()
		for _, st := range n.Statements {
			if cg.terminated() {
				break
			}
			cg.genStmt(st)
		}
		cg.scopes.pop()
	case *If:
		cg.genIf(n)
	case *While:
		cg.genWhile(n)
	case *For:
		cg.genFor(n)
	case *FuncDef:
		cg.genFuncDef(n)
	case *Return:
		cg.genReturn(n)
	case *Break:
		cg.genBreak(n)
	case *Continue:
		cg.genContinue(n)
	case *Switch:
		cg.genSwitch(n)
	case *TryCatch:
		cg.genTryCatch(n)
	default:
		cg.reporter.SemanticError(0, fmt.Sprintf("codegen: unhandled statement %T", n))
	}
}

func (cg *CodeGen) genVarDecl(n *VarDecl) {
	val := cg.genExpr(n.Initializer)

	// genArrayLiteral already allocated and populated its own cell;
	// binding must reuse that cell rather than allocate a second,
	// empty one.
	if val.Kind == KindArray {
		cell, ok := val.V.(*ir.InstAlloca)
		if !ok {
			cg.reporter.SemanticError(cg.line(n.Tok), "internal error: array value is not a cell")
			return
		}
		cg.scopes.define(n.Name, &VariableInfo{Cell: cell, Kind: KindArray, ArrayLen: arrayLenOf(n.Initializer)})
		return
	}

	cell := cg.allocateCell(val.Kind, 0)
	cg.curBlock.NewStore(val.V, cell)
	cg.scopes.define(n.Name, &VariableInfo{Cell: cell, Kind: val.Kind})
}

func arrayLenOf(e Expr) int {
	if lit, ok := e.(*ArrayLiteral); ok {
		return len(lit.Elements)
	}
	return 0
}

// allocateCell allocates a stack cell of the physical type matching
// kind in the current function's entry block, per spec §4.3.
func (cg *CodeGen) allocateCell(kind VariableKind, arrayLen int) *ir.InstAlloca {
	switch kind {
	case KindString:
		return cg.curEntry.NewAlloca(types.NewPointer(types.I8))
	case KindArray:
		return cg.curEntry.NewAlloca(types.NewArray(uint64(arrayLen), types.Double))
	default:
		return cg.curEntry.NewAlloca(types.Double)
	}
}

func (cg *CodeGen) genPrint(n *Print) {
	if interp, ok := n.Expression.(*InterpolatedString); ok {
		cg.genInterpolatedPrint(interp)
		return
	}
	val := cg.genExpr(n.Expression)
	var format string
	if val.Kind == KindString {
		format = "%s\n"
	} else {
		format = "%g\n"
	}
	fmtPtr := cg.getOrCreateString(format)
	cg.curBlock.NewCall(cg.printfFunc, fmtPtr, val.V)
}

func (cg *CodeGen) genInterpolatedPrint(n *InterpolatedString) {
	format := n.StringParts[0]
	var args []value.Value
	for i, name := range n.ExprParts {
		info, ok := cg.scopes.lookup(name)
		if !ok {
			cg.reporter.SemanticError(cg.line(n.Tok), "unknown variable in interpolation: "+name)
			continue
		}
		if info.Kind == KindString {
			format += "%s"
			args = append(args, cg.curBlock.NewLoad(types.NewPointer(types.I8), info.Cell))
		} else {
			format += "%g"
			args = append(args, cg.curBlock.NewLoad(types.Double, info.Cell))
		}
		format += n.StringParts[i+1]
	}
	format += "\n"
	fmtPtr := cg.getOrCreateString(format)
	callArgs := append([]value.Value{fmtPtr}, args...)
	cg.curBlock.NewCall(cg.printfFunc, callArgs...)
}

func (cg *CodeGen) genIf(n *If) {
	thenBlock := cg.newBlock("if.then")
	mergeBlock := cg.newBlock("if.merge")
	var elseBlock *ir.Block
	if n.Else != nil {
		elseBlock = cg.newBlock("if.else")
	}

	cond := cg.toBool(cg.genExpr(n.Condition).V)
	if elseBlock != nil {
		cg.curBlock.NewCondBr(cond, thenBlock, elseBlock)
	} else {
		cg.curBlock.NewCondBr(cond, thenBlock, mergeBlock)
	}

	cg.curBlock = thenBlock
	cg.genStmt(n.Then)
	if !cg.terminated() {
		cg.curBlock.NewBr(mergeBlock)
	}

	if n.Else != nil {
		cg.curBlock = elseBlock
		cg.genStmt(n.Else)
		if !cg.terminated() {
			cg.curBlock.NewBr(mergeBlock)
		}
	}

	cg.curBlock = mergeBlock
}

func (cg *CodeGen) genWhile(n *While) {
	condBlock := cg.newBlock("while.cond")
	bodyBlock := cg.newBlock("while.body")
	afterBlock := cg.newBlock("while.after")

	cg.curBlock.NewBr(condBlock)

	cg.curBlock = condBlock
	cond := cg.toBool(cg.genExpr(n.Condition).V)
	cg.curBlock.NewCondBr(cond, bodyBlock, afterBlock)

	cg.loops.push(loopFrame{continueTarget: condBlock, breakTarget: afterBlock})
	cg.curBlock = bodyBlock
	cg.genStmt(n.Body)
	if !cg.terminated() {
		cg.curBlock.NewBr(condBlock)
	}
	cg.loops.pop()

	cg.curBlock = afterBlock
}

func (cg *CodeGen) genFor(n *For) {
	cg.scopes.push()
	if n.Init != nil {
		cg.genStmt(n.Init)
	}

	condBlock := cg.newBlock("for.cond")
	bodyBlock := cg.newBlock("for.body")
	incrBlock := cg.newBlock("for.incr")
	afterBlock := cg.newBlock("for.after")

	cg.curBlock.NewBr(condBlock)

	cg.curBlock = condBlock
	if n.Cond != nil {
		cond := cg.toBool(cg.genExpr(n.Cond).V)
		cg.curBlock.NewCondBr(cond, bodyBlock, afterBlock)
	} else {
		cg.curBlock.NewBr(bodyBlock)
	}

	cg.loops.push(loopFrame{continueTarget: incrBlock, breakTarget: afterBlock})
	cg.curBlock = bodyBlock
	cg.genStmt(n.Body)
	if !cg.terminated() {
		cg.curBlock.NewBr(incrBlock)
	}

	cg.curBlock = incrBlock
	if n.Incr != nil {
		cg.genExpr(n.Incr)
	}
	if !cg.terminated() {
		cg.curBlock.NewBr(condBlock)
	}
	cg.loops.pop()

	cg.curBlock = afterBlock
	cg.scopes.pop()
}

func (cg *CodeGen) genBreak(n *Break) {
	lf, ok := cg.loops.top()
	if !ok {
		cg.reporter.SemanticError(cg.line(n.Tok), "break outside of loop")
		return
	}
	cg.curBlock.NewBr(lf.breakTarget)
}

func (cg *CodeGen) genContinue(n *Continue) {
	lf, ok := cg.loops.top()
	if !ok {
		cg.reporter.SemanticError(cg.line(n.Tok), "continue outside of loop")
		return
	}
	cg.curBlock.NewBr(lf.continueTarget)
}

func (cg *CodeGen) genSwitch(n *Switch) {
	mergeBlock := cg.newBlock("switch.merge")

	if len(n.Cases) == 0 {
		cg.curBlock.NewBr(mergeBlock)
		cg.curBlock = mergeBlock
		return
	}

	switchVal := cg.genExpr(n.Expression).V
	curCheck := cg.curBlock

	var defaultCase *SwitchCase
	for i := range n.Cases {
		c := &n.Cases[i]
		if c.IsDefault {
			defaultCase = c
			continue
		}
		caseVal := cg.genExpr(c.Value).V
		caseBlock := cg.newBlock("switch.case")
		nextCheck := cg.newBlock("switch.next")

		cmp := curCheck.NewFCmp(enum.FPredOEQ, switchVal, caseVal)
		curCheck.NewCondBr(cmp, caseBlock, nextCheck)

		cg.curBlock = caseBlock
		cg.genStmt(c.Body)
		if !cg.terminated() {
			cg.curBlock.NewBr(mergeBlock)
		}

		curCheck = nextCheck
	}

	cg.curBlock = curCheck
	if defaultCase != nil {
		cg.genStmt(defaultCase.Body)
	}
	if !cg.terminated() {
		cg.curBlock.NewBr(mergeBlock)
	}

	cg.curBlock = mergeBlock
}

// genTryCatch only wires the try block to the merge point; the catch
// block is emitted but left structurally unreachable, matching
// original_source/src/codegen/CodeGen.cpp's generateTryCatch exactly
// (spec §4.3, §9).
func (cg *CodeGen) genTryCatch(n *TryCatch) {
	mergeBlock := cg.newBlock("try.merge")

	cg.genStmt(n.TryBlock)
	if !cg.terminated() {
		cg.curBlock.NewBr(mergeBlock)
	}

	unreachable := cg.newBlock("catch.unreachable")
	cg.curBlock = unreachable
	cg.genStmt(n.CatchBlock)
	if !cg.terminated() {
		cg.curBlock.NewBr(mergeBlock)
	}

	cg.curBlock = mergeBlock
}

func (cg *CodeGen) genFuncDef(n *FuncDef) {
	fn, ok := cg.funcs[n.Name]
	if !ok {
		cg.reporter.SemanticError(cg.line(n.Tok), "internal error: function not predeclared: "+n.Name)
		return
	}

	prevFunc, prevBlock, prevEntry := cg.curFunc, cg.curBlock, cg.curEntry
	prevScopes, prevLoops := cg.scopes, cg.loops

	entry := fn.NewBlock("entry")
	cg.curFunc = fn
	cg.curBlock = entry
	cg.curEntry = entry
	cg.scopes = newScopeStack()
	cg.loops = &loopStack{}

	for i, param := range fn.Params {
		cell := cg.curEntry.NewAlloca(types.Double)
		cg.curBlock.NewStore(param, cell)
		cg.scopes.define(n.Params[i], &VariableInfo{Cell: cell, Kind: KindNumber})
	}

	cg.genStmt(n.Body)
	cg.emitImplicitReturn()
	cg.verifyFunction(fn)

	cg.curFunc, cg.curBlock, cg.curEntry = prevFunc, prevBlock, prevEntry
	cg.scopes, cg.loops = prevScopes, prevLoops
}

func (cg *CodeGen) genReturn(n *Return) {
	if n.Value == nil {
		cg.curBlock.NewRet(cg.returnZero())
		return
	}
	val := cg.genExpr(n.Value)
	cg.curBlock.NewRet(val.V)
}

func (cg *CodeGen) returnZero() value.Value {
	if cg.curFunc == cg.mainFunc {
		return constant.NewInt(types.I32, 0)
	}
	return constant.NewFloat(types.Double, 0)
}

// ---- expressions ----

func (cg *CodeGen) genExpr(e Expr) sigmaValue {
	switch n := e.(type) {
	case *Literal:
		return cg.genLiteral(n)
	case *Identifier:
		return cg.genIdentifier(n)
	case *Binary:
		return cg.genBinary(n)
	case *Unary:
		return cg.genUnary(n)
	case *Logical:
		return cg.genLogical(n)
	case *Grouping:
		return cg.genExpr(n.Inner)
	case *Call:
		return cg.genCall(n)
	case *Assign:
		return cg.genAssign(n)
	case *CompoundAssign:
		return cg.genCompoundAssign(n)
	case *Increment:
		return cg.genIncrement(n)
	case *Index:
		return cg.genIndex(n)
	case *IndexAssign:
		return cg.genIndexAssign(n)
	case *ArrayLiteral:
		return cg.genArrayLiteral(n)
	case *InterpolatedString:
		// A bare interpolated string used as a value (not directly
		// printed) lowers to its formatted pointer.
		return cg.genInterpolatedValue(n)
	default:
		cg.reporter.SemanticError(0, fmt.Sprintf("codegen: unhandled expression %T", n))
		return sigmaValue{V: constant.NewFloat(types.Double, 0), Kind: KindNumber}
	}
}

func (cg *CodeGen) genLiteral(n *Literal) sigmaValue {
	switch n.Kind {
	case LiteralInt:
		return sigmaValue{V: constant.NewFloat(types.Double, float64(n.Int)), Kind: KindNumber}
	case LiteralFloat:
		return sigmaValue{V: constant.NewFloat(types.Double, n.Float), Kind: KindNumber}
	case LiteralBool:
		if n.Bool {
			return sigmaValue{V: constant.NewFloat(types.Double, 1), Kind: KindNumber}
		}
		return sigmaValue{V: constant.NewFloat(types.Double, 0), Kind: KindNumber}
	case LiteralNull:
		return sigmaValue{V: constant.NewFloat(types.Double, 0), Kind: KindNumber}
	case LiteralString:
		return sigmaValue{V: cg.getOrCreateString(n.Str), Kind: KindString}
	}
	return sigmaValue{V: constant.NewFloat(types.Double, 0), Kind: KindNumber}
}

func (cg *CodeGen) genIdentifier(n *Identifier) sigmaValue {
	info, ok := cg.scopes.lookup(n.Name)
	if !ok {
		cg.reporter.SemanticError(cg.line(n.Tok), "unknown variable: "+n.Name)
		return sigmaValue{V: constant.NewFloat(types.Double, 0), Kind: KindNumber}
	}
	switch info.Kind {
	case KindString:
		return sigmaValue{V: cg.curBlock.NewLoad(types.NewPointer(types.I8), info.Cell), Kind: KindString}
	case KindArray:
		cg.reporter.SemanticError(cg.line(n.Tok), "array variable used as a value: "+n.Name)
		return sigmaValue{V: constant.NewFloat(types.Double, 0), Kind: KindNumber}
	default:
		return sigmaValue{V: cg.curBlock.NewLoad(types.Double, info.Cell), Kind: KindNumber}
	}
}

func (cg *CodeGen) toBool(v value.Value) value.Value {
	return cg.curBlock.NewFCmp(enum.FPredONE, v, constant.NewFloat(types.Double, 0))
}

func (cg *CodeGen) boolToDouble(b value.Value) value.Value {
	return cg.curBlock.NewUIToFP(b, types.Double)
}

func (cg *CodeGen) toInt(v value.Value) value.Value {
	return cg.curBlock.NewFPToSI(v, types.I64)
}

func (cg *CodeGen) fromInt(v value.Value) value.Value {
	return cg.curBlock.NewSIToFP(v, types.Double)
}

var fcmpPredicates = map[TokenType]enum.FPred{
	EQ:  enum.FPredOEQ,
	NEQ: enum.FPredONE,
	LT:  enum.FPredOLT,
	GT:  enum.FPredOGT,
	LEQ: enum.FPredOLE,
	GEQ: enum.FPredOGE,
}

func (cg *CodeGen) genBinary(n *Binary) sigmaValue {
	left := cg.genExpr(n.Left)
	right := cg.genExpr(n.Right)

	if left.Kind == KindString || right.Kind == KindString {
		cg.reporter.SemanticError(cg.line(n.Tok), "operator "+string(n.Op)+" does not apply to string operands")
		return sigmaValue{V: constant.NewFloat(types.Double, 0), Kind: KindNumber}
	}

	switch n.Op {
	case PLUS:
		return sigmaValue{V: cg.curBlock.NewFAdd(left.V, right.V), Kind: KindNumber}
	case MINUS:
		return sigmaValue{V: cg.curBlock.NewFSub(left.V, right.V), Kind: KindNumber}
	case STAR:
		return sigmaValue{V: cg.curBlock.NewFMul(left.V, right.V), Kind: KindNumber}
	case SLASH:
		return sigmaValue{V: cg.curBlock.NewFDiv(left.V, right.V), Kind: KindNumber}
	case PERCENT:
		return sigmaValue{V: cg.curBlock.NewFRem(left.V, right.V), Kind: KindNumber}
	case EQ, NEQ, LT, GT, LEQ, GEQ:
		cmp := cg.curBlock.NewFCmp(fcmpPredicates[n.Op], left.V, right.V)
		return sigmaValue{V: cg.boolToDouble(cmp), Kind: KindNumber}
	case AMP:
		return sigmaValue{V: cg.fromInt(cg.curBlock.NewAnd(cg.toInt(left.V), cg.toInt(right.V))), Kind: KindNumber}
	case PIPE:
		return sigmaValue{V: cg.fromInt(cg.curBlock.NewOr(cg.toInt(left.V), cg.toInt(right.V))), Kind: KindNumber}
	case CARET:
		return sigmaValue{V: cg.fromInt(cg.curBlock.NewXor(cg.toInt(left.V), cg.toInt(right.V))), Kind: KindNumber}
	case SHL:
		return sigmaValue{V: cg.fromInt(cg.curBlock.NewShl(cg.toInt(left.V), cg.toInt(right.V))), Kind: KindNumber}
	case SHR:
		return sigmaValue{V: cg.fromInt(cg.curBlock.NewAShr(cg.toInt(left.V), cg.toInt(right.V))), Kind: KindNumber}
	default:
		cg.reporter.SemanticError(cg.line(n.Tok), "unknown binary operator: "+string(n.Op))
		return sigmaValue{V: constant.NewFloat(types.Double, 0), Kind: KindNumber}
	}
}

func (cg *CodeGen) genUnary(n *Unary) sigmaValue {
	operand := cg.genExpr(n.Operand)
	switch n.Op {
	case MINUS:
		return sigmaValue{V: cg.curBlock.NewFNeg(operand.V), Kind: KindNumber}
	case BANG:
		truthy := cg.toBool(operand.V)
		falsy := cg.curBlock.NewXor(truthy, constant.NewInt(types.I1, 1))
		return sigmaValue{V: cg.boolToDouble(falsy), Kind: KindNumber}
	case TILDE:
		inv := cg.curBlock.NewXor(cg.toInt(operand.V), constant.NewInt(types.I64, -1))
		return sigmaValue{V: cg.fromInt(inv), Kind: KindNumber}
	default:
		cg.reporter.SemanticError(cg.line(n.Tok), "unknown unary operator: "+string(n.Op))
		return operand
	}
}

// genLogical implements short-circuit || and &&. The incoming block
// for the RHS phi edge is re-read immediately before building the phi
// (cg.curBlock after RHS emission), never the block captured before
// RHS emission — RHS evaluation can itself split blocks, and using a
// stale predecessor produces invalid SSA (spec §4.3, §9).
func (cg *CodeGen) genLogical(n *Logical) sigmaValue {
	left := cg.genExpr(n.Left)
	leftBool := cg.toBool(left.V)
	entryBlock := cg.curBlock

	rhsBlock := cg.newBlock("logical.rhs")
	mergeBlock := cg.newBlock("logical.merge")

	if n.Op == OR_OR {
		cg.curBlock.NewCondBr(leftBool, mergeBlock, rhsBlock)
	} else {
		cg.curBlock.NewCondBr(leftBool, rhsBlock, mergeBlock)
	}

	cg.curBlock = rhsBlock
	right := cg.genExpr(n.Right)
	rightBool := cg.boolToDouble(cg.toBool(right.V))
	rhsEndBlock := cg.curBlock
	cg.curBlock.NewBr(mergeBlock)

	cg.curBlock = mergeBlock
	var shortCircuitVal value.Value
	if n.Op == OR_OR {
		shortCircuitVal = constant.NewFloat(types.Double, 1)
	} else {
		shortCircuitVal = constant.NewFloat(types.Double, 0)
	}
	phi := cg.curBlock.NewPhi(
		ir.NewIncoming(shortCircuitVal, entryBlock),
		ir.NewIncoming(rightBool, rhsEndBlock),
	)
	return sigmaValue{V: phi, Kind: KindNumber}
}

func (cg *CodeGen) genCall(n *Call) sigmaValue {
	ident, ok := n.Callee.(*Identifier)
	if !ok {
		cg.reporter.SemanticError(cg.line(n.Tok), "call target must be a function name")
		return sigmaValue{V: constant.NewFloat(types.Double, 0), Kind: KindNumber}
	}
	fn, ok := cg.funcs[ident.Name]
	if !ok {
		cg.reporter.SemanticError(cg.line(n.Tok), "unknown function: "+ident.Name)
		return sigmaValue{V: constant.NewFloat(types.Double, 0), Kind: KindNumber}
	}
	if len(n.Args) != len(fn.Params) {
		cg.reporter.SemanticError(cg.line(n.Tok), fmt.Sprintf("wrong argument count calling %s: expected %d, got %d", ident.Name, len(fn.Params), len(n.Args)))
		return sigmaValue{V: constant.NewFloat(types.Double, 0), Kind: KindNumber}
	}
	args := make([]value.Value, len(n.Args))
	for i, a := range n.Args {
		args[i] = cg.genExpr(a).V
	}
	return sigmaValue{V: cg.curBlock.NewCall(fn, args...), Kind: KindNumber}
}

func (cg *CodeGen) genAssign(n *Assign) sigmaValue {
	val := cg.genExpr(n.Value)
	info, ok := cg.scopes.lookup(n.Name)
	if !ok {
		cg.reporter.SemanticError(cg.line(n.Tok), "assignment to unknown variable: "+n.Name)
		return val
	}
	if val.Kind == KindArray {
		// genArrayLiteral already allocated and populated its own cell;
		// rebind to that cell directly, same as genVarDecl.
		cell, ok := val.V.(*ir.InstAlloca)
		if !ok {
			cg.reporter.SemanticError(cg.line(n.Tok), "internal error: array value is not a cell")
			return val
		}
		cg.scopes.define(n.Name, &VariableInfo{Cell: cell, Kind: KindArray, ArrayLen: arrayLenOf(n.Value)})
		return val
	}
	if info.Kind != val.Kind {
		// Physical type changed: allocate a fresh cell and rebind the
		// name in the current frame (spec §4.3 "Local variables").
		newCell := cg.allocateCell(val.Kind, 0)
		cg.curBlock.NewStore(val.V, newCell)
		cg.scopes.define(n.Name, &VariableInfo{Cell: newCell, Kind: val.Kind})
		return val
	}
	cg.curBlock.NewStore(val.V, info.Cell)
	return val
}

func (cg *CodeGen) genCompoundAssign(n *CompoundAssign) sigmaValue {
	info, ok := cg.scopes.lookup(n.Name)
	if !ok {
		cg.reporter.SemanticError(cg.line(n.Tok), "unknown variable in compound assignment: "+n.Name)
		return sigmaValue{V: constant.NewFloat(types.Double, 0), Kind: KindNumber}
	}
	current := cg.curBlock.NewLoad(types.Double, info.Cell)
	rhs := cg.genExpr(n.Value)

	var result value.Value
	switch n.Op {
	case PLUS_EQ:
		result = cg.curBlock.NewFAdd(current, rhs.V)
	case MINUS_EQ:
		result = cg.curBlock.NewFSub(current, rhs.V)
	case STAR_EQ:
		result = cg.curBlock.NewFMul(current, rhs.V)
	case SLASH_EQ:
		result = cg.curBlock.NewFDiv(current, rhs.V)
	case PERCENT_EQ:
		result = cg.curBlock.NewFRem(current, rhs.V)
	default:
		cg.reporter.SemanticError(cg.line(n.Tok), "unknown compound assignment operator")
		return sigmaValue{V: constant.NewFloat(types.Double, 0), Kind: KindNumber}
	}
	cg.curBlock.NewStore(result, info.Cell)
	return sigmaValue{V: result, Kind: KindNumber}
}

func (cg *CodeGen) genIncrement(n *Increment) sigmaValue {
	info, ok := cg.scopes.lookup(n.Name)
	if !ok {
		cg.reporter.SemanticError(cg.line(n.Tok), "unknown variable in increment/decrement: "+n.Name)
		return sigmaValue{V: constant.NewFloat(types.Double, 0), Kind: KindNumber}
	}
	current := cg.curBlock.NewLoad(types.Double, info.Cell)
	one := constant.NewFloat(types.Double, 1)

	var updated value.Value
	if n.Op == PLUS_PLUS {
		updated = cg.curBlock.NewFAdd(current, one)
	} else {
		updated = cg.curBlock.NewFSub(current, one)
	}
	cg.curBlock.NewStore(updated, info.Cell)

	if n.IsPrefix {
		return sigmaValue{V: updated, Kind: KindNumber}
	}
	return sigmaValue{V: current, Kind: KindNumber}
}

// arrayInfoOf resolves an Index/IndexAssign object to its array
// binding. Only bare identifiers are valid array targets: arrays
// cannot be passed around as values (spec §3, §4.3).
func (cg *CodeGen) arrayInfoOf(e Expr) (*VariableInfo, string, bool) {
	ident, ok := e.(*Identifier)
	if !ok {
		return nil, "", false
	}
	info, ok := cg.scopes.lookup(ident.Name)
	if !ok || info.Kind != KindArray {
		return nil, ident.Name, false
	}
	return info, ident.Name, true
}

func (cg *CodeGen) genIndex(n *Index) sigmaValue {
	info, name, ok := cg.arrayInfoOf(n.Object)
	if !ok {
		cg.reporter.SemanticError(cg.line(n.Tok), "indexing a non-array: "+name)
		return sigmaValue{V: constant.NewFloat(types.Double, 0), Kind: KindNumber}
	}
	idx := cg.toInt(cg.genExpr(n.Idx).V)
	arrType := types.NewArray(uint64(info.ArrayLen), types.Double)
	gep := cg.curBlock.NewGetElementPtr(arrType, info.Cell, constant.NewInt(types.I64, 0), idx)
	return sigmaValue{V: cg.curBlock.NewLoad(types.Double, gep), Kind: KindNumber}
}

func (cg *CodeGen) genIndexAssign(n *IndexAssign) sigmaValue {
	info, name, ok := cg.arrayInfoOf(n.Object)
	if !ok {
		cg.reporter.SemanticError(cg.line(n.Tok), "indexing a non-array: "+name)
		return sigmaValue{V: constant.NewFloat(types.Double, 0), Kind: KindNumber}
	}
	val := cg.genExpr(n.Value)
	idx := cg.toInt(cg.genExpr(n.Idx).V)
	arrType := types.NewArray(uint64(info.ArrayLen), types.Double)
	gep := cg.curBlock.NewGetElementPtr(arrType, info.Cell, constant.NewInt(types.I64, 0), idx)
	cg.curBlock.NewStore(val.V, gep)
	return val
}

func (cg *CodeGen) genArrayLiteral(n *ArrayLiteral) sigmaValue {
	arrType := types.NewArray(uint64(len(n.Elements)), types.Double)
	cell := cg.curEntry.NewAlloca(arrType)
	for i, elem := range n.Elements {
		val := cg.genExpr(elem)
		gep := cg.curBlock.NewGetElementPtr(arrType, cell, constant.NewInt(types.I64, 0), constant.NewInt(types.I64, int64(i)))
		cg.curBlock.NewStore(val.V, gep)
	}
	return sigmaValue{V: cell, Kind: KindArray}
}

// genInterpolatedValue lowers an interpolated string that appears
// outside of a direct say statement (e.g. `fr greeting = "hi {name}"`).
// Without a runtime there is nowhere to materialize the substituted
// text at this point, so — matching
// original_source/src/codegen/CodeGen.cpp's generateInterpString
// exactly — it returns the bare format template; only a say statement
// actually resolves %g/%s against live values (see genInterpolatedPrint).
func (cg *CodeGen) genInterpolatedValue(n *InterpolatedString) sigmaValue {
	format := n.StringParts[0]
	for i, name := range n.ExprParts {
		info, ok := cg.scopes.lookup(name)
		if !ok {
			cg.reporter.SemanticError(cg.line(n.Tok), "unknown variable in interpolation: "+name)
		} else if info.Kind == KindString {
			format += "%s"
		} else {
			format += "%g"
		}
		format += n.StringParts[i+1]
	}
	return sigmaValue{V: cg.getOrCreateString(format), Kind: KindString}
}

// getOrCreateString returns the pointer constant for s's private,
// read-only global, deduplicating by content so two literals with
// identical contents share one global (spec §3, §4.3).
func (cg *CodeGen) getOrCreateString(s string) *constant.ExprGetElementPtr {
	if ptr, ok := cg.stringCache[s]; ok {
		return ptr
	}
	name := fmt.Sprintf(".str.%d", len(cg.stringCache))
	data := constant.NewCharArrayFromString(s + "\x00")
	gv := cg.module.NewGlobalDef(name, data)
	gv.Immutable = true
	gv.Linkage = enum.LinkagePrivate

	zero := constant.NewInt(types.I64, 0)
	ptr := constant.NewGetElementPtr(gv.ContentType, gv, zero, zero)
	cg.stringCache[s] = ptr
	return ptr
}
