package main

import "github.com/llir/llvm/ir"

// VariableKind records the physical representation behind a cell, so
// the generator can decide when a re-assignment must rebind the name
// to a fresh cell (spec §3, §4.3 "Local variables").
type VariableKind int

const (
	KindNumber VariableKind = iota
	KindString
	KindArray
)

// VariableInfo is what a scope frame maps a name to.
type VariableInfo struct {
	Cell     *ir.InstAlloca
	Kind     VariableKind
	ArrayLen int
}

// scopeFrame is one lexical level: global, function, or block.
type scopeFrame map[string]*VariableInfo

// scopeStack implements the stack of frames described in spec §3.
// Name resolution searches top-down (innermost first).
type scopeStack struct {
	frames []scopeFrame
}

func newScopeStack() *scopeStack {
	s := &scopeStack{}
	s.push() // global frame
	return s
}

func (s *scopeStack) push() {
	s.frames = append(s.frames, scopeFrame{})
}

func (s *scopeStack) pop() {
	s.frames = s.frames[:len(s.frames)-1]
}

// resetToGlobal discards every frame above the global one. Function
// entry/exit does not use it: genFuncDef swaps in a fresh scope stack
// and restores the previous one afterwards.
func (s *scopeStack) resetToGlobal() {
	s.frames = s.frames[:1]
}

// define binds name in the innermost frame, shadowing any outer
// binding of the same name.
func (s *scopeStack) define(name string, info *VariableInfo) {
	s.frames[len(s.frames)-1][name] = info
}

// lookup searches frames innermost-first.
func (s *scopeStack) lookup(name string) (*VariableInfo, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if info, ok := s.frames[i][name]; ok {
			return info, true
		}
	}
	return nil, false
}

// loopFrame holds the branch targets break/continue resolve to
// (spec §3 "Loop Frame Stack").
type loopFrame struct {
	continueTarget *ir.Block
	breakTarget    *ir.Block
}

type loopStack struct {
	frames []loopFrame
}

func (s *loopStack) push(f loopFrame) { s.frames = append(s.frames, f) }
func (s *loopStack) pop()             { s.frames = s.frames[:len(s.frames)-1] }

func (s *loopStack) top() (loopFrame, bool) {
	if len(s.frames) == 0 {
		return loopFrame{}, false
	}
	return s.frames[len(s.frames)-1], true
}
