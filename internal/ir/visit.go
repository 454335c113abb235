package ir

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrIncompleteRewrite is matched by every *RewriteError.
	ErrIncompleteRewrite = errors.New("incomplete rewrite")
	// ErrUnknownKind reports a node outside the closed kind set.
	ErrUnknownKind = errors.New("unknown node kind")
)

// Visitor observes children in declared order.
type Visitor interface {
	Visit(n Node)
}

// VisitorFunc adapts a function to Visitor.
type VisitorFunc func(Node)

func (f VisitorFunc) Visit(n Node) { f(n) }

// Rewriter returns the replacement for a child. Returning the argument keeps
// it; returning a Nop removes a statement. A nil result is never valid.
type Rewriter interface {
	Rewrite(n Node) Node
}

// RewriterFunc adapts a function to Rewriter.
type RewriterFunc func(Node) Node

func (f RewriterFunc) Rewrite(n Node) Node { return f(n) }

// RewriteError is returned when a rewrite would leave a slot empty or fill a
// typed slot with the wrong kind of node.
type RewriteError struct {
	Parent Kind
	Slot   string
	Index  int // -1 for single-valued slots
	Detail string
}

func (e *RewriteError) Error() string {
	slot := e.Slot
	if e.Index >= 0 {
		slot = fmt.Sprintf("%s[%d]", e.Slot, e.Index)
	}
	return fmt.Sprintf("incomplete rewrite of %s.%s: %s", e.Parent, slot, e.Detail)
}

func (e *RewriteError) Unwrap() error { return ErrIncompleteRewrite }

// AcceptChildren calls v for each present child of n in declared order:
//
//	File                  declarations
//	Function              params, body
//	Variable              initializer
//	Block                 statements
//	ReturnableBlock       statements
//	Call                  receiver, args
//	Return                value
//	SuspensionPoint       parameter, result, resumeResult
//	SuspendableExpression suspensionPointId, result
//
// Const, GetValue and Nop have no children. Absent optional children are
// skipped.
func AcceptChildren(n Node, v Visitor) error {
	switch n := n.(type) {
	case *File:
		visitAll(v, n.Declarations)
	case *Function:
		for _, p := range n.Params {
			if p != nil {
				v.Visit(p)
			}
		}
		if n.Body != nil {
			v.Visit(n.Body)
		}
	case *Variable:
		visitOpt(v, n.Initializer)
	case *Block:
		visitAll(v, n.Statements)
	case *ReturnableBlock:
		visitAll(v, n.Statements)
	case *Const, *GetValue, *Nop:
	case *Call:
		visitOpt(v, n.Receiver)
		visitAll(v, n.Args)
	case *Return:
		visitOpt(v, n.Value)
	case *SuspensionPoint:
		if n.Parameter != nil {
			v.Visit(n.Parameter)
		}
		visitOpt(v, n.Result)
		visitOpt(v, n.ResumeResult)
	case *SuspendableExpression:
		visitOpt(v, n.SuspensionPointID)
		visitOpt(v, n.Result)
	default:
		return fmt.Errorf("%w: %T", ErrUnknownKind, n)
	}
	return nil
}

// TransformChildren replaces each present child of n, in the order of
// AcceptChildren, with the rewriter's result. Statement lists are replaced
// by index so a rewritten statement never shifts its siblings. The first
// invalid result aborts the pass with a *RewriteError; children already
// replaced stay replaced.
func TransformChildren(n Node, r Rewriter) error {
	var err error
	switch n := n.(type) {
	case *File:
		err = rewriteList(r, n, "declarations", n.Declarations)
	case *Function:
		for i, p := range n.Params {
			if p == nil {
				continue
			}
			if n.Params[i], err = rewriteAs(r, n, "params", i, p); err != nil {
				return err
			}
		}
		if n.Body != nil {
			n.Body, err = rewriteAs(r, n, "body", -1, n.Body)
		}
	case *Variable:
		n.Initializer, err = rewriteOpt(r, n, "initializer", n.Initializer)
	case *Block:
		err = rewriteList(r, n, "statements", n.Statements)
	case *ReturnableBlock:
		err = rewriteList(r, n, "statements", n.Statements)
	case *Const, *GetValue, *Nop:
	case *Call:
		if n.Receiver, err = rewriteOpt(r, n, "receiver", n.Receiver); err != nil {
			return err
		}
		err = rewriteList(r, n, "args", n.Args)
	case *Return:
		n.Value, err = rewriteOpt(r, n, "value", n.Value)
	case *SuspensionPoint:
		if n.Parameter != nil {
			if n.Parameter, err = rewriteAs(r, n, "parameter", -1, n.Parameter); err != nil {
				return err
			}
		}
		if n.Result, err = rewriteOpt(r, n, "result", n.Result); err != nil {
			return err
		}
		n.ResumeResult, err = rewriteOpt(r, n, "resumeResult", n.ResumeResult)
	case *SuspendableExpression:
		if n.SuspensionPointID, err = rewriteOpt(r, n, "suspensionPointId", n.SuspensionPointID); err != nil {
			return err
		}
		n.Result, err = rewriteOpt(r, n, "result", n.Result)
	default:
		return fmt.Errorf("%w: %T", ErrUnknownKind, n)
	}
	return err
}

func visitAll(v Visitor, nodes []Node) {
	for _, n := range nodes {
		if !isNil(n) {
			v.Visit(n)
		}
	}
}

func visitOpt(v Visitor, n Node) {
	if !isNil(n) {
		v.Visit(n)
	}
}

// rewriteList replaces list[i] in place; the slice header is never
// reallocated, so indices stay stable for the whole pass.
func rewriteList(r Rewriter, parent Node, slot string, list []Node) error {
	for i := range list {
		if isNil(list[i]) {
			continue
		}
		out, err := rewriteAs(r, parent, slot, i, list[i])
		if err != nil {
			return err
		}
		list[i] = out
	}
	return nil
}

// rewriteOpt rewrites a slot holding any node. An empty slot stays empty and
// is not passed to the rewriter; a present child must stay present.
func rewriteOpt(r Rewriter, parent Node, slot string, child Node) (Node, error) {
	if isNil(child) {
		return child, nil
	}
	return rewriteAs(r, parent, slot, -1, child)
}

// rewriteAs rewrites child and checks the result fits a slot of type T.
// On failure the original child is returned so the slot is never cleared.
func rewriteAs[T Node](r Rewriter, parent Node, slot string, index int, child T) (T, error) {
	out := r.Rewrite(child)
	if isNil(out) {
		return child, &RewriteError{Parent: parent.Kind(), Slot: slot, Index: index, Detail: "rewriter returned nil"}
	}
	typed, ok := out.(T)
	if !ok {
		return child, &RewriteError{
			Parent: parent.Kind(),
			Slot:   slot,
			Index:  index,
			Detail: fmt.Sprintf("slot holds %s, rewriter returned %s", child.Kind(), out.Kind()),
		}
	}
	return typed, nil
}

// isNil catches both untyped nil and typed nil pointers stored in a Node.
func isNil(n Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
