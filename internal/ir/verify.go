package ir

import (
	"errors"
	"fmt"
)

// ErrInvalidTree is matched by every error Verify reports.
var ErrInvalidTree = errors.New("invalid IR tree")

// TreeError describes one ownership violation found by Verify.
type TreeError struct {
	Node   Kind
	Slot   string
	Detail string
}

func (e *TreeError) Error() string {
	return fmt.Sprintf("%s.%s: %s", e.Node, e.Slot, e.Detail)
}

func (e *TreeError) Unwrap() error { return ErrInvalidTree }

// Verify checks that every required child is present and that no node is
// owned by two parents. All violations are joined into one error.
func Verify(root Node) error {
	var errs []error
	seen := make(map[Node]struct{})
	err := Walk(root, func(n Node) bool {
		if _, dup := seen[n]; dup {
			errs = append(errs, &TreeError{Node: n.Kind(), Slot: "-", Detail: "node reachable through more than one parent"})
			return false
		}
		seen[n] = struct{}{}
		for _, slot := range missingSlots(n) {
			errs = append(errs, &TreeError{Node: n.Kind(), Slot: slot, Detail: "required child missing"})
		}
		return true
	})
	if err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func missingSlots(n Node) []string {
	var missing []string
	need := func(slot string, child Node) {
		if isNil(child) {
			missing = append(missing, slot)
		}
	}
	needAll := func(slot string, list []Node) {
		for i, child := range list {
			need(fmt.Sprintf("%s[%d]", slot, i), child)
		}
	}

	switch n := n.(type) {
	case *File:
		needAll("declarations", n.Declarations)
	case *Function:
		for i, p := range n.Params {
			if p == nil {
				missing = append(missing, fmt.Sprintf("params[%d]", i))
			}
		}
	case *Variable, *Const, *Nop:
	case *Block:
		needAll("statements", n.Statements)
	case *ReturnableBlock:
		needAll("statements", n.Statements)
	case *GetValue:
		if n.Variable == nil {
			missing = append(missing, "variable")
		}
	case *Call:
		needAll("args", n.Args)
	case *Return:
		need("value", n.Value)
	case *SuspensionPoint:
		if n.Parameter == nil {
			missing = append(missing, "parameter")
		}
		need("result", n.Result)
		need("resumeResult", n.ResumeResult)
	case *SuspendableExpression:
		need("suspensionPointId", n.SuspensionPointID)
		need("result", n.Result)
	}
	return missing
}
