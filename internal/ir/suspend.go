package ir

// Suspension lowering contract.
//
// A SuspendableExpression opens a resumption scope. Every SuspensionPoint
// nested in its Result belongs to that scope unless a nearer
// SuspendableExpression encloses it. The lowering pass turns each scope into
// a small state machine:
//
//	NotStarted -> Suspended(point) -> Resumed -> Completed
//
// Evaluation of a point runs Result and may stop there; resumption runs
// ResumeResult with the point's Parameter bound to the id produced by the
// scope's SuspensionPointID. This package only fixes the node shapes and
// the traversal order the pass relies on.

// SuspensionPoints returns the points owned by expr in traversal order.
// Points inside nested suspendable expressions belong to those scopes and
// are not included. The index of a point in the result is its id within
// the scope.
func SuspensionPoints(expr *SuspendableExpression) ([]*SuspensionPoint, error) {
	var points []*SuspensionPoint
	var err error
	var v VisitorFunc
	v = func(n Node) {
		if err != nil {
			return
		}
		switch n := n.(type) {
		case *SuspendableExpression:
			return
		case *SuspensionPoint:
			points = append(points, n)
		}
		if e := AcceptChildren(n, v); e != nil {
			err = e
		}
	}
	if e := AcceptChildren(expr, v); e != nil {
		return nil, e
	}
	return points, err
}
