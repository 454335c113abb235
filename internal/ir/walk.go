package ir

// Walk visits root and its descendants in pre-order. When fn returns false
// the children of that node are skipped.
func Walk(root Node, fn func(Node) bool) error {
	w := &walker{fn: fn}
	w.Visit(root)
	return w.err
}

type walker struct {
	fn  func(Node) bool
	err error
}

func (w *walker) Visit(n Node) {
	if w.err != nil || isNil(n) {
		return
	}
	if !w.fn(n) {
		return
	}
	if err := AcceptChildren(n, w); err != nil {
		w.err = err
	}
}

// Transform rewrites the tree bottom-up: children of a node are transformed
// before the node itself is passed to r. It returns the rewritten root.
func Transform(root Node, r Rewriter) (Node, error) {
	t := &transformer{r: r}
	out := t.Rewrite(root)
	if t.err != nil {
		return root, t.err
	}
	if isNil(out) {
		return root, &RewriteError{Parent: root.Kind(), Slot: "root", Index: -1, Detail: "rewriter returned nil"}
	}
	return out, nil
}

type transformer struct {
	r   Rewriter
	err error
}

func (t *transformer) Rewrite(n Node) Node {
	if t.err != nil {
		return n
	}
	if err := TransformChildren(n, t); err != nil {
		t.err = err
		return n
	}
	return t.r.Rewrite(n)
}
