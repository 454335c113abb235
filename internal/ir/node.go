package ir

import "metair/internal/source"

// CallableKey names a function-like declaration by its interned name.
// It is a lookup key, never an owning edge.
type CallableKey = source.StringID

// Node is an element of the IR tree. Every node is owned by exactly one
// parent; references that are not ownership (a ReturnableBlock's file, a
// GetValue's variable) are plain keys or pointers that traversal ignores.
type Node interface {
	Kind() Kind
	Span() source.Span
	node()
}

type base struct {
	span source.Span
}

func (b *base) Span() source.Span { return b.span }
func (b *base) node()             {}

// File is the root of one compilation unit.
type File struct {
	base
	ID           source.FileID
	Path         string
	Lines        *source.LineIndex
	Declarations []Node
}

func (*File) Kind() Kind { return KindFile }

// Function is a function declaration. Body is optional and stays a plain
// *Block: a rewriter that returns a *ReturnableBlock for the body slot gets
// ErrIncompleteRewrite. Returnable blocks only appear in expression slots.
type Function struct {
	base
	Name   CallableKey
	Params []*Variable
	Body   *Block
}

func (*Function) Kind() Kind { return KindFunction }

// Variable declares a local or parameter. Initializer is optional.
type Variable struct {
	base
	Name        source.StringID
	Type        string
	Initializer Node
}

func (*Variable) Kind() Kind { return KindVariable }

// Block owns an ordered list of statements.
type Block struct {
	base
	Statements []Node
}

func (*Block) Kind() Kind { return KindBlock }

// ReturnableBlock is a block that non-local returns can target, produced
// when a callable is inlined. File is resolved through a Registry.
type ReturnableBlock struct {
	Block
	Callable CallableKey
	File     source.FileID
}

func (*ReturnableBlock) Kind() Kind { return KindReturnableBlock }

// Const is a literal value rendered as text.
type Const struct {
	base
	Type  string
	Value string
}

func (*Const) Kind() Kind { return KindConst }

// GetValue reads a variable declared elsewhere in the tree.
type GetValue struct {
	base
	Variable *Variable
}

func (*GetValue) Kind() Kind { return KindGetValue }

// Call invokes Callee. Receiver is optional.
type Call struct {
	base
	Callee   CallableKey
	Receiver Node
	Args     []Node
}

func (*Call) Kind() Kind { return KindCall }

// Return leaves the callable identified by Target with Value.
type Return struct {
	base
	Target CallableKey
	Value  Node
}

func (*Return) Kind() Kind { return KindReturn }

// SuspensionPoint marks where evaluation may stop after Result and later
// continue with ResumeResult. Parameter receives the id of the point being
// resumed.
type SuspensionPoint struct {
	base
	Parameter    *Variable
	Result       Node
	ResumeResult Node
}

func (*SuspensionPoint) Kind() Kind { return KindSuspensionPoint }

// SuspendableExpression opens a resumption scope for the suspension points
// nested in Result. SuspensionPointID selects the point to resume.
type SuspendableExpression struct {
	base
	SuspensionPointID Node
	Result            Node
}

func (*SuspendableExpression) Kind() Kind { return KindSuspendableExpression }

// Nop is the placeholder a rewriter returns to remove a statement.
type Nop struct {
	base
}

func (*Nop) Kind() Kind { return KindNop }

func NewFile(id source.FileID, path string, lines *source.LineIndex, span source.Span, decls ...Node) *File {
	return &File{base: base{span}, ID: id, Path: path, Lines: lines, Declarations: decls}
}

func NewFunction(name CallableKey, params []*Variable, body *Block, span source.Span) *Function {
	return &Function{base: base{span}, Name: name, Params: params, Body: body}
}

func NewVariable(name source.StringID, typ string, init Node, span source.Span) *Variable {
	return &Variable{base: base{span}, Name: name, Type: typ, Initializer: init}
}

func NewBlock(span source.Span, stmts ...Node) *Block {
	return &Block{base: base{span}, Statements: stmts}
}

func NewReturnableBlock(callable CallableKey, file source.FileID, span source.Span, stmts ...Node) *ReturnableBlock {
	return &ReturnableBlock{
		Block:    Block{base: base{span}, Statements: stmts},
		Callable: callable,
		File:     file,
	}
}

func NewConst(typ, value string, span source.Span) *Const {
	return &Const{base: base{span}, Type: typ, Value: value}
}

func NewGetValue(v *Variable, span source.Span) *GetValue {
	return &GetValue{base: base{span}, Variable: v}
}

func NewCall(callee CallableKey, receiver Node, args []Node, span source.Span) *Call {
	return &Call{base: base{span}, Callee: callee, Receiver: receiver, Args: args}
}

func NewReturn(target CallableKey, value Node, span source.Span) *Return {
	return &Return{base: base{span}, Target: target, Value: value}
}

func NewSuspensionPoint(param *Variable, result, resume Node, span source.Span) *SuspensionPoint {
	return &SuspensionPoint{base: base{span}, Parameter: param, Result: result, ResumeResult: resume}
}

func NewSuspendableExpression(id, result Node, span source.Span) *SuspendableExpression {
	return &SuspendableExpression{base: base{span}, SuspensionPointID: id, Result: result}
}

func NewNop(span source.Span) *Nop {
	return &Nop{base: base{span}}
}
