package ir

// Kind identifies the concrete shape of a Node. The set is closed.
type Kind uint8

const (
	KindFile Kind = iota
	KindFunction
	KindVariable
	KindBlock
	KindReturnableBlock
	KindConst
	KindGetValue
	KindCall
	KindReturn
	KindSuspensionPoint
	KindSuspendableExpression
	KindNop

	kindCount
)

// Kinds lists every node kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "File"
	case KindFunction:
		return "Function"
	case KindVariable:
		return "Variable"
	case KindBlock:
		return "Block"
	case KindReturnableBlock:
		return "ReturnableBlock"
	case KindConst:
		return "Const"
	case KindGetValue:
		return "GetValue"
	case KindCall:
		return "Call"
	case KindReturn:
		return "Return"
	case KindSuspensionPoint:
		return "SuspensionPoint"
	case KindSuspendableExpression:
		return "SuspendableExpression"
	case KindNop:
		return "Nop"
	default:
		return "Unknown"
	}
}
