package dump

import (
	"strings"

	"metair/internal/meta"
)

// ListSeparator separates elements of parameter, type parameter and
// supertype lists.
const ListSeparator = ", "

// BoundSeparator separates multiple upper bounds of one type parameter.
const BoundSeparator = " & "

// rootClassNames are supertypes every class has implicitly; they are never
// printed.
var rootClassNames = map[string]struct{}{
	"Any":        {},
	"kotlin.Any": {},
}

// join concatenates items with sep between them. An empty list is empty text.
func join(items []string, sep string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items, sep)
}

func modalityPrefix(m meta.Modality) string {
	switch m {
	case meta.ModalityFinal:
		return ""
	case meta.ModalityOpen:
		return "open "
	case meta.ModalityAbstract:
		return "abstract "
	case meta.ModalitySealed:
		return "sealed "
	default:
		return ""
	}
}

func visibilityPrefix(v meta.Visibility) string {
	switch v {
	case meta.VisibilityPublic:
		return ""
	case meta.VisibilityInternal:
		return "internal "
	case meta.VisibilityPrivate, meta.VisibilityPrivateToThis:
		return "private "
	case meta.VisibilityProtected:
		return "protected "
	case meta.VisibilityLocal:
		return "local "
	default:
		return ""
	}
}

func variancePrefix(v meta.Variance) string {
	switch v {
	case meta.VarianceIn:
		return "in "
	case meta.VarianceOut:
		return "out "
	default:
		return ""
	}
}

func mutability(isVar bool) string {
	if isVar {
		return "var"
	}
	return "val"
}

func isRootType(t meta.TypeRef) bool {
	if t.Nullable {
		return false
	}
	_, ok := rootClassNames[t.Name]
	return ok
}

func typeParameter(tp meta.TypeParamDecl) string {
	var sb strings.Builder
	if tp.Reified {
		sb.WriteString("reified ")
	}
	sb.WriteString(variancePrefix(tp.Variance))
	sb.WriteString(tp.Name)
	if len(tp.UpperBounds) > 0 {
		bounds := make([]string, len(tp.UpperBounds))
		for i, b := range tp.UpperBounds {
			bounds[i] = b.String()
		}
		sb.WriteString(": ")
		sb.WriteString(join(bounds, BoundSeparator))
	}
	return sb.String()
}

func typeParameters(tps []meta.TypeParamDecl) string {
	items := make([]string, len(tps))
	for i, tp := range tps {
		items[i] = typeParameter(tp)
	}
	return join(items, ListSeparator)
}

func parameters(ps []meta.ParamDecl) string {
	items := make([]string, len(ps))
	for i, p := range ps {
		items[i] = p.Name + ": " + p.Type.String()
	}
	return join(items, ListSeparator)
}

func supertypes(ts []meta.TypeRef) string {
	items := make([]string, 0, len(ts))
	for _, t := range ts {
		if isRootType(t) {
			continue
		}
		items = append(items, t.String())
	}
	return join(items, ListSeparator)
}

// ClassHeader renders the opening line of a class, up to and including "{".
func ClassHeader(c *meta.ClassDecl) string {
	var sb strings.Builder
	sb.WriteString("class ")
	sb.WriteString(modalityPrefix(c.Flags.Modality))
	sb.WriteString(visibilityPrefix(c.Flags.Visibility))
	if tps := typeParameters(c.TypeParameters); tps != "" {
		sb.WriteString("<" + tps + "> ")
	}
	sb.WriteString(c.Name)
	if primary, ok := c.PrimaryConstructor(); ok {
		if ps := parameters(primary.Parameters); ps != "" {
			sb.WriteString("(" + ps + ")")
		}
	}
	if st := supertypes(c.Supertypes); st != "" {
		sb.WriteString(": " + st)
	}
	sb.WriteString(" {")
	return sb.String()
}

// Constructor renders a secondary constructor line.
func Constructor(c *meta.ConstructorDecl) string {
	line := "  " + visibilityPrefix(c.Flags.Visibility) + "constructor"
	if ps := parameters(c.Parameters); ps != "" {
		line += "(" + ps + ")"
	}
	return line
}

// Function renders a function line. The parameter list is always
// parenthesized.
func Function(f *meta.FunctionDecl) string {
	var sb strings.Builder
	sb.WriteString("  ")
	sb.WriteString(visibilityPrefix(f.Flags.Visibility))
	sb.WriteString("fun ")
	sb.WriteString(f.Name)
	if tps := typeParameters(f.TypeParameters); tps != "" {
		sb.WriteString("<" + tps + ">")
	}
	sb.WriteString("(" + parameters(f.Parameters) + ")")
	return sb.String()
}

// Property renders a property line.
func Property(p *meta.PropertyDecl) string {
	return "  " + modalityPrefix(p.Flags.Modality) + visibilityPrefix(p.Flags.Visibility) +
		mutability(p.Flags.IsVar) + " " + p.Name + ": " + p.Type.String()
}
