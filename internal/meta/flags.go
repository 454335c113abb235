package meta

// Flags is the packed modifier word carried by every declaration.
//
// Layout (bit ranges are inclusive):
//
//	0      HasAnnotations
//	1..3   Visibility
//	4..5   Modality
//	6      IsVar
//	7      IsSecondaryConstructor
//	8      IsReified
//	9..10  Variance
type Flags uint32

const (
	hasAnnotationsBit = 1 << 0

	visibilityShift = 1
	visibilityMask  = 0x7

	modalityShift = 4
	modalityMask  = 0x3

	isVarBit       = 1 << 6
	isSecondaryBit = 1 << 7
	isReifiedBit   = 1 << 8

	varianceShift = 9
	varianceMask  = 0x3
)

// Modality tells whether a declaration can be overridden or extended.
type Modality uint8

const (
	ModalityFinal Modality = iota
	ModalityOpen
	ModalityAbstract
	ModalitySealed
)

func (m Modality) String() string {
	switch m {
	case ModalityFinal:
		return "final"
	case ModalityOpen:
		return "open"
	case ModalityAbstract:
		return "abstract"
	case ModalitySealed:
		return "sealed"
	default:
		return "unknown"
	}
}

// Visibility tells who may reference a declaration.
type Visibility uint8

const (
	VisibilityInternal Visibility = iota
	VisibilityPrivate
	VisibilityProtected
	VisibilityPublic
	VisibilityPrivateToThis
	VisibilityLocal
)

func (v Visibility) String() string {
	switch v {
	case VisibilityInternal:
		return "internal"
	case VisibilityPrivate:
		return "private"
	case VisibilityProtected:
		return "protected"
	case VisibilityPublic:
		return "public"
	case VisibilityPrivateToThis:
		return "private_to_this"
	case VisibilityLocal:
		return "local"
	default:
		return "unknown"
	}
}

// Variance is the declaration-site variance of a type parameter.
type Variance uint8

const (
	VarianceIn Variance = iota
	VarianceOut
	VarianceInvariant
)

func (v Variance) String() string {
	switch v {
	case VarianceIn:
		return "in"
	case VarianceOut:
		return "out"
	case VarianceInvariant:
		return "inv"
	default:
		return "unknown"
	}
}

// DecodedFlags is the unpacked form of Flags.
type DecodedFlags struct {
	HasAnnotations bool
	Modality       Modality
	Visibility     Visibility
	IsVar          bool
	IsSecondary    bool
	Reified        bool
	Variance       Variance
}

// DecodeFlags unpacks f. Enumerated fields with no meaning fail with
// UnknownFlagValue.
func DecodeFlags(f Flags) (DecodedFlags, error) {
	vis, err := DecodeVisibility(uint32(f>>visibilityShift) & visibilityMask)
	if err != nil {
		return DecodedFlags{}, err
	}
	mod, err := DecodeModality(uint32(f>>modalityShift) & modalityMask)
	if err != nil {
		return DecodedFlags{}, err
	}
	variance, err := DecodeVariance(uint32(f>>varianceShift) & varianceMask)
	if err != nil {
		return DecodedFlags{}, err
	}
	return DecodedFlags{
		HasAnnotations: f&hasAnnotationsBit != 0,
		Modality:       mod,
		Visibility:     vis,
		IsVar:          f&isVarBit != 0,
		IsSecondary:    f&isSecondaryBit != 0,
		Reified:        f&isReifiedBit != 0,
		Variance:       variance,
	}, nil
}

// EncodeFlags packs d. It rejects enumerated values outside their sets.
func EncodeFlags(d DecodedFlags) (Flags, error) {
	vis, err := visibilityCode(d.Visibility)
	if err != nil {
		return 0, err
	}
	mod, err := modalityCode(d.Modality)
	if err != nil {
		return 0, err
	}
	variance, err := varianceCode(d.Variance)
	if err != nil {
		return 0, err
	}
	f := Flags(vis<<visibilityShift | mod<<modalityShift | variance<<varianceShift)
	if d.HasAnnotations {
		f |= hasAnnotationsBit
	}
	if d.IsVar {
		f |= isVarBit
	}
	if d.IsSecondary {
		f |= isSecondaryBit
	}
	if d.Reified {
		f |= isReifiedBit
	}
	return f, nil
}

// MustEncodeFlags is EncodeFlags for statically known values.
func MustEncodeFlags(d DecodedFlags) Flags {
	f, err := EncodeFlags(d)
	if err != nil {
		panic(err)
	}
	return f
}

// DecodeVisibility maps a raw visibility code.
func DecodeVisibility(code uint32) (Visibility, error) {
	switch code {
	case 0:
		return VisibilityInternal, nil
	case 1:
		return VisibilityPrivate, nil
	case 2:
		return VisibilityProtected, nil
	case 3:
		return VisibilityPublic, nil
	case 4:
		return VisibilityPrivateToThis, nil
	case 5:
		return VisibilityLocal, nil
	}
	return 0, unknownFlag("visibility", code)
}

// DecodeModality maps a raw modality code.
func DecodeModality(code uint32) (Modality, error) {
	switch code {
	case 0:
		return ModalityFinal, nil
	case 1:
		return ModalityOpen, nil
	case 2:
		return ModalityAbstract, nil
	case 3:
		return ModalitySealed, nil
	}
	return 0, unknownFlag("modality", code)
}

// DecodeVariance maps a raw variance code.
func DecodeVariance(code uint32) (Variance, error) {
	switch code {
	case 0:
		return VarianceIn, nil
	case 1:
		return VarianceOut, nil
	case 2:
		return VarianceInvariant, nil
	}
	return 0, unknownFlag("variance", code)
}

func visibilityCode(v Visibility) (uint32, error) {
	switch v {
	case VisibilityInternal, VisibilityPrivate, VisibilityProtected,
		VisibilityPublic, VisibilityPrivateToThis, VisibilityLocal:
		return uint32(v), nil
	}
	return 0, unknownFlag("visibility", uint32(v))
}

func modalityCode(m Modality) (uint32, error) {
	switch m {
	case ModalityFinal, ModalityOpen, ModalityAbstract, ModalitySealed:
		return uint32(m), nil
	}
	return 0, unknownFlag("modality", uint32(m))
}

func varianceCode(v Variance) (uint32, error) {
	switch v {
	case VarianceIn, VarianceOut, VarianceInvariant:
		return uint32(v), nil
	}
	return 0, unknownFlag("variance", uint32(v))
}
