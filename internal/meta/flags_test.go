package meta

import (
	"errors"
	"testing"
)

var (
	allModalities   = []Modality{ModalityFinal, ModalityOpen, ModalityAbstract, ModalitySealed}
	allVisibilities = []Visibility{VisibilityInternal, VisibilityPrivate, VisibilityProtected, VisibilityPublic, VisibilityPrivateToThis, VisibilityLocal}
	allVariances    = []Variance{VarianceIn, VarianceOut, VarianceInvariant}
)

func TestFlagsRoundTripExhaustive(t *testing.T) {
	for _, mod := range allModalities {
		for _, vis := range allVisibilities {
			for _, variance := range allVariances {
				for bits := range 16 {
					want := DecodedFlags{
						HasAnnotations: bits&1 != 0,
						Modality:       mod,
						Visibility:     vis,
						IsVar:          bits&2 != 0,
						IsSecondary:    bits&4 != 0,
						Reified:        bits&8 != 0,
						Variance:       variance,
					}
					packed, err := EncodeFlags(want)
					if err != nil {
						t.Fatalf("EncodeFlags(%+v): %v", want, err)
					}
					got, err := DecodeFlags(packed)
					if err != nil {
						t.Fatalf("DecodeFlags(%#x): %v", packed, err)
					}
					if got != want {
						t.Fatalf("round trip mismatch: %+v -> %#x -> %+v", want, packed, got)
					}
				}
			}
		}
	}
}

func TestFlagsOpenProtectedVar(t *testing.T) {
	packed := MustEncodeFlags(DecodedFlags{Modality: ModalityOpen, Visibility: VisibilityProtected, IsVar: true})
	// visibility=2 at bit 1, modality=1 at bit 4, is_var at bit 6
	if want := Flags(2<<1 | 1<<4 | 1<<6); packed != want {
		t.Fatalf("packed = %#x, want %#x", packed, want)
	}
	got, err := DecodeFlags(packed)
	if err != nil {
		t.Fatal(err)
	}
	if got.Modality != ModalityOpen || got.Visibility != VisibilityProtected || !got.IsVar {
		t.Fatalf("decoded = %+v", got)
	}
}

func TestFlagsUnknownValues(t *testing.T) {
	tests := []struct {
		name  string
		flags Flags
		field string
		value int
	}{
		{"visibility 6", 6 << visibilityShift, "visibility", 6},
		{"visibility 7", 7 << visibilityShift, "visibility", 7},
		{"variance 3", 3 << varianceShift, "variance", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeFlags(tt.flags)
			if !errors.Is(err, ErrUnknownFlagValue) {
				t.Fatalf("expected ErrUnknownFlagValue, got %v", err)
			}
			me, _ := AsError(err)
			if me.Detail != tt.field || me.ID != tt.value {
				t.Errorf("error = %+v, want field %s value %d", me, tt.field, tt.value)
			}
		})
	}

	if _, err := EncodeFlags(DecodedFlags{Visibility: Visibility(9)}); !errors.Is(err, ErrUnknownFlagValue) {
		t.Errorf("EncodeFlags accepted visibility 9: %v", err)
	}
	if _, err := EncodeFlags(DecodedFlags{Modality: Modality(4)}); !errors.Is(err, ErrUnknownFlagValue) {
		t.Errorf("EncodeFlags accepted modality 4: %v", err)
	}
}
