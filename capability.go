package molframe

import (
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/hupe1980/molframe/chem"
	"github.com/samber/lo"
)

// capabilitySMILES exercises ring perception, aromaticity and heteroatoms.
const capabilitySMILES = "Oc1ccccc1C(=O)N"

// CheckCapabilities verifies once, up front, that tk can serve every
// transform and that mode is a recognised progress mode. Failures wrap
// ErrCapability and carry a hint (see errors.FlattenHints).
func CheckCapabilities(tk chem.Toolkit, mode ProgressMode) error {
	if _, err := ParseProgressMode(string(mode)); err != nil {
		return capabilityError(err, "progress display %q is not available", "use one of none, terminal or notebook", mode)
	}
	if tk == nil {
		return capabilityError(nil, "no toolkit configured", "pass molframe.WithToolkit(chem.Default)")
	}

	hint := "use a toolkit that implements the full chem.Toolkit contract, such as chem.Default"

	m, err := tk.ParseSMILES(capabilitySMILES)
	if err != nil || m == nil {
		return capabilityError(err, "toolkit %s cannot parse SMILES", hint, tk.Name())
	}

	want := chem.DescriptorNames()
	got := tk.DescriptorNames()
	if missing := lo.Without(want, got...); len(missing) > 0 {
		return capabilityError(nil, "toolkit %s lacks descriptors %v", hint, tk.Name(), missing)
	}
	if !slices.Equal(want, got) {
		return capabilityError(nil, "toolkit %s reports descriptors in a different order or with extras", hint, tk.Name())
	}
	values, err := tk.Descriptors(m)
	if err != nil || len(values) != len(want) {
		return capabilityError(err, "toolkit %s cannot compute descriptors", hint, tk.Name())
	}

	keys, err := tk.MACCSKeys(m)
	if err != nil || keys == nil || keys.Len() != chem.MACCSBits {
		return capabilityError(err, "toolkit %s cannot compute %d-bit MACCS keys", hint, tk.Name(), chem.MACCSBits)
	}

	bits, err := tk.MorganFingerprint(m, 2, 64)
	if err != nil || bits == nil || bits.Len() != 64 {
		return capabilityError(err, "toolkit %s cannot compute Morgan bit fingerprints", hint, tk.Name())
	}
	counts, err := tk.HashedMorganFingerprint(m, 2, 64)
	if err != nil || counts == nil || counts.Len() != 64 {
		return capabilityError(err, "toolkit %s cannot compute Morgan count fingerprints", hint, tk.Name())
	}
	return nil
}

func capabilityError(cause error, format, hint string, args ...any) error {
	err := errors.Wrapf(ErrCapability, format, args...)
	if cause != nil {
		err = errors.WithSecondaryError(err, cause)
	}
	return errors.WithHint(err, hint)
}
