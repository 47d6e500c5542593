package chem

import (
	"github.com/cockroachdb/errors"
)

// ErrNilMol is returned when a toolkit operation receives a nil molecule.
var ErrNilMol = errors.New("nil molecule")

// Toolkit is the cheminformatics collaborator used by the table transforms.
// Implementations must be safe for concurrent use.
type Toolkit interface {
	// Name identifies the toolkit in logs and capability errors.
	Name() string
	// ParseSMILES parses a SMILES string. A parse failure is reported as an
	// error wrapping ErrInvalidSMILES.
	ParseSMILES(smiles string) (*Mol, error)
	// MorganFingerprint returns a folded bit vector of length nbits.
	MorganFingerprint(m *Mol, radius, nbits int) (*BitVector, error)
	// HashedMorganFingerprint returns a folded count vector of length nbits.
	HashedMorganFingerprint(m *Mol, radius, nbits int) (*CountVector, error)
	// MACCSKeys returns the 167-bit MACCS keys.
	MACCSKeys(m *Mol) (*BitVector, error)
	// DescriptorNames lists the descriptors Descriptors computes, in order.
	DescriptorNames() []string
	// Descriptors computes every descriptor named by DescriptorNames.
	Descriptors(m *Mol) ([]float64, error)
}

// Builtin is the pure-Go toolkit shipped with this package.
type Builtin struct{}

var _ Toolkit = Builtin{}

// Default is the toolkit used when none is configured.
var Default Toolkit = Builtin{}

// Name implements Toolkit.
func (Builtin) Name() string { return "builtin" }

// ParseSMILES implements Toolkit.
func (Builtin) ParseSMILES(smiles string) (*Mol, error) { return ParseSMILES(smiles) }

// MorganFingerprint implements Toolkit.
func (Builtin) MorganFingerprint(m *Mol, radius, nbits int) (*BitVector, error) {
	if err := checkMorgan(m, radius, nbits); err != nil {
		return nil, err
	}
	return MorganFingerprint(m, radius, nbits), nil
}

// HashedMorganFingerprint implements Toolkit.
func (Builtin) HashedMorganFingerprint(m *Mol, radius, nbits int) (*CountVector, error) {
	if err := checkMorgan(m, radius, nbits); err != nil {
		return nil, err
	}
	return HashedMorganFingerprint(m, radius, nbits), nil
}

// MACCSKeys implements Toolkit.
func (Builtin) MACCSKeys(m *Mol) (*BitVector, error) {
	if m == nil {
		return nil, ErrNilMol
	}
	return MACCSKeys(m), nil
}

// DescriptorNames implements Toolkit.
func (Builtin) DescriptorNames() []string { return DescriptorNames() }

// Descriptors implements Toolkit.
func (Builtin) Descriptors(m *Mol) ([]float64, error) {
	if m == nil {
		return nil, ErrNilMol
	}
	return ComputeDescriptors(m), nil
}

func checkMorgan(m *Mol, radius, nbits int) error {
	if m == nil {
		return ErrNilMol
	}
	if radius < 0 {
		return errors.Newf("radius must be >= 0, got %d", radius)
	}
	if nbits <= 0 {
		return errors.Newf("nbits must be > 0, got %d", nbits)
	}
	return nil
}
