package assemble

import (
	"sort"

	"github.com/KState-HEP-HTT/NNClassifiers/nn-go/events"
	"github.com/KState-HEP-HTT/NNClassifiers/nn-golib/errors"
)

// ReferencePredicate names a validity rule for the reference discriminant.
// The two rules come from two generations of input files and are kept apart on
// purpose: neither is a relaxation of the other.
type ReferencePredicate string

const (
	// SentinelReference keeps events whose discriminant is above the sentinel
	// floor (Dbkg_VBF > -100).
	SentinelReference ReferencePredicate = "sentinel"
	// PositiveReference keeps events that pass the selection flag and have a
	// strictly positive discriminant.
	PositiveReference ReferencePredicate = "positive"
)

// sentinelFloor marks "not physically defined" in the sentinel-style inputs.
const sentinelFloor = -100

// Selection is a named set of event-selection constants.
type Selection struct {
	Name string
	// Floor is the value the first two feature variables must exceed.
	Floor float64
	// FlagColumn is the quality/trigger flag that must be positive; empty disables the cut.
	FlagColumn string
	// EventWeightColumn holds the per-event weight, which must be positive; empty means weight 1.
	EventWeightColumn string
	// JetColumn holds the jet multiplicity used by the background two-jet gate.
	JetColumn string
	// RequiredJets is the jet multiplicity kept by the two-jet gate.
	RequiredJets float64
	// ReferenceColumn holds the reference discriminant.
	ReferenceColumn string
	Reference       ReferencePredicate
}

var (
	// PositiveSelection matches the ROOT-file inputs: physical values are
	// positive, passSelection and evtwt are present.
	PositiveSelection = Selection{
		Name:              "positive",
		Floor:             0,
		FlagColumn:        "passSelection",
		EventWeightColumn: "evtwt",
		JetColumn:         "njets",
		RequiredJets:      2,
		ReferenceColumn:   ReferenceColumn,
		Reference:         PositiveReference,
	}

	// SentinelSelection matches the svFit/MELA inputs: undefined values are
	// set to a large negative sentinel, and events are unweighted.
	SentinelSelection = Selection{
		Name:            "sentinel",
		Floor:           sentinelFloor,
		JetColumn:       "numGenJets",
		RequiredJets:    2,
		ReferenceColumn: ReferenceColumn,
		Reference:       SentinelReference,
	}
)

var selections = map[string]Selection{
	PositiveSelection.Name: PositiveSelection,
	SentinelSelection.Name: SentinelSelection,
}

// Selections lists the known selection names.
func Selections() []string {
	var names []string
	for name := range selections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SelectionByName returns the named selection.
func SelectionByName(name string) (Selection, error) {
	s, ok := selections[name]
	if !ok {
		return Selection{}, errors.Config(nil, "unknown selection %q, expected one of %v", name, Selections())
	}
	return s, nil
}

// Reserved lists the columns that drive the selection or carry labels and
// weights. None of them may be used as a network input.
func (s Selection) Reserved() []string {
	var cols []string
	for _, c := range []string{s.FlagColumn, s.EventWeightColumn, s.JetColumn, s.ReferenceColumn, LabelColumn, WeightColumn} {
		if c != "" {
			cols = append(cols, c)
		}
	}
	return cols
}

// CheckInputs rejects input names that are reserved by the selection.
func (s Selection) CheckInputs(inputs []string) error {
	for _, reserved := range s.Reserved() {
		for _, in := range inputs {
			if in == reserved {
				return errors.Config(nil, "%q is used by the %s selection and cannot be an input", in, s.Name)
			}
		}
	}
	return nil
}

// jetGate reports whether the two-jet gate applies.
func (s Selection) jetGate(class Class, njet bool) bool {
	return class == Background && !njet && s.JetColumn != ""
}

// auxColumns lists the selection-only columns needed for a class.
func (s Selection) auxColumns(class Class, njet bool) []string {
	var cols []string
	if s.FlagColumn != "" {
		cols = append(cols, s.FlagColumn)
	}
	if s.EventWeightColumn != "" {
		cols = append(cols, s.EventWeightColumn)
	}
	if s.jetGate(class, njet) {
		cols = append(cols, s.JetColumn)
	}
	return append(cols, s.ReferenceColumn)
}

// TrainingPredicate compiles the training filter for a class against t. Up to
// the first two vars must exceed Floor; the flag and event weight must be
// positive when the selection has them; background events must have exactly
// RequiredJets jets unless njet is set.
func (s Selection) TrainingPredicate(t *events.Table, vars []string, class Class, njet bool) (func(r int) bool, error) {
	var cuts [][]float64
	var floors []float64
	addCut := func(name string, floor float64) error {
		col, err := t.Column(name)
		if err != nil {
			return err
		}
		cuts = append(cuts, col)
		floors = append(floors, floor)
		return nil
	}

	for i, name := range vars {
		if i == 2 {
			break
		}
		if err := addCut(name, s.Floor); err != nil {
			return nil, err
		}
	}
	if s.FlagColumn != "" {
		if err := addCut(s.FlagColumn, 0); err != nil {
			return nil, err
		}
	}
	if s.EventWeightColumn != "" {
		if err := addCut(s.EventWeightColumn, 0); err != nil {
			return nil, err
		}
	}

	var jets []float64
	if s.jetGate(class, njet) {
		col, err := t.Column(s.JetColumn)
		if err != nil {
			return nil, err
		}
		jets = col
	}

	return func(r int) bool {
		for i, col := range cuts {
			if !(col[r] > floors[i]) {
				return false
			}
		}
		return jets == nil || jets[r] == s.RequiredJets
	}, nil
}

// ReferenceFilter compiles the reference-discriminant validity rule against t.
func (s Selection) ReferenceFilter(t *events.Table) (func(r int) bool, error) {
	ref, err := t.Column(s.ReferenceColumn)
	if err != nil {
		return nil, err
	}

	switch s.Reference {
	case SentinelReference:
		return func(r int) bool { return ref[r] > sentinelFloor }, nil
	case PositiveReference:
		if s.FlagColumn == "" {
			return func(r int) bool { return ref[r] > 0 }, nil
		}
		flag, err := t.Column(s.FlagColumn)
		if err != nil {
			return nil, err
		}
		return func(r int) bool { return flag[r] > 0 && ref[r] > 0 }, nil
	}
	return nil, errors.Config(nil, "selection %q has unknown reference predicate %q", s.Name, s.Reference)
}
