package schema

// SubstituteTable maps a coarse land-cover class to its best substitute fine class.
// Classes without an entry map to Unclassified.
type SubstituteTable [256]uint8

// defaultSubstitutes is indexed by coarse land-cover class.
var defaultSubstitutes = []uint8{
	0, 2, 2, 4, 4, 5, 10, 10, 9, 9,
	10, 11, 12, 13, 12, 16, 16, 25, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// RuleSet configures the refinement rules. It is passed by pointer for
// convenience but never mutated once built.
type RuleSet struct {
	Substitutes SubstituteTable

	// MostlyUnclassified: more unclassified slots than this fill the whole vector.
	MostlyUnclassified int
	// ShortGap: fewer interior unclassified slots than this are forward-filled.
	ShortGap int
	// UrbanBarren and UrbanGrassland are the minimum urban-in-context counts.
	UrbanBarren    int
	UrbanGrassland int
	// UrbanMajority is the minimum urban-outside-urban-context count.
	UrbanMajority int
}

// DefaultRuleSet returns the rule set used by the refine command.
func DefaultRuleSet() RuleSet {
	rs := RuleSet{
		MostlyUnclassified: 10,
		ShortGap:           3,
		UrbanBarren:        5,
		UrbanGrassland:     5,
		UrbanMajority:      8,
	}
	copy(rs.Substitutes[:], defaultSubstitutes)
	return rs
}

// Substitute returns the fine class standing in for coarse class c.
func (rs *RuleSet) Substitute(c uint8) uint8 {
	return rs.Substitutes[c]
}

// WriteOptions describes how a grid is encoded on disk.
type WriteOptions struct {
	Labels      []string
	NoData      float64
	DataType    DataType
	Compression string
	Overwrite   bool
}

// DefaultBlendWriteOptions returns the encoding used for blended maps.
func DefaultBlendWriteOptions() WriteOptions {
	return WriteOptions{
		Labels:      BandLabels("Blended Land Cover Map"),
		NoData:      float64(Unresolved),
		DataType:    ByteType,
		Compression: "PACKBITS",
	}
}

// DefaultRefineWriteOptions returns the encoding used for refined maps.
func DefaultRefineWriteOptions() WriteOptions {
	return WriteOptions{
		Labels:      BandLabels("Refined Land Cover Map"),
		NoData:      float64(Unresolved),
		DataType:    Int16Type,
		Compression: "LZW",
	}
}
