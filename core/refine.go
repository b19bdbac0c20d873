package core

import "github.com/huangsam/chartmap/schema"

// rule is one refinement step. It receives the output of the previous step.
type rule func(v schema.AnnualVector, c schema.ContextVector, rs *schema.RuleSet) schema.AnnualVector

// refinementRules run in this order for every pixel.
var refinementRules = []rule{
	fillUnclassified,
	fixLeadingPlantation,
	fixUrbanBarren,
	fixUrbanGrassland,
	fixUrbanMajority,
	fixUrbanToCropland,
}

// Refine applies the refinement rules to one pixel and returns the corrected vector.
func Refine(v schema.AnnualVector, c schema.ContextVector, rs *schema.RuleSet) schema.AnnualVector {
	for _, r := range refinementRules {
		v = r(v, c, rs)
	}
	return v
}

// fillUnclassified replaces unclassified slots, choosing the fill by how many
// there are and whether they touch either end of the record.
func fillUnclassified(v schema.AnnualVector, c schema.ContextVector, rs *schema.RuleSet) schema.AnnualVector {
	n := v.Count(schema.Unclassified)
	if n == 0 {
		return v
	}
	majority, _ := maskedMajority(c[:], func(i int) bool { return v[i] == schema.Unclassified })
	label := rs.Substitute(majority)
	contextWins := label == schema.ClassUrban || label == schema.ClassWetland

	last := len(v) - 1
	switch {
	case n > rs.MostlyUnclassified:
		return replaceAll(v, schema.Unclassified, label)
	case v[0] == schema.Unclassified:
		if contextWins {
			return replaceAll(v, schema.Unclassified, label)
		}
		if first, ok := firstClassified(v); ok {
			return replaceAll(v, schema.Unclassified, first)
		}
	case v[last] == schema.Unclassified:
		if contextWins {
			return replaceAll(v, schema.Unclassified, label)
		}
		if lastClass, ok := lastClassified(v); ok {
			return replaceAll(v, schema.Unclassified, lastClass)
		}
	case n < rs.ShortGap:
		for i := 1; i < len(v); i++ {
			if v[i] == schema.Unclassified {
				v[i] = v[i-1]
			}
		}
	}
	return v
}

// fixLeadingPlantation removes plantation labels from the first three years
// when the fourth year is not plantation.
func fixLeadingPlantation(v schema.AnnualVector, _ schema.ContextVector, _ *schema.RuleSet) schema.AnnualVector {
	if v[3] == schema.ClassPlantation {
		return v
	}
	for i := range 3 {
		if v[i] == schema.ClassPlantation {
			v[i] = v[3]
		}
	}
	return v
}

func fixUrbanBarren(v schema.AnnualVector, c schema.ContextVector, rs *schema.RuleSet) schema.AnnualVector {
	return relabelUrbanInContext(v, c, schema.ClassBarren, rs.UrbanBarren)
}

func fixUrbanGrassland(v schema.AnnualVector, c schema.ContextVector, rs *schema.RuleSet) schema.AnnualVector {
	return relabelUrbanInContext(v, c, schema.ClassGrassland, rs.UrbanGrassland)
}

// relabelUrbanInContext turns urban slots whose context is class into class
// once at least threshold such slots exist.
func relabelUrbanInContext(v schema.AnnualVector, c schema.ContextVector, class uint8, threshold int) schema.AnnualVector {
	match := func(i int) bool { return v[i] == schema.ClassUrban && c[i] == class }
	if countWhere(len(v), match) < threshold {
		return v
	}
	for i := range v {
		if match(i) {
			v[i] = class
		}
	}
	return v
}

// fixUrbanMajority relabels urban slots the context does not see as urban
// when the context there is mostly grassland or cropland.
func fixUrbanMajority(v schema.AnnualVector, c schema.ContextVector, rs *schema.RuleSet) schema.AnnualVector {
	match := func(i int) bool { return v[i] == schema.ClassUrban && c[i] != schema.ClassUrban }
	if countWhere(len(v), match) < rs.UrbanMajority {
		return v
	}
	majority, _ := maskedMajority(c[:], match)
	if majority != schema.ClassGrassland && majority != schema.ClassCropland {
		return v
	}
	for i := range v {
		if match(i) {
			v[i] = majority
		}
	}
	return v
}

// fixUrbanToCropland handles records that start urban and end cropland by
// relabelling every urban slot to the substitute of its context majority.
func fixUrbanToCropland(v schema.AnnualVector, c schema.ContextVector, rs *schema.RuleSet) schema.AnnualVector {
	if v[0] != schema.ClassUrban || v[len(v)-1] != schema.ClassCropland {
		return v
	}
	majority, _ := maskedMajority(c[:], func(i int) bool { return v[i] == schema.ClassUrban })
	return replaceAll(v, schema.ClassUrban, rs.Substitute(majority))
}

func replaceAll(v schema.AnnualVector, from, to uint8) schema.AnnualVector {
	for i := range v {
		if v[i] == from {
			v[i] = to
		}
	}
	return v
}

func firstClassified(v schema.AnnualVector) (uint8, bool) {
	for _, c := range v {
		if c != schema.Unclassified {
			return c, true
		}
	}
	return 0, false
}

func lastClassified(v schema.AnnualVector) (uint8, bool) {
	for i := len(v) - 1; i >= 0; i-- {
		if v[i] != schema.Unclassified {
			return v[i], true
		}
	}
	return 0, false
}

func countWhere(n int, pred func(i int) bool) int {
	count := 0
	for i := range n {
		if pred(i) {
			count++
		}
	}
	return count
}
