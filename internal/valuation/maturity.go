package valuation

import "sort"

// defaultMaturityResult is the hard fallback when a rule list has no match
// and no foundational rule. It keeps derivation total: a low-confidence
// estimate beats blocking the caller.
var defaultMaturityResult = MaturityResult{
	Level:      MaturityFoundational,
	Range:      Range{Min: 0, Max: 10},
	Confidence: ConfidenceLow,
}

// DeriveMaturityLevel walks the ordered rule list and returns the first
// rule whose conditions are all satisfied by the supplied scores. Rules
// must be supplied most stringent first; ordering is the priority. A score
// missing from the map fails the rule outright. When nothing matches, the
// rule tagged foundational is used; failing that, a hard default.
func DeriveMaturityLevel(scores map[string]float64, rules []MaturityRule) MaturityResult {
	for _, rule := range rules {
		matched, ok := ruleMatches(scores, rule)
		if !ok {
			continue
		}
		return MaturityResult{
			Level:             rule.Level,
			Range:             rule.Range,
			Confidence:        rule.Confidence,
			MatchedConditions: matched,
		}
	}

	for _, rule := range rules {
		if rule.Level == MaturityFoundational {
			return MaturityResult{
				Level:      rule.Level,
				Range:      rule.Range,
				Confidence: rule.Confidence,
			}
		}
	}

	return defaultMaturityResult
}

// ruleMatches checks every condition of a rule. It returns the names of
// the conditions that matched, for explainability in worker output. A rule
// with no conditions matches unconditionally.
func ruleMatches(scores map[string]float64, rule MaturityRule) ([]string, bool) {
	if len(rule.Conditions) == 0 {
		return nil, true
	}

	matched := make([]string, 0, len(rule.Conditions))
	for lever, cond := range rule.Conditions {
		score, ok := scores[lever]
		if !ok {
			return nil, false
		}
		if cond.Min != nil && score < *cond.Min {
			return nil, false
		}
		if cond.Max != nil && score > *cond.Max {
			return nil, false
		}
		matched = append(matched, lever)
	}

	sort.Strings(matched)
	return matched, true
}
