package valuation

import (
	"regexp"
	"strings"
)

var (
	parentheticalRe = regexp.MustCompile(`\([^)]*\)`)
	whitespaceRe    = regexp.MustCompile(`\s+`)
)

// NormalizeProcessName canonicalises a business-process tag for matching:
// lowercased, parenthetical qualifiers stripped, "&" expanded to "and",
// hyphens and underscores treated as spaces, whitespace collapsed. Process
// taxonomies in assessment data are inconsistently punctuated ("Sales &
// Distribution" vs "sales and distribution (including broker
// relationships)"), so exact matching would silently drop legitimate KPIs.
func NormalizeProcessName(name string) string {
	s := strings.ToLower(name)
	s = parentheticalRe.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, "&", " and ")
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// processesMatch reports whether two raw process names refer to the same
// process: equal after normalisation, or one contained in the other.
func processesMatch(a, b string) bool {
	na, nb := NormalizeProcessName(a), NormalizeProcessName(b)
	if na == "" || nb == "" {
		return false
	}
	return na == nb || strings.Contains(na, nb) || strings.Contains(nb, na)
}

// FindMatchingProcess returns the first candidate that fuzzily matches the
// given process tag. The returned name is the candidate's canonical form as
// declared, which is what benchmark lookups key on.
func FindMatchingProcess(process string, candidates []string) (string, bool) {
	for _, c := range candidates {
		if processesMatch(process, c) {
			return c, true
		}
	}
	return "", false
}

// ApplicableKpi pairs a KPI with the use-case processes that matched it and
// the benchmark for the first matched canonical process, when one exists.
type ApplicableKpi struct {
	Kpi              KpiDefinition
	MatchedProcesses []string
	CanonicalProcess string
	Benchmark        *IndustryBenchmark
}

// ApplicableKpis returns every KPI in the library applicable to at least
// one of the use case's processes. A KPI applies when any use-case process
// fuzzily matches any entry in its declared process list.
func ApplicableKpis(processes []string, library Library) []ApplicableKpi {
	var out []ApplicableKpi

	for _, kpi := range library.Kpis {
		var matchedCanonical string
		var matchedProcesses []string

		for _, p := range processes {
			canonical, ok := FindMatchingProcess(p, kpi.ApplicableProcesses)
			if !ok {
				continue
			}
			matchedProcesses = append(matchedProcesses, p)
			if matchedCanonical == "" {
				matchedCanonical = canonical
			}
		}

		if len(matchedProcesses) == 0 {
			continue
		}

		out = append(out, ApplicableKpi{
			Kpi:              kpi,
			MatchedProcesses: matchedProcesses,
			CanonicalProcess: matchedCanonical,
			Benchmark:        library.Benchmark(kpi.ID, matchedCanonical),
		})
	}

	return out
}
