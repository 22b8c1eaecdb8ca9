package delivery

import "strings"

var regionSuffixes = []string{" county", " city", " municipality", " town"}

var regionReplacer = strings.NewReplacer("'", "", "’", "", "`", "", "-", " ", "_", " ", ".", " ")

// NormalizeRegion folds a free-text place name into the form used as a metro
// table key: lower case, no apostrophes, single spaces, administrative suffixes
// removed. "Murang'a County" and "  MURANGA " both become "muranga".
func NormalizeRegion(raw string) string {
	value := regionReplacer.Replace(strings.ToLower(raw))
	value = strings.Join(strings.Fields(value), " ")

	for {
		trimmed := value
		for _, suffix := range regionSuffixes {
			if strings.HasSuffix(trimmed, suffix) && len(trimmed) > len(suffix) {
				trimmed = strings.TrimSpace(strings.TrimSuffix(trimmed, suffix))
			}
		}
		if trimmed == value {
			return value
		}
		value = trimmed
	}
}

// regionCandidates splits a comma separated place string into normalised
// parts, most specific first. Blank parts are dropped.
func regionCandidates(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if normalized := NormalizeRegion(part); normalized != "" {
			out = append(out, normalized)
		}
	}
	return out
}
