// internal/domain/sport/sport.go

package sport

import "strings"

// Intensity levels as stored in the exercise method table.
const (
	IntensityLow    = "저"
	IntensityMedium = "중"
	IntensityHigh   = "고"
)

// Normalize strips all whitespace from a sport label and lower-cases it so
// that matching is insensitive to spacing and case. Matching across the
// recommender is substring containment on normalized text, not token
// equality.
func Normalize(text string) string {
	return strings.ToLower(strings.ReplaceAll(text, " ", ""))
}

// Matches reports whether the normalized sport name occurs inside the
// normalized facility sport-type text.
func Matches(facilityType, sportName string) bool {
	return strings.Contains(Normalize(facilityType), Normalize(sportName))
}

// SplitList splits a comma-joined sport list ("축구, 테니스, 야구") into a
// deduplicated slice of trimmed names. Empty segments are dropped.
func SplitList(joined string) []string {
	seen := make(map[string]struct{})
	var out []string

	for _, part := range strings.Split(joined, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}

	return out
}

// IntensityRow is one sport→intensity pair as returned by the exercise
// intensity collaborator.
type IntensityRow struct {
	SportName string
	Intensity string
}

// IntensityMap maps a normalized sport name to its intensity level.
type IntensityMap map[string]string

// BuildIntensityMap builds the lookup from raw rows. Duplicate sport names
// overwrite (last wins); rows missing a name or level are dropped.
func BuildIntensityMap(rows []IntensityRow) IntensityMap {
	m := make(IntensityMap, len(rows))
	for _, row := range rows {
		if row.SportName == "" || row.Intensity == "" {
			continue
		}
		m[Normalize(row.SportName)] = row.Intensity
	}
	return m
}

// IntensityFor returns the intensity of the first map entry whose sport name
// occurs in the facility sport-type text. Map iteration order decides ties
// between multiple matching entries.
func (m IntensityMap) IntensityFor(facilityType string) (string, bool) {
	normalized := Normalize(facilityType)
	for name, level := range m {
		if strings.Contains(normalized, name) {
			return level, true
		}
	}
	return "", false
}
