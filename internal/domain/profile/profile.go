// internal/domain/profile/profile.go

package profile

// Age band labels used by the demographic preference table.
const (
	BandTeens     = "10대"
	BandTwenties  = "20대"
	BandThirties  = "30대"
	BandForties   = "40대"
	BandFifties   = "50대"
	BandSixties   = "60대"
	BandSeventies = "70대 이상"
)

// AgeBand maps an age to its fixed decade bucket. Ages under 10 fall into
// the teens band; there is no separate child band.
func AgeBand(age int) string {
	switch {
	case age < 20:
		return BandTeens
	case age < 30:
		return BandTwenties
	case age < 40:
		return BandThirties
	case age < 50:
		return BandForties
	case age < 60:
		return BandFifties
	case age < 70:
		return BandSixties
	default:
		return BandSeventies
	}
}

// Profile carries the user attributes the recommender scores against. All
// fields are optional; zero values mean the corresponding signal is skipped.
type Profile struct {
	Age                int
	Gender             string // "남" or "여"
	PreferredSports    []string
	PreferredIntensity string // 저 / 중 / 고
}

// HasDemographics reports whether both age and gender are present, which is
// required to look up the demographic preference sports.
func (p Profile) HasDemographics() bool {
	return p.Age > 0 && p.Gender != ""
}
