// internal/domain/profile/profile_test.go

package profile

import "testing"

func TestAgeBand(t *testing.T) {
	cases := []struct {
		age  int
		want string
	}{
		{0, BandTeens},
		{9, BandTeens},
		{19, BandTeens},
		{20, BandTwenties},
		{25, BandTwenties},
		{29, BandTwenties},
		{30, BandThirties},
		{39, BandThirties},
		{40, BandForties},
		{49, BandForties},
		{50, BandFifties},
		{59, BandFifties},
		{60, BandSixties},
		{69, BandSixties},
		{70, BandSeventies},
		{95, BandSeventies},
	}

	for _, c := range cases {
		if got := AgeBand(c.age); got != c.want {
			t.Errorf("AgeBand(%d) = %q, want %q", c.age, got, c.want)
		}
	}
}

func TestAgeBandMonotonic(t *testing.T) {
	order := map[string]int{
		BandTeens:     0,
		BandTwenties:  1,
		BandThirties:  2,
		BandForties:   3,
		BandFifties:   4,
		BandSixties:   5,
		BandSeventies: 6,
	}

	prev := -1
	for age := 0; age <= 100; age++ {
		idx, ok := order[AgeBand(age)]
		if !ok {
			t.Fatalf("AgeBand(%d) returned unknown label %q", age, AgeBand(age))
		}
		if idx < prev {
			t.Fatalf("band index decreased at age %d", age)
		}
		prev = idx
	}
}

func TestHasDemographics(t *testing.T) {
	if (Profile{Age: 25}).HasDemographics() {
		t.Error("age alone should not satisfy demographics")
	}
	if (Profile{Gender: "남"}).HasDemographics() {
		t.Error("gender alone should not satisfy demographics")
	}
	if !(Profile{Age: 25, Gender: "남"}).HasDemographics() {
		t.Error("age + gender should satisfy demographics")
	}
}
