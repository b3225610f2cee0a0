package sefaria

import "testing"

func TestNormalizeRef(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Genesis 1:1", "Genesis_1:1"},
		{"already normalized", "Genesis_1:1", "Genesis_1:1"},
		{"parashat stripped", "Ben Ish Hai, Year 1, Parashat Nitzavim 4", "Ben_Ish_Hai,_Year_1,_Nitzavim_4"},
		{"parshat stripped", "Parshat Noach 3", "Noach_3"},
		{"perek stripped case-insensitive", "PEREK Shira", "Shira"},
		{"surrounding whitespace", "  Shabbat 21b  ", "Shabbat_21b"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeRef(tt.in)
			if got != tt.want {
				t.Errorf("NormalizeRef(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeRefIdempotent(t *testing.T) {
	refs := []string{
		"Shulchan Arukh, Orach Chayim 168:7",
		"Parashat Nitzavim 4",
		"Genesis.1.1",
	}
	for _, ref := range refs {
		once := NormalizeRef(ref)
		twice := NormalizeRef(once)
		if once != twice {
			t.Errorf("NormalizeRef not idempotent for %q: %q != %q", ref, once, twice)
		}
	}
}

func TestHasSegmentSuffix(t *testing.T) {
	tests := []struct {
		ref  string
		want bool
	}{
		{"Genesis 1:1", true},
		{"Mishnah Berurah 25.4", true},
		{"Shabbat 21b", false},
		{"Orot HaTeshuvah", false},
		{"Orot HaTeshuvah 5", false},
	}
	for _, tt := range tests {
		if got := hasSegmentSuffix(tt.ref); got != tt.want {
			t.Errorf("hasSegmentSuffix(%q) = %v, want %v", tt.ref, got, tt.want)
		}
	}
}
