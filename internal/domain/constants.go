package domain

const (
	SpeciesDog   = "DOG"
	SpeciesCat   = "CAT"
	SpeciesOther = "OTHER"
)

const (
	SexMale   = "MALE"
	SexFemale = "FEMALE"
)

const (
	HelpPostLost     = "LOST"
	HelpPostFound    = "FOUND"
	HelpPostAdoption = "ADOPTION"
)

const (
	NotifMatchConfirmed = "MATCH_CONFIRMED"
	NotifMatchProposed  = "MATCH_PROPOSED"
	NotifHelpPostNearby = "HELP_POST_NEARBY"
)

// ValidSpecies reports whether s is one of the supported species values.
func ValidSpecies(s string) bool {
	return s == SpeciesDog || s == SpeciesCat || s == SpeciesOther
}

// ValidHelpPostType reports whether t is a supported help board post type.
func ValidHelpPostType(t string) bool {
	return t == HelpPostLost || t == HelpPostFound || t == HelpPostAdoption
}
