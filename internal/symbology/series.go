package symbology

// SeriesAbbreviation maps a lowercase series-name fragment to its ticker root.
type SeriesAbbreviation struct {
	Pattern      string
	Abbreviation string
}

// SeriesDictionary is checked in order and the first pattern contained in
// the series text wins, so more specific names must precede the generic
// ones they contain ("amazing spider-man" before "spider-man").
var SeriesDictionary = []SeriesAbbreviation{
	{"amazing spider-man", "ASM"},
	{"amazing spiderman", "ASM"},
	{"spectacular spider-man", "SPEC"},
	{"ultimate spider-man", "USM"},
	{"spider-man", "SPDR"},
	{"spiderman", "SPDR"},
	{"batman", "BATM"},
	{"detective comics", "DETC"},
	{"batman detective comics", "DETC"},
	{"superman", "SUPM"},
	{"action comics", "ACTC"},
	{"uncanny x-men", "UXM"},
	{"x-men", "XMEN"},
	{"astonishing x-men", "AXM"},
	{"avengers", "AVNG"},
	{"new avengers", "NAVG"},
	{"justice league", "JLA"},
	{"fantastic four", "FF"},
	{"hulk", "HULK"},
	{"incredible hulk", "IHULK"},
	{"iron man", "IRON"},
	{"captain america", "CAP"},
	{"thor", "THOR"},
	{"wonder woman", "WW"},
	{"flash", "FLSH"},
	{"green lantern", "GL"},
	{"daredevil", "DD"},
	{"punisher", "PNSH"},
	{"wolverine", "WOLV"},
	{"deadpool", "DPOOL"},
	{"spawn", "SPWN"},
	{"walking dead", "TWD"},
	{"saga", "SAGA"},
	{"invincible", "INVC"},
}
