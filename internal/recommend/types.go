package recommend

import (
	"github.com/campmatch/backend/internal/storage/models"
)

// PreferenceSet is the structured form of a free-text query. All values are
// lowercased. A zero PreferenceSet means nothing in the text was understood.
// Built fresh per query and never mutated afterwards.
type PreferenceSet struct {
	Location    string   `json:"location,omitempty"`
	LodgingType string   `json:"lodging_type,omitempty"`
	Activities  []string `json:"activities,omitempty"`
	Amenities   []string `json:"amenities,omitempty"`
}

// Empty returns true when no field of the preference set was populated.
// Callers must short-circuit empty sets before matching: the engine cannot
// distinguish "no matches" from "empty query".
func (p PreferenceSet) Empty() bool {
	return p.Location == "" && p.LodgingType == "" &&
		len(p.Activities) == 0 && len(p.Amenities) == 0
}

// MatchResult pairs a campground with its match score. Transient, produced
// per query.
type MatchResult struct {
	Campground models.Campground `json:"campground"`
	Score      int               `json:"score"`
}
