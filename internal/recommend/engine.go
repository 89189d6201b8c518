package recommend

import (
	"sort"
	"strings"

	"github.com/campmatch/backend/internal/storage/models"
)

// Weights are the per-field score contributions. Activity and amenity matches
// always contribute their intersection cardinality.
type Weights struct {
	Location    int
	LodgingType int
}

// Options configure one matching run.
type Options struct {
	Weights Weights

	// IncludeZeroScores keeps candidates that matched nothing. The canonical
	// ranking excludes them; the browse variant historically did not.
	IncludeZeroScores bool

	// FilterUnavailable drops campgrounds with a booking conflicting with the
	// requested dates before ranking. Disabled by default: unavailable
	// campgrounds remain eligible matches, and only the booking step enforces
	// availability. Kept as an explicit policy toggle rather than a fixed
	// behavior.
	FilterUnavailable bool

	// Limit truncates the ranked results. Zero means DefaultLimit.
	Limit int
}

// DefaultLimit is the top-N cutoff for ranked results.
const DefaultLimit = 3

// DefaultOptions returns the canonical scoring configuration: location 3,
// lodging type 1, zero scores excluded, top 3, no availability filtering.
func DefaultOptions() Options {
	return Options{
		Weights: Weights{Location: 3, LodgingType: 1},
		Limit:   DefaultLimit,
	}
}

// BrowseOptions returns the named variant used by the dateless browse path:
// location weighs 4 and zero-score candidates are kept until truncation.
func BrowseOptions() Options {
	return Options{
		Weights:           Weights{Location: 4, LodgingType: 1},
		IncludeZeroScores: true,
		Limit:             DefaultLimit,
	}
}

func (o Options) withDefaults() Options {
	if o.Weights == (Weights{}) {
		o.Weights = Weights{Location: 3, LodgingType: 1}
	}
	if o.Limit == 0 {
		o.Limit = DefaultLimit
	}
	return o
}

// Match scores the catalog against a preference set and returns the ranked
// top results. Only Active campgrounds are candidates. Results are sorted
// descending by score with a stable tie-break: candidates with equal scores
// keep their catalog order.
func Match(prefs PreferenceSet, campgrounds []models.Campground, opts Options) []MatchResult {
	opts = opts.withDefaults()

	var results []MatchResult
	for i := range campgrounds {
		camp := &campgrounds[i]
		if !camp.IsActive() {
			continue
		}

		score := scoreCampground(prefs, camp, opts.Weights)
		if score == 0 && !opts.IncludeZeroScores {
			continue
		}

		results = append(results, MatchResult{Campground: *camp, Score: score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}

	return results
}

// MatchForDates is Match with a requested date range and the booking list.
// Dates are validated up front (*ParseError on malformed input) so a caller
// cannot rank against a range it could never book. Availability only affects
// the ranking when opts.FilterUnavailable is set; otherwise the dates are
// deliberately not consulted and conflicting campgrounds stay eligible.
func MatchForDates(prefs PreferenceSet, campgrounds []models.Campground, fromDate, toDate string, bookings []models.Booking, opts Options) ([]MatchResult, error) {
	if _, err := ParseDate(fromDate); err != nil {
		return nil, err
	}
	if _, err := ParseDate(toDate); err != nil {
		return nil, err
	}

	candidates := campgrounds
	if opts.FilterUnavailable {
		candidates = make([]models.Campground, 0, len(campgrounds))
		for _, camp := range campgrounds {
			available, err := IsAvailable(camp.ID, fromDate, toDate, bookings)
			if err != nil {
				return nil, err
			}
			if available {
				candidates = append(candidates, camp)
			}
		}
	}

	return Match(prefs, candidates, opts), nil
}

// scoreCampground computes the match score: weighted location and lodging
// type substring hits plus the activity and amenity intersection sizes.
func scoreCampground(prefs PreferenceSet, camp *models.Campground, weights Weights) int {
	score := 0

	if prefs.Location != "" && strings.Contains(strings.ToLower(camp.Location), prefs.Location) {
		score += weights.Location
	}
	if prefs.LodgingType != "" && strings.Contains(strings.ToLower(camp.Type), prefs.LodgingType) {
		score += weights.LodgingType
	}

	score += intersectionSize(prefs.Activities, camp.Activities)
	score += intersectionSize(prefs.Amenities, camp.Amenities)

	return score
}

// intersectionSize counts how many preference terms appear in the
// campground's list, comparing lowercased and trimmed.
func intersectionSize(prefTerms, campTerms []string) int {
	if len(prefTerms) == 0 || len(campTerms) == 0 {
		return 0
	}

	offered := make(map[string]struct{}, len(campTerms))
	for _, term := range campTerms {
		offered[strings.ToLower(strings.TrimSpace(term))] = struct{}{}
	}

	count := 0
	seen := make(map[string]struct{}, len(prefTerms))
	for _, term := range prefTerms {
		key := strings.ToLower(strings.TrimSpace(term))
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if _, ok := offered[key]; ok {
			count++
		}
	}

	return count
}
