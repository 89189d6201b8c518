package recommend

import (
	"strings"
)

// Vocabulary holds the fixed term lists the extractor matches against.
// Matching is substring containment on lowercased text, not tokenization:
// multi-word terms like "cultural shows" match as contiguous substrings, and
// a term embedded in a longer word still matches. That false-positive risk is
// accepted for compatibility with the scoring expectations downstream.
type Vocabulary struct {
	// Gazetteer is the fallback list of known place names, checked in order
	// when entity recognition finds no place.
	Gazetteer []string

	// LodgingTypes is checked in priority order; the first match wins.
	LodgingTypes []string

	Activities []string
	Amenities  []string
}

// DefaultVocabulary returns the built-in term lists.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Gazetteer: []string{
			"maharashtra", "himachal pradesh", "kerala",
			"uttarakhand", "gujarat", "tamil nadu", "rajasthan", "london",
		},
		LodgingTypes: []string{"tent", "cabin", "rv"},
		Activities: []string{
			"hiking", "bonfire", "trekking", "boating",
			"cultural shows", "stargazing", "fishing",
		},
		Amenities: []string{"toilets", "water", "firewood", "wi-fi"},
	}
}

// Extractor parses free-text queries into preference tag sets.
type Extractor struct {
	recognizer EntityRecognizer
	vocab      Vocabulary
}

// NewExtractor creates an extractor. The recognizer may be nil, in which case
// location extraction relies on the gazetteer alone. Empty vocabulary lists
// fall back to the defaults.
func NewExtractor(recognizer EntityRecognizer, vocab Vocabulary) *Extractor {
	defaults := DefaultVocabulary()
	if len(vocab.Gazetteer) == 0 {
		vocab.Gazetteer = defaults.Gazetteer
	}
	if len(vocab.LodgingTypes) == 0 {
		vocab.LodgingTypes = defaults.LodgingTypes
	}
	if len(vocab.Activities) == 0 {
		vocab.Activities = defaults.Activities
	}
	if len(vocab.Amenities) == 0 {
		vocab.Amenities = defaults.Amenities
	}

	return &Extractor{recognizer: recognizer, vocab: vocab}
}

// Extract parses arbitrary free text into a PreferenceSet. It never fails:
// unrecognizable text yields an empty set. Deterministic for a given text,
// vocabulary and recognizer.
//
// Location resolution order:
//  1. first place entity from the recognizer, in text-position order
//  2. first gazetteer entry contained in the text, in gazetteer order
func (e *Extractor) Extract(text string) PreferenceSet {
	lowered := strings.ToLower(text)
	prefs := PreferenceSet{}

	if e.recognizer != nil {
		// Recognizer errors are not fatal; the gazetteer covers the fallback.
		if entities, err := e.recognizer.Entities(lowered); err == nil {
			for _, ent := range entities {
				if ent.Label == LabelPlace {
					prefs.Location = strings.ToLower(strings.TrimSpace(ent.Text))
					break
				}
			}
		}
	}

	if prefs.Location == "" {
		for _, place := range e.vocab.Gazetteer {
			if strings.Contains(lowered, strings.ToLower(place)) {
				prefs.Location = strings.ToLower(place)
				break
			}
		}
	}

	for _, lodging := range e.vocab.LodgingTypes {
		if strings.Contains(lowered, strings.ToLower(lodging)) {
			prefs.LodgingType = strings.ToLower(lodging)
			break
		}
	}

	prefs.Activities = containedTerms(lowered, e.vocab.Activities)
	prefs.Amenities = containedTerms(lowered, e.vocab.Amenities)

	return prefs
}

// containedTerms returns the vocabulary terms found as substrings of the
// text, lowercased, in vocabulary order.
func containedTerms(lowered string, vocab []string) []string {
	var found []string
	for _, term := range vocab {
		if strings.Contains(lowered, strings.ToLower(term)) {
			found = append(found, strings.ToLower(term))
		}
	}
	return found
}
