package recommend

import (
	prose "github.com/jdkato/prose/v2"
)

// LabelPlace is the entity label for geographic/political place names.
const LabelPlace = "GPE"

// Entity is a named entity recognized in query text.
type Entity struct {
	Text  string
	Label string
}

// EntityRecognizer extracts named entities from text. Implementations must
// return entities in text-position order (left to right); the extractor takes
// the first place entity it sees. Implementations must be safe for concurrent
// use: one recognizer is constructed at process start and shared.
type EntityRecognizer interface {
	Entities(text string) ([]Entity, error)
}

// ProseRecognizer is an EntityRecognizer backed by the prose NLP library.
type ProseRecognizer struct{}

// NewProseRecognizer creates a prose-backed entity recognizer.
func NewProseRecognizer() *ProseRecognizer {
	return &ProseRecognizer{}
}

// Entities tokenizes and tags the text with prose and returns its named
// entities in text order.
func (r *ProseRecognizer) Entities(text string) ([]Entity, error) {
	doc, err := prose.NewDocument(text)
	if err != nil {
		return nil, err
	}

	ents := doc.Entities()
	out := make([]Entity, 0, len(ents))
	for _, e := range ents {
		out = append(out, Entity{Text: e.Text, Label: e.Label})
	}
	return out, nil
}
