package normalize

import (
	"context"

	"github.com/sanovox/sanovox/pkg/recognizer"
)

// projectEntities re-runs recognition on the fully normalized text and
// buckets the spans by label. This deliberately does not reuse the spans
// from the correction stage: corrections may have changed which terms are
// present, so entities must come from the final text snapshot.
func (c *Cleaner) projectEntities(ctx context.Context, text string) (Entities, error) {
	entities := Entities{
		Medications: []string{},
		Symptoms:    []string{},
		BodyParts:   []string{},
	}
	if text == "" {
		return entities, nil
	}

	spans, err := c.rec.Recognize(ctx, text)
	if err != nil {
		return Entities{}, err
	}

	for _, s := range spans {
		name := s.Canonical
		if name == "" {
			name = s.Text
		}
		switch s.Label {
		case recognizer.LabelMedication:
			entities.Medications = append(entities.Medications, name)
		case recognizer.LabelSymptom:
			entities.Symptoms = append(entities.Symptoms, name)
		case recognizer.LabelBodyPart:
			entities.BodyParts = append(entities.BodyParts, name)
		}
	}
	return entities, nil
}
