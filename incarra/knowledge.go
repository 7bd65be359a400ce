package incarra

import (
	"fmt"
	"slices"
)

// applyAddKnowledgeArea appends one knowledge area and grants the learning
// reputation bonus. An area the record already holds is absorbed silently:
// no write, no event, no bonus.
func applyAddKnowledgeArea(prev Record, cmd AddKnowledgeArea, now int64) (Record, []Event, error) {
	if err := validateRequiredText("knowledge_area", cmd.Area, MaxKnowledgeAreaLen); err != nil {
		return Record{}, nil, err
	}
	if slices.Contains(prev.KnowledgeAreas, cmd.Area) {
		return CloneRecord(prev), nil, nil
	}
	if len(prev.KnowledgeAreas) >= MaxKnowledgeAreas {
		return Record{}, nil, fmt.Errorf(
			"%w: field=knowledge_areas len=%d max=%d record_id=%q",
			ErrCapacityExceeded,
			len(prev.KnowledgeAreas),
			MaxKnowledgeAreas,
			prev.ID,
		)
	}
	next := CloneRecord(prev)
	next.KnowledgeAreas = append(next.KnowledgeAreas, cmd.Area)
	next.Reputation += KnowledgeAreaReputation
	next.LastInteraction = now
	return next, []Event{newKnowledgeAreaAddedEvent(next, cmd.Area, now)}, nil
}
