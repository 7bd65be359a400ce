package incarra

import "fmt"

// ValidateEvent checks event payload invariants before publish boundaries.
func ValidateEvent(event Event) error {
	if !isKnownEventType(event.Type) {
		return fmt.Errorf("%w: field=type reason=unknown value=%q", ErrEventInvalid, event.Type)
	}
	if event.RecordID == "" {
		return fmt.Errorf("%w: field=record_id reason=empty type=%s", ErrEventInvalid, event.Type)
	}
	if event.Owner == "" {
		return fmt.Errorf(
			"%w: field=owner reason=empty type=%s record_id=%q",
			ErrEventInvalid,
			event.Type,
			event.RecordID,
		)
	}
	if event.Timestamp <= 0 {
		return fmt.Errorf(
			"%w: field=timestamp reason=nonpositive value=%d type=%s record_id=%q",
			ErrEventInvalid,
			event.Timestamp,
			event.Type,
			event.RecordID,
		)
	}

	switch event.Type {
	case EventTypeInteractionRecorded:
		if _, ok := event.Category.ReputationGain(); !ok {
			return fmt.Errorf(
				"%w: field=category reason=unknown value=%q type=%s record_id=%q",
				ErrEventInvalid,
				event.Category,
				event.Type,
				event.RecordID,
			)
		}
	case EventTypeLevelUp:
		if event.NewLevel <= event.OldLevel {
			return fmt.Errorf(
				"%w: field=new_level reason=not_above_old old=%d new=%d record_id=%q",
				ErrEventInvalid,
				event.OldLevel,
				event.NewLevel,
				event.RecordID,
			)
		}
	case EventTypeKnowledgeAreaAdded:
		if event.KnowledgeArea == "" {
			return fmt.Errorf(
				"%w: field=knowledge_area reason=empty type=%s record_id=%q",
				ErrEventInvalid,
				event.Type,
				event.RecordID,
			)
		}
	case EventTypeIdentityVerified:
		if event.IdentityClaim == "" {
			return fmt.Errorf(
				"%w: field=identity_claim reason=empty type=%s record_id=%q",
				ErrEventInvalid,
				event.Type,
				event.RecordID,
			)
		}
	case EventTypeCredentialAdded:
		if event.CredentialType == "" {
			return fmt.Errorf(
				"%w: field=credential_type reason=empty type=%s record_id=%q",
				ErrEventInvalid,
				event.Type,
				event.RecordID,
			)
		}
	case EventTypeAchievementUnlocked:
		if event.AchievementName == "" {
			return fmt.Errorf(
				"%w: field=achievement_name reason=empty type=%s record_id=%q",
				ErrEventInvalid,
				event.Type,
				event.RecordID,
			)
		}
	}

	return nil
}

func isKnownEventType(t EventType) bool {
	switch t {
	case EventTypeAgentCreated,
		EventTypeInteractionRecorded,
		EventTypeLevelUp,
		EventTypeKnowledgeAreaAdded,
		EventTypePersonalityUpdated,
		EventTypeIdentityVerified,
		EventTypeCredentialAdded,
		EventTypeAchievementUnlocked,
		EventTypeAgentDeactivated:
		return true
	default:
		return false
	}
}
