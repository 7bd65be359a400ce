package incarra

// EventType is emitted once per record transition for observability and
// streaming.
type EventType string

const (
	EventTypeAgentCreated        EventType = "agent_created"
	EventTypeInteractionRecorded EventType = "interaction_recorded"
	EventTypeLevelUp             EventType = "level_up"
	EventTypeKnowledgeAreaAdded  EventType = "knowledge_area_added"
	EventTypePersonalityUpdated  EventType = "personality_updated"
	EventTypeIdentityVerified    EventType = "identity_verified"
	EventTypeCredentialAdded     EventType = "credential_added"
	EventTypeAchievementUnlocked EventType = "achievement_unlocked"
	EventTypeAgentDeactivated    EventType = "agent_deactivated"
)

// Event is intentionally flat so adapters can map it to logs, documents, or
// stream frames without type switches. Payload fields not used by a type
// stay at their zero value.
type Event struct {
	Type      EventType `json:"type"`
	RecordID  RecordID  `json:"record_id"`
	Owner     OwnerID   `json:"owner"`
	Timestamp int64     `json:"timestamp"`

	AgentName   string `json:"agent_name,omitempty"`
	Personality string `json:"personality,omitempty"`

	Category         InteractionCategory `json:"category,omitempty"`
	ExperienceGained uint64              `json:"experience_gained,omitempty"`
	ReputationGained uint64              `json:"reputation_gained,omitempty"`
	Context          string              `json:"context,omitempty"`

	OldLevel uint64 `json:"old_level,omitempty"`
	NewLevel uint64 `json:"new_level,omitempty"`

	KnowledgeArea string `json:"knowledge_area,omitempty"`

	IdentityClaim string `json:"identity_claim,omitempty"`

	CredentialType string `json:"credential_type,omitempty"`
	Issuer         string `json:"issuer,omitempty"`

	AchievementName string `json:"achievement_name,omitempty"`
	Score           uint64 `json:"score,omitempty"`
}

func newAgentCreatedEvent(rec Record, now int64) Event {
	return Event{
		Type:          EventTypeAgentCreated,
		RecordID:      rec.ID,
		Owner:         rec.Owner,
		Timestamp:     now,
		AgentName:     rec.AgentName,
		IdentityClaim: rec.IdentityClaim,
	}
}

func newInteractionRecordedEvent(rec Record, cmd RecordInteraction, reputationGained uint64, now int64) Event {
	return Event{
		Type:             EventTypeInteractionRecorded,
		RecordID:         rec.ID,
		Owner:            rec.Owner,
		Timestamp:        now,
		Category:         cmd.Category,
		ExperienceGained: cmd.ExperienceGained,
		ReputationGained: reputationGained,
		Context:          cmd.Context,
		NewLevel:         rec.Level,
	}
}

// newLevelUpEvent carries the level held before the interaction applied, so
// a jump across several levels reports its true origin.
func newLevelUpEvent(rec Record, oldLevel uint64, now int64) Event {
	return Event{
		Type:      EventTypeLevelUp,
		RecordID:  rec.ID,
		Owner:     rec.Owner,
		Timestamp: now,
		OldLevel:  oldLevel,
		NewLevel:  rec.Level,
	}
}

func newKnowledgeAreaAddedEvent(rec Record, area string, now int64) Event {
	return Event{
		Type:          EventTypeKnowledgeAreaAdded,
		RecordID:      rec.ID,
		Owner:         rec.Owner,
		Timestamp:     now,
		KnowledgeArea: area,
	}
}

func newPersonalityUpdatedEvent(rec Record, now int64) Event {
	return Event{
		Type:        EventTypePersonalityUpdated,
		RecordID:    rec.ID,
		Owner:       rec.Owner,
		Timestamp:   now,
		Personality: rec.Personality,
	}
}

func newIdentityVerifiedEvent(rec Record, now int64) Event {
	return Event{
		Type:          EventTypeIdentityVerified,
		RecordID:      rec.ID,
		Owner:         rec.Owner,
		Timestamp:     now,
		IdentityClaim: rec.IdentityClaim,
	}
}

func newCredentialAddedEvent(rec Record, cmd AddCredential, now int64) Event {
	return Event{
		Type:           EventTypeCredentialAdded,
		RecordID:       rec.ID,
		Owner:          rec.Owner,
		Timestamp:      now,
		CredentialType: cmd.Type,
		Issuer:         cmd.Issuer,
	}
}

func newAchievementUnlockedEvent(rec Record, cmd UnlockAchievement, now int64) Event {
	return Event{
		Type:            EventTypeAchievementUnlocked,
		RecordID:        rec.ID,
		Owner:           rec.Owner,
		Timestamp:       now,
		AchievementName: cmd.Name,
		Score:           cmd.Score,
	}
}

func newAgentDeactivatedEvent(rec Record, now int64) Event {
	return Event{
		Type:      EventTypeAgentDeactivated,
		RecordID:  rec.ID,
		Owner:     rec.Owner,
		Timestamp: now,
		AgentName: rec.AgentName,
	}
}
