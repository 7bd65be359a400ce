package incarra

import "fmt"

// newRecord builds the initial record for an initialize command. The
// returned record carries Version 0; the store assigns 1 when it first
// persists.
func newRecord(namespace string, cmd InitializeAgent, now int64) (Record, error) {
	if err := validateRequiredText("owner", string(cmd.Caller), MaxOwnerLen); err != nil {
		return Record{}, err
	}
	if err := validateRequiredText("agent_name", cmd.AgentName, MaxAgentNameLen); err != nil {
		return Record{}, err
	}
	if err := validateBoundedText("personality", cmd.Personality, MaxPersonalityLen); err != nil {
		return Record{}, err
	}
	if cmd.IdentityClaim != "" {
		if err := validateIdentityClaim(cmd.IdentityClaim); err != nil {
			return Record{}, err
		}
	}
	if cmd.VerificationSignature != "" {
		if cmd.IdentityClaim == "" {
			return Record{}, fmt.Errorf("%w: field=verification_signature reason=unbound", ErrIdentityFormatInvalid)
		}
		if err := validateBoundedText("verification_signature", cmd.VerificationSignature, MaxVerificationProofLen); err != nil {
			return Record{}, err
		}
	}
	return Record{
		ID:                DeriveRecordID(namespace, cmd.Caller),
		Owner:             cmd.Caller,
		AgentName:         cmd.AgentName,
		Personality:       cmd.Personality,
		CreatedAt:         now,
		LastInteraction:   now,
		Level:             LevelForExperience(0),
		IsActive:          true,
		IdentityClaim:     cmd.IdentityClaim,
		VerificationProof: cmd.VerificationSignature,
	}, nil
}

// applyUpdatePersonality replaces the personality text. An empty string is
// a legal personality, so only the ceiling is enforced.
func applyUpdatePersonality(prev Record, cmd UpdatePersonality, now int64) (Record, []Event, error) {
	if err := validateBoundedText("personality", cmd.Personality, MaxPersonalityLen); err != nil {
		return Record{}, nil, err
	}
	next := CloneRecord(prev)
	next.Personality = cmd.Personality
	next.LastInteraction = now
	return next, []Event{newPersonalityUpdatedEvent(next, now)}, nil
}

// applyDeactivate retires the record. A record that is already dormant is
// left untouched: no write, no event.
func applyDeactivate(prev Record, now int64) (Record, []Event, error) {
	if !prev.IsActive {
		return CloneRecord(prev), nil, nil
	}
	next := CloneRecord(prev)
	next.IsActive = false
	next.LastInteraction = now
	return next, []Event{newAgentDeactivatedEvent(next, now)}, nil
}
