package incarra

import "fmt"

// LevelForExperience derives the level for a total experience balance.
// Levels start at 1 and advance every ExperiencePerLevel points; level is
// never stored independently of experience.
func LevelForExperience(experience uint64) uint64 {
	return experience/ExperiencePerLevel + 1
}

// applyInteraction advances progression state for one logged interaction.
// The level-up event, when one fires, precedes the interaction event so
// stream consumers observe the level change before the activity that caused
// it is acknowledged.
func applyInteraction(prev Record, cmd RecordInteraction, now int64) (Record, []Event, error) {
	if cmd.ExperienceGained > MaxExperienceGain {
		return Record{}, nil, fmt.Errorf(
			"%w: field=experience_gained value=%d max=%d",
			ErrGainOutOfRange,
			cmd.ExperienceGained,
			MaxExperienceGain,
		)
	}
	reputationGained, ok := cmd.Category.ReputationGain()
	if !ok {
		return Record{}, nil, fmt.Errorf("%w: field=category value=%q", ErrCommandInvalid, cmd.Category)
	}
	if err := validateBoundedText("context", cmd.Context, MaxPersonalityLen); err != nil {
		return Record{}, nil, err
	}
	if prev.IdentityVerified {
		reputationGained += VerifiedInteractionBonus
	}

	next := CloneRecord(prev)
	next.Experience += cmd.ExperienceGained
	next.Reputation += reputationGained
	next.ReputationScore += reputationGained
	next.TotalInteractions++
	switch cmd.Category {
	case InteractionResearchQuery, InteractionProblemSolving:
		next.ResearchProjects++
	case InteractionDataAnalysis:
		next.DataSourcesConnected++
	case InteractionConversation:
		next.AIConversations++
	}
	next.LastInteraction = now
	next.Level = LevelForExperience(next.Experience)

	var events []Event
	if next.Level > prev.Level {
		events = append(events, newLevelUpEvent(next, prev.Level, now))
	}
	events = append(events, newInteractionRecordedEvent(next, cmd, reputationGained, now))
	return next, events, nil
}
