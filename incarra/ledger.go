package incarra

import "fmt"

// applyAddCredential appends one credential entry and grants the flat
// credential reputation score. Credentials are open only to records with a
// verified identity; IssuedAt is stamped by the record clock, not the
// caller.
func applyAddCredential(prev Record, cmd AddCredential, now int64) (Record, []Event, error) {
	if !prev.IdentityVerified {
		return Record{}, nil, fmt.Errorf("%w: record_id=%q", ErrIdentityNotVerified, prev.ID)
	}
	if err := validateRequiredText("credential_type", cmd.Type, MaxCredentialTypeLen); err != nil {
		return Record{}, nil, err
	}
	if err := validateBoundedText("credential_data", cmd.Data, MaxCredentialDataLen); err != nil {
		return Record{}, nil, err
	}
	if err := validateBoundedText("issuer", cmd.Issuer, MaxIssuerLen); err != nil {
		return Record{}, nil, err
	}
	if len(prev.Credentials) >= MaxCredentials {
		return Record{}, nil, fmt.Errorf(
			"%w: field=credentials len=%d max=%d record_id=%q",
			ErrCapacityExceeded,
			len(prev.Credentials),
			MaxCredentials,
			prev.ID,
		)
	}
	next := CloneRecord(prev)
	next.Credentials = append(next.Credentials, Credential{
		Type:     cmd.Type,
		Data:     cmd.Data,
		Issuer:   cmd.Issuer,
		IssuedAt: now,
	})
	next.ReputationScore += CredentialReputationScore
	next.LastInteraction = now
	return next, []Event{newCredentialAddedEvent(next, cmd, now)}, nil
}

// applyUnlockAchievement appends one achievement entry. The achievement
// score flows into the reputation score in full, so it is bounded the same
// way experience gains are.
func applyUnlockAchievement(prev Record, cmd UnlockAchievement, now int64) (Record, []Event, error) {
	if err := validateRequiredText("achievement_name", cmd.Name, MaxAchievementNameLen); err != nil {
		return Record{}, nil, err
	}
	if err := validateBoundedText("achievement_description", cmd.Description, MaxAchievementDescLen); err != nil {
		return Record{}, nil, err
	}
	if cmd.Score > MaxAchievementScore {
		return Record{}, nil, fmt.Errorf(
			"%w: field=score value=%d max=%d",
			ErrGainOutOfRange,
			cmd.Score,
			MaxAchievementScore,
		)
	}
	if len(prev.Achievements) >= MaxAchievements {
		return Record{}, nil, fmt.Errorf(
			"%w: field=achievements len=%d max=%d record_id=%q",
			ErrCapacityExceeded,
			len(prev.Achievements),
			MaxAchievements,
			prev.ID,
		)
	}
	next := CloneRecord(prev)
	next.Achievements = append(next.Achievements, Achievement{
		Name:        cmd.Name,
		Description: cmd.Description,
		Score:       cmd.Score,
		EarnedAt:    now,
	})
	next.ReputationScore += cmd.Score
	next.LastInteraction = now
	return next, []Event{newAchievementUnlockedEvent(next, cmd, now)}, nil
}
