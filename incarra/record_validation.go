package incarra

import (
	"fmt"
	"slices"
	"strings"
)

// ValidateRecord checks structural record invariants before persistence
// boundaries. A record that fails here must never be saved or published.
func ValidateRecord(rec Record) error {
	if rec.ID == "" {
		return fmt.Errorf("%w: field=id reason=empty", ErrRecordInvalid)
	}
	if len(rec.ID) > MaxRecordIDLen {
		return fmt.Errorf(
			"%w: field=id reason=too_long len=%d max=%d",
			ErrRecordInvalid,
			len(rec.ID),
			MaxRecordIDLen,
		)
	}
	if rec.Owner == "" {
		return fmt.Errorf("%w: field=owner reason=empty record_id=%q", ErrRecordInvalid, rec.ID)
	}
	if len(rec.Owner) > MaxOwnerLen {
		return fmt.Errorf(
			"%w: field=owner reason=too_long len=%d max=%d record_id=%q",
			ErrRecordInvalid,
			len(rec.Owner),
			MaxOwnerLen,
			rec.ID,
		)
	}
	if !strings.HasSuffix(string(rec.ID), "/"+string(rec.Owner)) {
		return fmt.Errorf(
			"%w: field=id reason=owner_mismatch id=%q owner=%q",
			ErrRecordInvalid,
			rec.ID,
			rec.Owner,
		)
	}
	if err := validateRequiredText("agent_name", rec.AgentName, MaxAgentNameLen); err != nil {
		return err
	}
	if err := validateBoundedText("personality", rec.Personality, MaxPersonalityLen); err != nil {
		return err
	}
	if err := validateKnowledgeAreas(rec.KnowledgeAreas); err != nil {
		return err
	}
	if err := validateCredentials(rec.Credentials); err != nil {
		return err
	}
	if err := validateAchievements(rec.Achievements); err != nil {
		return err
	}
	if want := LevelForExperience(rec.Experience); rec.Level != want {
		return fmt.Errorf(
			"%w: field=level reason=derivation experience=%d level=%d want=%d record_id=%q",
			ErrRecordInvalid,
			rec.Experience,
			rec.Level,
			want,
			rec.ID,
		)
	}
	if sum := rec.ResearchProjects + rec.DataSourcesConnected + rec.AIConversations; rec.TotalInteractions != sum {
		return fmt.Errorf(
			"%w: field=total_interactions reason=counter_sum total=%d sum=%d record_id=%q",
			ErrRecordInvalid,
			rec.TotalInteractions,
			sum,
			rec.ID,
		)
	}
	if rec.LastInteraction < rec.CreatedAt {
		return fmt.Errorf(
			"%w: field=last_interaction reason=before_created value=%d created=%d record_id=%q",
			ErrRecordInvalid,
			rec.LastInteraction,
			rec.CreatedAt,
			rec.ID,
		)
	}
	if rec.IdentityClaim != "" {
		if err := validateIdentityClaim(rec.IdentityClaim); err != nil {
			return err
		}
	}
	if rec.IdentityVerified && rec.IdentityClaim == "" {
		return fmt.Errorf("%w: field=identity_verified reason=unbound record_id=%q", ErrRecordInvalid, rec.ID)
	}
	if rec.IdentityVerified && rec.VerificationProof == "" {
		return fmt.Errorf("%w: field=verification_proof reason=empty record_id=%q", ErrRecordInvalid, rec.ID)
	}
	if rec.VerificationProof != "" && rec.IdentityClaim == "" {
		return fmt.Errorf("%w: field=verification_proof reason=unbound record_id=%q", ErrRecordInvalid, rec.ID)
	}
	// A verified proof met the full contract; an artifact stored at
	// creation is only bounded, its validation is the verifier's job.
	if rec.IdentityVerified {
		if err := validateProof(rec.VerificationProof); err != nil {
			return err
		}
	} else if err := validateBoundedText("verification_proof", rec.VerificationProof, MaxVerificationProofLen); err != nil {
		return err
	}
	if rec.Version < 0 {
		return fmt.Errorf(
			"%w: field=version reason=negative value=%d record_id=%q",
			ErrRecordInvalid,
			rec.Version,
			rec.ID,
		)
	}
	return nil
}

// ValidateSuccession checks that next is a legal successor of prev. It
// guards every dispatch between command application and persistence, so a
// defective transition can never reach a store or a sink.
func ValidateSuccession(prev, next Record) error {
	if next.ID != prev.ID {
		return fmt.Errorf(
			"%w: invariant=id prev=%q next=%q",
			ErrSuccessionInvalid,
			prev.ID,
			next.ID,
		)
	}
	if next.Owner != prev.Owner {
		return fmt.Errorf(
			"%w: invariant=owner prev=%q next=%q record_id=%q",
			ErrSuccessionInvalid,
			prev.Owner,
			next.Owner,
			prev.ID,
		)
	}
	if next.AgentName != prev.AgentName {
		return fmt.Errorf("%w: invariant=agent_name record_id=%q", ErrSuccessionInvalid, prev.ID)
	}
	if next.CreatedAt != prev.CreatedAt {
		return fmt.Errorf(
			"%w: invariant=created_at prev=%d next=%d record_id=%q",
			ErrSuccessionInvalid,
			prev.CreatedAt,
			next.CreatedAt,
			prev.ID,
		)
	}
	if next.IdentityClaim != prev.IdentityClaim {
		return fmt.Errorf("%w: invariant=identity_claim record_id=%q", ErrSuccessionInvalid, prev.ID)
	}
	if !canTransitionIdentity(identityStatusOf(prev), identityStatusOf(next)) {
		return fmt.Errorf(
			"%w: invariant=identity_status prev=%s next=%s record_id=%q",
			ErrSuccessionInvalid,
			identityStatusOf(prev),
			identityStatusOf(next),
			prev.ID,
		)
	}
	if prev.IdentityVerified && next.VerificationProof != prev.VerificationProof {
		return fmt.Errorf("%w: invariant=verification_proof record_id=%q", ErrSuccessionInvalid, prev.ID)
	}
	if !prev.IsActive && next.IsActive {
		return fmt.Errorf("%w: invariant=is_active reason=reactivated record_id=%q", ErrSuccessionInvalid, prev.ID)
	}
	if next.Version != prev.Version {
		return fmt.Errorf(
			"%w: invariant=version prev=%d next=%d record_id=%q",
			ErrSuccessionInvalid,
			prev.Version,
			next.Version,
			prev.ID,
		)
	}

	monotonic := []struct {
		field string
		prev  uint64
		next  uint64
	}{
		{"level", prev.Level, next.Level},
		{"experience", prev.Experience, next.Experience},
		{"reputation", prev.Reputation, next.Reputation},
		{"reputation_score", prev.ReputationScore, next.ReputationScore},
		{"total_interactions", prev.TotalInteractions, next.TotalInteractions},
		{"research_projects", prev.ResearchProjects, next.ResearchProjects},
		{"data_sources_connected", prev.DataSourcesConnected, next.DataSourcesConnected},
		{"ai_conversations", prev.AIConversations, next.AIConversations},
	}
	for _, m := range monotonic {
		if m.next < m.prev {
			return fmt.Errorf(
				"%w: invariant=%s reason=decreased prev=%d next=%d record_id=%q",
				ErrSuccessionInvalid,
				m.field,
				m.prev,
				m.next,
				prev.ID,
			)
		}
	}
	if next.LastInteraction < prev.LastInteraction {
		return fmt.Errorf(
			"%w: invariant=last_interaction reason=decreased prev=%d next=%d record_id=%q",
			ErrSuccessionInvalid,
			prev.LastInteraction,
			next.LastInteraction,
			prev.ID,
		)
	}

	if len(next.KnowledgeAreas) < len(prev.KnowledgeAreas) {
		return fmt.Errorf("%w: invariant=knowledge_areas_length record_id=%q", ErrSuccessionInvalid, prev.ID)
	}
	if !slices.Equal(next.KnowledgeAreas[:len(prev.KnowledgeAreas)], prev.KnowledgeAreas) {
		return fmt.Errorf("%w: invariant=knowledge_areas_prefix record_id=%q", ErrSuccessionInvalid, prev.ID)
	}
	if len(next.Credentials) < len(prev.Credentials) {
		return fmt.Errorf("%w: invariant=credentials_length record_id=%q", ErrSuccessionInvalid, prev.ID)
	}
	if !slices.Equal(next.Credentials[:len(prev.Credentials)], prev.Credentials) {
		return fmt.Errorf("%w: invariant=credentials_prefix record_id=%q", ErrSuccessionInvalid, prev.ID)
	}
	if len(next.Achievements) < len(prev.Achievements) {
		return fmt.Errorf("%w: invariant=achievements_length record_id=%q", ErrSuccessionInvalid, prev.ID)
	}
	if !slices.Equal(next.Achievements[:len(prev.Achievements)], prev.Achievements) {
		return fmt.Errorf("%w: invariant=achievements_prefix record_id=%q", ErrSuccessionInvalid, prev.ID)
	}
	return nil
}

func validateRequiredText(field, value string, maxLen int) error {
	if value == "" {
		return fmt.Errorf("%w: field=%s", ErrFieldEmpty, field)
	}
	return validateBoundedText(field, value, maxLen)
}

func validateBoundedText(field, value string, maxLen int) error {
	if len(value) > maxLen {
		return fmt.Errorf(
			"%w: field=%s len=%d max=%d",
			ErrFieldTooLong,
			field,
			len(value),
			maxLen,
		)
	}
	return nil
}

func validateIdentityClaim(claim string) error {
	if claim == "" {
		return fmt.Errorf("%w: field=identity_claim", ErrFieldEmpty)
	}
	if len(claim) > MaxIdentityClaimLen {
		return fmt.Errorf(
			"%w: field=identity_claim len=%d max=%d",
			ErrIdentityFormatInvalid,
			len(claim),
			MaxIdentityClaimLen,
		)
	}
	return nil
}

func validateProof(proof string) error {
	if len(proof) < MinVerificationProofLen {
		return fmt.Errorf(
			"%w: field=verification_proof len=%d min=%d",
			ErrVerificationProofTooShort,
			len(proof),
			MinVerificationProofLen,
		)
	}
	return validateBoundedText("verification_proof", proof, MaxVerificationProofLen)
}

func validateKnowledgeAreas(areas []string) error {
	if len(areas) > MaxKnowledgeAreas {
		return fmt.Errorf(
			"%w: field=knowledge_areas len=%d max=%d",
			ErrCapacityExceeded,
			len(areas),
			MaxKnowledgeAreas,
		)
	}
	seen := make(map[string]struct{}, len(areas))
	for _, area := range areas {
		if err := validateRequiredText("knowledge_area", area, MaxKnowledgeAreaLen); err != nil {
			return err
		}
		if _, ok := seen[area]; ok {
			return fmt.Errorf("%w: field=knowledge_areas reason=duplicate value=%q", ErrRecordInvalid, area)
		}
		seen[area] = struct{}{}
	}
	return nil
}

func validateCredentials(creds []Credential) error {
	if len(creds) > MaxCredentials {
		return fmt.Errorf(
			"%w: field=credentials len=%d max=%d",
			ErrCapacityExceeded,
			len(creds),
			MaxCredentials,
		)
	}
	for _, cred := range creds {
		if err := validateRequiredText("credential_type", cred.Type, MaxCredentialTypeLen); err != nil {
			return err
		}
		if err := validateBoundedText("credential_data", cred.Data, MaxCredentialDataLen); err != nil {
			return err
		}
		if err := validateBoundedText("issuer", cred.Issuer, MaxIssuerLen); err != nil {
			return err
		}
	}
	return nil
}

func validateAchievements(achievements []Achievement) error {
	if len(achievements) > MaxAchievements {
		return fmt.Errorf(
			"%w: field=achievements len=%d max=%d",
			ErrCapacityExceeded,
			len(achievements),
			MaxAchievements,
		)
	}
	for _, a := range achievements {
		if err := validateRequiredText("achievement_name", a.Name, MaxAchievementNameLen); err != nil {
			return err
		}
		if err := validateBoundedText("achievement_description", a.Description, MaxAchievementDescLen); err != nil {
			return err
		}
		if a.Score > MaxAchievementScore {
			return fmt.Errorf(
				"%w: field=achievement_score value=%d max=%d",
				ErrGainOutOfRange,
				a.Score,
				MaxAchievementScore,
			)
		}
	}
	return nil
}
