package mongo

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Incarra/svm-contract/incarra"
)

// recordDocument is the BSON shape of one agent record. Numeric fields are
// int64 because BSON has no unsigned integers; every counter is bounded far
// below the signed range.
type recordDocument struct {
	ID                   primitive.ObjectID    `bson:"_id,omitempty"`
	RecordID             string                `bson:"record_id"`
	Owner                string                `bson:"owner"`
	AgentName            string                `bson:"agent_name"`
	Personality          string                `bson:"personality"`
	CreatedAt            int64                 `bson:"created_at"`
	LastInteraction      int64                 `bson:"last_interaction"`
	Level                int64                 `bson:"level"`
	Experience           int64                 `bson:"experience"`
	Reputation           int64                 `bson:"reputation"`
	TotalInteractions    int64                 `bson:"total_interactions"`
	ResearchProjects     int64                 `bson:"research_projects"`
	DataSourcesConnected int64                 `bson:"data_sources_connected"`
	AIConversations      int64                 `bson:"ai_conversations"`
	KnowledgeAreas       []string              `bson:"knowledge_areas,omitempty"`
	IsActive             bool                  `bson:"is_active"`
	IdentityClaim        string                `bson:"identity_claim,omitempty"`
	IdentityVerified     bool                  `bson:"identity_verified"`
	VerificationProof    string                `bson:"verification_proof,omitempty"`
	ReputationScore      int64                 `bson:"reputation_score"`
	Credentials          []credentialDocument  `bson:"credentials,omitempty"`
	Achievements         []achievementDocument `bson:"achievements,omitempty"`
	Version              int64                 `bson:"version"`
}

type credentialDocument struct {
	Type     string `bson:"type"`
	Data     string `bson:"data,omitempty"`
	Issuer   string `bson:"issuer,omitempty"`
	IssuedAt int64  `bson:"issued_at"`
	Verified bool   `bson:"verified"`
}

type achievementDocument struct {
	Name        string `bson:"name"`
	Description string `bson:"description,omitempty"`
	Score       int64  `bson:"score"`
	EarnedAt    int64  `bson:"earned_at"`
}

func newRecordDocument(rec incarra.Record) recordDocument {
	doc := recordDocument{
		RecordID:             string(rec.ID),
		Owner:                string(rec.Owner),
		AgentName:            rec.AgentName,
		Personality:          rec.Personality,
		CreatedAt:            rec.CreatedAt,
		LastInteraction:      rec.LastInteraction,
		Level:                int64(rec.Level),
		Experience:           int64(rec.Experience),
		Reputation:           int64(rec.Reputation),
		TotalInteractions:    int64(rec.TotalInteractions),
		ResearchProjects:     int64(rec.ResearchProjects),
		DataSourcesConnected: int64(rec.DataSourcesConnected),
		AIConversations:      int64(rec.AIConversations),
		IsActive:             rec.IsActive,
		IdentityClaim:        rec.IdentityClaim,
		IdentityVerified:     rec.IdentityVerified,
		VerificationProof:    rec.VerificationProof,
		ReputationScore:      int64(rec.ReputationScore),
		Version:              rec.Version,
	}
	if len(rec.KnowledgeAreas) > 0 {
		doc.KnowledgeAreas = append([]string(nil), rec.KnowledgeAreas...)
	}
	for _, cred := range rec.Credentials {
		doc.Credentials = append(doc.Credentials, credentialDocument{
			Type:     cred.Type,
			Data:     cred.Data,
			Issuer:   cred.Issuer,
			IssuedAt: cred.IssuedAt,
			Verified: cred.Verified,
		})
	}
	for _, a := range rec.Achievements {
		doc.Achievements = append(doc.Achievements, achievementDocument{
			Name:        a.Name,
			Description: a.Description,
			Score:       int64(a.Score),
			EarnedAt:    a.EarnedAt,
		})
	}
	return doc
}

func (d recordDocument) record() incarra.Record {
	rec := incarra.Record{
		ID:                   incarra.RecordID(d.RecordID),
		Owner:                incarra.OwnerID(d.Owner),
		AgentName:            d.AgentName,
		Personality:          d.Personality,
		CreatedAt:            d.CreatedAt,
		LastInteraction:      d.LastInteraction,
		Level:                uint64(d.Level),
		Experience:           uint64(d.Experience),
		Reputation:           uint64(d.Reputation),
		TotalInteractions:    uint64(d.TotalInteractions),
		ResearchProjects:     uint64(d.ResearchProjects),
		DataSourcesConnected: uint64(d.DataSourcesConnected),
		AIConversations:      uint64(d.AIConversations),
		IsActive:             d.IsActive,
		IdentityClaim:        d.IdentityClaim,
		IdentityVerified:     d.IdentityVerified,
		VerificationProof:    d.VerificationProof,
		ReputationScore:      uint64(d.ReputationScore),
		Version:              d.Version,
	}
	if len(d.KnowledgeAreas) > 0 {
		rec.KnowledgeAreas = append([]string(nil), d.KnowledgeAreas...)
	}
	for _, cred := range d.Credentials {
		rec.Credentials = append(rec.Credentials, incarra.Credential{
			Type:     cred.Type,
			Data:     cred.Data,
			Issuer:   cred.Issuer,
			IssuedAt: cred.IssuedAt,
			Verified: cred.Verified,
		})
	}
	for _, a := range d.Achievements {
		rec.Achievements = append(rec.Achievements, incarra.Achievement{
			Name:        a.Name,
			Description: a.Description,
			Score:       uint64(a.Score),
			EarnedAt:    a.EarnedAt,
		})
	}
	return rec
}
