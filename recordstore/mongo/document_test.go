package mongo

import (
	"reflect"
	"testing"

	"github.com/Incarra/svm-contract/incarra"
)

func TestRecordDocumentRoundTrip(t *testing.T) {
	t.Parallel()

	rec := incarra.Record{
		ID:                   "incarra_agent/owner-1",
		Owner:                "owner-1",
		AgentName:            "Nova",
		Personality:          "curious and patient",
		CreatedAt:            1_700_000_000,
		LastInteraction:      1_700_000_600,
		Level:                3,
		Experience:           250,
		Reputation:           24,
		TotalInteractions:    6,
		ResearchProjects:     3,
		DataSourcesConnected: 2,
		AIConversations:      1,
		KnowledgeAreas:       []string{"distributed systems", "poetry"},
		IsActive:             true,
		IdentityClaim:        "did:incarra:nova",
		IdentityVerified:     true,
		VerificationProof:    "proof-payload-0123456789",
		ReputationScore:      78,
		Credentials: []incarra.Credential{
			{Type: "attestation", Data: "sig=abc", Issuer: "registry", IssuedAt: 1_700_000_100, Verified: true},
		},
		Achievements: []incarra.Achievement{
			{Name: "first contact", Description: "completed the first conversation", Score: 10, EarnedAt: 1_700_000_200},
		},
		Version: 4,
	}

	got := newRecordDocument(rec).record()
	if !reflect.DeepEqual(got, rec) {
		t.Fatalf("round trip mismatch:\n got=%+v\nwant=%+v", got, rec)
	}
}

func TestRecordDocumentRoundTripMinimal(t *testing.T) {
	t.Parallel()

	rec := incarra.Record{
		ID:              "incarra_agent/owner-1",
		Owner:           "owner-1",
		AgentName:       "Nova",
		CreatedAt:       1_700_000_000,
		LastInteraction: 1_700_000_000,
		Level:           1,
		IsActive:        true,
	}
	got := newRecordDocument(rec).record()
	if !reflect.DeepEqual(got, rec) {
		t.Fatalf("round trip mismatch:\n got=%+v\nwant=%+v", got, rec)
	}
	if got.KnowledgeAreas != nil || got.Credentials != nil || got.Achievements != nil {
		t.Fatalf("empty lists round tripped non-nil: %+v", got)
	}
}

func TestRecordDocumentDoesNotAliasSlices(t *testing.T) {
	t.Parallel()

	rec := incarra.Record{
		ID:             "incarra_agent/owner-1",
		Owner:          "owner-1",
		AgentName:      "Nova",
		KnowledgeAreas: []string{"poetry"},
	}
	doc := newRecordDocument(rec)
	rec.KnowledgeAreas[0] = "tampered"
	if doc.KnowledgeAreas[0] != "poetry" {
		t.Fatalf("document aliases record memory: %v", doc.KnowledgeAreas)
	}
}
