package incarra_test

import (
	"testing"

	"github.com/Incarra/svm-contract/incarra"
)

func TestDeriveRecordID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		namespace string
		owner     incarra.OwnerID
		want      incarra.RecordID
	}{
		{"default namespace", "incarra_agent", "owner-1", "incarra_agent/owner-1"},
		{"custom namespace", "staging", "owner-1", "staging/owner-1"},
		{"hex owner", "incarra_agent", "9f2c", "incarra_agent/9f2c"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := incarra.DeriveRecordID(tc.namespace, tc.owner); got != tc.want {
				t.Fatalf("unexpected id: got=%q want=%q", got, tc.want)
			}
		})
	}
}

func TestReputationGain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		category incarra.InteractionCategory
		want     uint64
		known    bool
	}{
		{incarra.InteractionResearchQuery, 3, true},
		{incarra.InteractionDataAnalysis, 5, true},
		{incarra.InteractionConversation, 1, true},
		{incarra.InteractionProblemSolving, 4, true},
		{incarra.InteractionCategory("gossip"), 0, false},
		{incarra.InteractionCategory(""), 0, false},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(string(tc.category), func(t *testing.T) {
			t.Parallel()
			got, known := tc.category.ReputationGain()
			if known != tc.known {
				t.Fatalf("known mismatch for %q: got=%t want=%t", tc.category, known, tc.known)
			}
			if got != tc.want {
				t.Fatalf("gain mismatch for %q: got=%d want=%d", tc.category, got, tc.want)
			}
		})
	}
}

func TestLevelForExperience(t *testing.T) {
	t.Parallel()

	tests := []struct {
		experience uint64
		want       uint64
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{199, 2},
		{250, 3},
		{999, 10},
		{1000, 11},
	}
	for _, tc := range tests {
		tc := tc
		t.Run("", func(t *testing.T) {
			t.Parallel()
			if got := incarra.LevelForExperience(tc.experience); got != tc.want {
				t.Fatalf("level mismatch for experience=%d: got=%d want=%d", tc.experience, got, tc.want)
			}
		})
	}
}

func TestCloneRecordIsDeep(t *testing.T) {
	t.Parallel()

	original := validRecord()
	clone := incarra.CloneRecord(original)

	clone.KnowledgeAreas[0] = "mutated"
	clone.Credentials[0].Type = "mutated"
	clone.Achievements[0].Name = "mutated"
	clone.AgentName = "mutated"

	if original.KnowledgeAreas[0] == "mutated" {
		t.Fatalf("knowledge areas alias the original backing array")
	}
	if original.Credentials[0].Type == "mutated" {
		t.Fatalf("credentials alias the original backing array")
	}
	if original.Achievements[0].Name == "mutated" {
		t.Fatalf("achievements alias the original backing array")
	}
	if original.AgentName == "mutated" {
		t.Fatalf("scalar field leaked through the clone")
	}
}

func TestCloneRecordPreservesNilSlices(t *testing.T) {
	t.Parallel()

	clone := incarra.CloneRecord(incarra.Record{ID: "incarra_agent/o", Owner: "o"})
	if clone.KnowledgeAreas != nil || clone.Credentials != nil || clone.Achievements != nil {
		t.Fatalf("clone materialized empty slices from nil input")
	}
}
