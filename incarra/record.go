// Package incarra implements the deterministic state machine behind Incarra
// agent records: persistent, owner-bound profiles that accumulate
// experience, reputation, knowledge areas, credentials and achievements as
// their companion interacts with the world.
//
// The package is substrate-agnostic. It owns every transition rule and
// invariant; persistence and event delivery are injected through the
// RecordStore and EventSink interfaces so the same core drives an in-memory
// harness, an embedded database or a remote ledger.
package incarra

// OwnerID identifies the external principal that owns a record. The host
// binds it to an authenticated key; the core treats it as an opaque
// non-empty string.
type OwnerID string

// RecordID is the ledger address of a record, derived as
// "<namespace>/<owner>". One owner holds at most one record per namespace.
type RecordID string

// DeriveRecordID returns the ledger address for owner under namespace.
func DeriveRecordID(namespace string, owner OwnerID) RecordID {
	return RecordID(namespace + "/" + string(owner))
}

// InteractionCategory classifies a recorded interaction. The category
// decides the flat reputation award and which activity counter advances.
type InteractionCategory string

const (
	InteractionResearchQuery  InteractionCategory = "research_query"
	InteractionDataAnalysis   InteractionCategory = "data_analysis"
	InteractionConversation   InteractionCategory = "conversation"
	InteractionProblemSolving InteractionCategory = "problem_solving"
)

// ReputationGain returns the flat reputation awarded for one interaction of
// category c, before any verified-identity bonus. The second return is
// false for an unknown category.
func (c InteractionCategory) ReputationGain() (uint64, bool) {
	switch c {
	case InteractionResearchQuery:
		return 3, true
	case InteractionDataAnalysis:
		return 5, true
	case InteractionConversation:
		return 1, true
	case InteractionProblemSolving:
		return 4, true
	default:
		return 0, false
	}
}

// Credential is one attestation appended to a record's credential ledger.
// Entries are append-only and never mutated in place.
type Credential struct {
	Type     string `json:"type"`
	Data     string `json:"data,omitempty"`
	Issuer   string `json:"issuer,omitempty"`
	IssuedAt int64  `json:"issued_at"`

	// Verified is reserved for issuer attestation flows. Nothing in this
	// module flips it after the entry is written.
	Verified bool `json:"verified"`
}

// Achievement is one unlocked milestone in a record's achievement ledger.
type Achievement struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Score       uint64 `json:"score"`
	EarnedAt    int64  `json:"earned_at"`
}

// Record is the full persistent state of one agent. Every mutation flows
// through Program.Dispatch, which produces a validated successor record;
// fields are exported for stores, sinks and tests, not for ad-hoc edits.
type Record struct {
	ID    RecordID
	Owner OwnerID

	AgentName   string
	Personality string

	CreatedAt       int64
	LastInteraction int64

	Level             uint64
	Experience        uint64
	Reputation        uint64
	TotalInteractions uint64

	ResearchProjects     uint64
	DataSourcesConnected uint64
	AIConversations      uint64

	KnowledgeAreas []string

	IsActive bool

	IdentityClaim     string
	IdentityVerified  bool
	VerificationProof string
	ReputationScore   uint64

	Credentials  []Credential
	Achievements []Achievement

	// Version is the optimistic-concurrency revision managed by the record
	// store. A record that has never been saved carries 0; the store sets 1
	// on create and bumps by exactly one per successful save.
	Version int64
}

// CloneRecord returns a deep copy of r. Stores and sinks clone on the way
// in and out so no caller can alias state held behind an interface.
func CloneRecord(r Record) Record {
	out := r
	out.KnowledgeAreas = cloneStrings(r.KnowledgeAreas)
	out.Credentials = cloneCredentials(r.Credentials)
	out.Achievements = cloneAchievements(r.Achievements)
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneCredentials(in []Credential) []Credential {
	if in == nil {
		return nil
	}
	out := make([]Credential, len(in))
	copy(out, in)
	return out
}

func cloneAchievements(in []Achievement) []Achievement {
	if in == nil {
		return nil
	}
	out := make([]Achievement, len(in))
	copy(out, in)
	return out
}
