package incarra

// ContextView is the companion-facing projection of a record: the fields a
// model host needs to rebuild the agent's persona. Reading it never
// mutates anything. Data source connections are deliberately absent; they
// are an operator metric, not persona material.
type ContextView struct {
	Owner             OwnerID  `json:"owner"`
	AgentName         string   `json:"agent_name"`
	Personality       string   `json:"personality"`
	Level             uint64   `json:"level"`
	Experience        uint64   `json:"experience"`
	Reputation        uint64   `json:"reputation"`
	KnowledgeAreas    []string `json:"knowledge_areas"`
	TotalInteractions uint64   `json:"total_interactions"`
	ResearchProjects  uint64   `json:"research_projects"`
	AIConversations   uint64   `json:"ai_conversations"`
}

// NewContextView projects rec into its companion context.
func NewContextView(rec Record) ContextView {
	return ContextView{
		Owner:             rec.Owner,
		AgentName:         rec.AgentName,
		Personality:       rec.Personality,
		Level:             rec.Level,
		Experience:        rec.Experience,
		Reputation:        rec.Reputation,
		KnowledgeAreas:    cloneStrings(rec.KnowledgeAreas),
		TotalInteractions: rec.TotalInteractions,
		ResearchProjects:  rec.ResearchProjects,
		AIConversations:   rec.AIConversations,
	}
}

// ProfileView is the identity-facing projection of a record: standing,
// verification state and the two append-only ledgers.
type ProfileView struct {
	Owner                OwnerID       `json:"owner"`
	AgentName            string        `json:"agent_name"`
	Level                uint64        `json:"level"`
	IsActive             bool          `json:"is_active"`
	CreatedAt            int64         `json:"created_at"`
	LastInteraction      int64         `json:"last_interaction"`
	IdentityClaim        string        `json:"identity_claim,omitempty"`
	IdentityVerified     bool          `json:"identity_verified"`
	Reputation           uint64        `json:"reputation"`
	ReputationScore      uint64        `json:"reputation_score"`
	DataSourcesConnected uint64        `json:"data_sources_connected"`
	Credentials          []Credential  `json:"credentials"`
	Achievements         []Achievement `json:"achievements"`
}

// NewProfileView projects rec into its public profile.
func NewProfileView(rec Record) ProfileView {
	return ProfileView{
		Owner:                rec.Owner,
		AgentName:            rec.AgentName,
		Level:                rec.Level,
		IsActive:             rec.IsActive,
		CreatedAt:            rec.CreatedAt,
		LastInteraction:      rec.LastInteraction,
		IdentityClaim:        rec.IdentityClaim,
		IdentityVerified:     rec.IdentityVerified,
		Reputation:           rec.Reputation,
		ReputationScore:      rec.ReputationScore,
		DataSourcesConnected: rec.DataSourcesConnected,
		Credentials:          cloneCredentials(rec.Credentials),
		Achievements:         cloneAchievements(rec.Achievements),
	}
}
