package incarra

// CommandKind identifies the record mutation route.
type CommandKind string

const (
	CommandKindInitializeAgent   CommandKind = "initialize_agent"
	CommandKindRecordInteraction CommandKind = "record_interaction"
	CommandKindAddKnowledgeArea  CommandKind = "add_knowledge_area"
	CommandKindUpdatePersonality CommandKind = "update_personality"
	CommandKindVerifyIdentity    CommandKind = "verify_identity"
	CommandKindAddCredential     CommandKind = "add_credential"
	CommandKindUnlockAchievement CommandKind = "unlock_achievement"
	CommandKindDeactivateAgent   CommandKind = "deactivate_agent"
)

// Command is the typed record mutation contract. Every command names the
// caller the host authenticated; mutations are refused unless the caller is
// the record owner.
type Command interface {
	Kind() CommandKind
}

// InitializeAgent creates the caller's record. The identity claim is bound
// here or never; there is no later binding route. An optional verification
// signature is stored as the verification artifact without marking the
// claim verified; only VerifyIdentity does that.
type InitializeAgent struct {
	Caller                OwnerID
	AgentName             string
	Personality           string
	IdentityClaim         string
	VerificationSignature string
}

func (InitializeAgent) Kind() CommandKind {
	return CommandKindInitializeAgent
}

// RecordInteraction logs one interaction and advances progression state.
// Context is an optional free-form note carried into the emitted event; it
// is never stored on the record.
type RecordInteraction struct {
	Caller           OwnerID
	Owner            OwnerID
	Category         InteractionCategory
	ExperienceGained uint64
	Context          string
}

func (RecordInteraction) Kind() CommandKind {
	return CommandKindRecordInteraction
}

// AddKnowledgeArea appends one knowledge area. Adding an area the record
// already holds is a no-op.
type AddKnowledgeArea struct {
	Caller OwnerID
	Owner  OwnerID
	Area   string
}

func (AddKnowledgeArea) Kind() CommandKind {
	return CommandKindAddKnowledgeArea
}

// UpdatePersonality replaces the record's personality text.
type UpdatePersonality struct {
	Caller      OwnerID
	Owner       OwnerID
	Personality string
}

func (UpdatePersonality) Kind() CommandKind {
	return CommandKindUpdatePersonality
}

// VerifyIdentity marks a bound identity claim as verified and stores the
// supplied proof. A record verifies at most once.
type VerifyIdentity struct {
	Caller OwnerID
	Owner  OwnerID
	Proof  string
}

func (VerifyIdentity) Kind() CommandKind {
	return CommandKindVerifyIdentity
}

// AddCredential appends one credential ledger entry.
type AddCredential struct {
	Caller OwnerID
	Owner  OwnerID
	Type   string
	Data   string
	Issuer string
}

func (AddCredential) Kind() CommandKind {
	return CommandKindAddCredential
}

// UnlockAchievement appends one achievement ledger entry.
type UnlockAchievement struct {
	Caller      OwnerID
	Owner       OwnerID
	Name        string
	Description string
	Score       uint64
}

func (UnlockAchievement) Kind() CommandKind {
	return CommandKindUnlockAchievement
}

// DeactivateAgent retires the record. Deactivation is permanent and
// idempotent; repeating it changes nothing and emits nothing.
type DeactivateAgent struct {
	Caller OwnerID
	Owner  OwnerID
}

func (DeactivateAgent) Kind() CommandKind {
	return CommandKindDeactivateAgent
}
