package incarra

// DefaultNamespace prefixes derived record IDs when the host does not
// configure its own namespace.
const DefaultNamespace = "incarra_agent"

// Field ceilings. Lengths are measured in bytes. A record that violates any
// of them never reaches a store: command application and ValidateRecord both
// enforce the same set.
const (
	MaxNamespaceLen = 32
	MaxOwnerLen     = 64
	MaxRecordIDLen  = MaxNamespaceLen + 1 + MaxOwnerLen

	MaxAgentNameLen   = 50
	MaxPersonalityLen = 200

	MaxKnowledgeAreas   = 20
	MaxKnowledgeAreaLen = 30

	MaxIdentityClaimLen     = 42
	MinVerificationProofLen = 10
	MaxVerificationProofLen = 132

	MaxCredentials       = 10
	MaxCredentialTypeLen = 30
	MaxCredentialDataLen = 200
	MaxIssuerLen         = 50

	MaxAchievements       = 20
	MaxAchievementNameLen = 50
	MaxAchievementDescLen = 200
)

// Progression and reward constants.
const (
	// ExperiencePerLevel is the experience span of one level. Level is
	// always derived from total experience, never stored independently.
	ExperiencePerLevel = 100

	// MaxExperienceGain and MaxAchievementScore bound caller-supplied gain
	// values so accumulators cannot be overflowed in a single call.
	MaxExperienceGain   = 10_000
	MaxAchievementScore = 10_000

	// VerifiedInteractionBonus is added to the category reputation award
	// when the record's identity is verified.
	VerifiedInteractionBonus = 1

	// KnowledgeAreaReputation is the reputation granted for each newly
	// learned knowledge area.
	KnowledgeAreaReputation = 2

	// CredentialReputationScore is the flat reputation-score grant per
	// appended credential.
	CredentialReputationScore = 10

	// IdentityVerifiedReputation is the one-time reputation grant when a
	// bound identity claim is verified.
	IdentityVerifiedReputation = 50
)

// Encoded sizes of the fixed little-endian layout produced by EncodeRecord.
// RecordSpace is the worst case: every bounded field at its ceiling. Stores
// that reserve space up front can rely on it as a hard upper bound.
const (
	layoutTagSize = 8

	lenPrefixSize = 4
	wordSize      = 8
	flagSize      = 1

	recordIDSpace    = lenPrefixSize + MaxRecordIDLen
	ownerSpace       = lenPrefixSize + MaxOwnerLen
	agentNameSpace   = lenPrefixSize + MaxAgentNameLen
	personalitySpace = lenPrefixSize + MaxPersonalityLen

	knowledgeAreaSpace  = lenPrefixSize + MaxKnowledgeAreaLen
	knowledgeAreasSpace = lenPrefixSize + MaxKnowledgeAreas*knowledgeAreaSpace

	identityClaimSpace     = lenPrefixSize + MaxIdentityClaimLen
	verificationProofSpace = lenPrefixSize + MaxVerificationProofLen

	credentialSpace = lenPrefixSize + MaxCredentialTypeLen +
		lenPrefixSize + MaxCredentialDataLen +
		lenPrefixSize + MaxIssuerLen +
		wordSize + flagSize
	credentialsSpace = lenPrefixSize + MaxCredentials*credentialSpace

	achievementSpace = lenPrefixSize + MaxAchievementNameLen +
		lenPrefixSize + MaxAchievementDescLen +
		wordSize + wordSize
	achievementsSpace = lenPrefixSize + MaxAchievements*achievementSpace

	// RecordSpace sums: layout tag, id, owner, name, personality, the two
	// timestamps, four progression words, three activity counters,
	// knowledge areas, active flag, identity claim, verified flag,
	// verification proof, reputation score, credentials, achievements.
	RecordSpace = layoutTagSize +
		recordIDSpace +
		ownerSpace +
		agentNameSpace +
		personalitySpace +
		2*wordSize +
		4*wordSize +
		3*wordSize +
		knowledgeAreasSpace +
		flagSize +
		identityClaimSpace +
		flagSize +
		verificationProofSpace +
		wordSize +
		credentialsSpace +
		achievementsSpace
)
