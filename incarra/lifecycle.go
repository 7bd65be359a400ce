package incarra

// IdentityStatus is the derived identity lifecycle position of a record.
// Binding happens at creation or never; verification is one-way.
type IdentityStatus string

const (
	IdentityStatusUnbound  IdentityStatus = "unbound"
	IdentityStatusBound    IdentityStatus = "bound"
	IdentityStatusVerified IdentityStatus = "verified"
)

func identityStatusOf(rec Record) IdentityStatus {
	switch {
	case rec.IdentityVerified:
		return IdentityStatusVerified
	case rec.IdentityClaim != "":
		return IdentityStatusBound
	default:
		return IdentityStatusUnbound
	}
}

func canTransitionIdentity(from, to IdentityStatus) bool {
	if from == to {
		return true
	}
	allowed, ok := allowedIdentityTransitions[from]
	if !ok {
		return false
	}
	_, ok = allowed[to]
	return ok
}

// allowedIdentityTransitions excludes unbound -> bound: a claim missing at
// creation can never be attached later.
var allowedIdentityTransitions = map[IdentityStatus]map[IdentityStatus]struct{}{
	IdentityStatusUnbound: {},
	IdentityStatusBound: {
		IdentityStatusVerified: {},
	},
	IdentityStatusVerified: {},
}
