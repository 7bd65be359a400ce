package incarra

import "fmt"

// applyVerifyIdentity marks a bound claim verified and grants the one-time
// verification reputation bonus. Verification requires a claim bound at
// creation and succeeds at most once per record; repeating it fails without
// granting anything.
func applyVerifyIdentity(prev Record, cmd VerifyIdentity, now int64) (Record, []Event, error) {
	if prev.IdentityClaim == "" {
		return Record{}, nil, fmt.Errorf("%w: record_id=%q", ErrIdentityNotBound, prev.ID)
	}
	if prev.IdentityVerified {
		return Record{}, nil, fmt.Errorf("%w: record_id=%q", ErrIdentityAlreadyVerified, prev.ID)
	}
	if err := validateProof(cmd.Proof); err != nil {
		return Record{}, nil, err
	}
	next := CloneRecord(prev)
	next.IdentityVerified = true
	next.VerificationProof = cmd.Proof
	next.Reputation += IdentityVerifiedReputation
	next.LastInteraction = now
	return next, []Event{newIdentityVerifiedEvent(next, now)}, nil
}
