package incarra

import (
	"encoding/binary"
	"fmt"
)

// The binary layout is little-endian and position-fixed: an 8-byte tag
// (magic + layout version), then every record field in declaration order.
// Strings and lists carry a u32 length prefix, counters are u64 words,
// flags are single bytes. Record.Version is store metadata and is not part
// of the layout. An encoded record never exceeds RecordSpace.

var layoutMagic = [4]byte{'i', 'n', 'c', 'r'}

const layoutVersion uint32 = 1

// EncodeRecord serializes rec into the fixed ledger layout. The input is
// assumed to satisfy ValidateRecord; callers encode only records that have
// passed a dispatch boundary.
func EncodeRecord(rec Record) []byte {
	buf := make([]byte, 0, RecordSpace)
	buf = append(buf, layoutMagic[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, layoutVersion)

	buf = appendString(buf, string(rec.ID))
	buf = appendString(buf, string(rec.Owner))
	buf = appendString(buf, rec.AgentName)
	buf = appendString(buf, rec.Personality)

	buf = binary.LittleEndian.AppendUint64(buf, uint64(rec.CreatedAt))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(rec.LastInteraction))

	buf = binary.LittleEndian.AppendUint64(buf, rec.Level)
	buf = binary.LittleEndian.AppendUint64(buf, rec.Experience)
	buf = binary.LittleEndian.AppendUint64(buf, rec.Reputation)
	buf = binary.LittleEndian.AppendUint64(buf, rec.TotalInteractions)

	buf = binary.LittleEndian.AppendUint64(buf, rec.ResearchProjects)
	buf = binary.LittleEndian.AppendUint64(buf, rec.DataSourcesConnected)
	buf = binary.LittleEndian.AppendUint64(buf, rec.AIConversations)

	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(rec.KnowledgeAreas)))
	for _, area := range rec.KnowledgeAreas {
		buf = appendString(buf, area)
	}

	buf = appendFlag(buf, rec.IsActive)

	buf = appendString(buf, rec.IdentityClaim)
	buf = appendFlag(buf, rec.IdentityVerified)
	buf = appendString(buf, rec.VerificationProof)
	buf = binary.LittleEndian.AppendUint64(buf, rec.ReputationScore)

	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(rec.Credentials)))
	for _, cred := range rec.Credentials {
		buf = appendString(buf, cred.Type)
		buf = appendString(buf, cred.Data)
		buf = appendString(buf, cred.Issuer)
		buf = binary.LittleEndian.AppendUint64(buf, uint64(cred.IssuedAt))
		buf = appendFlag(buf, cred.Verified)
	}

	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(rec.Achievements)))
	for _, a := range rec.Achievements {
		buf = appendString(buf, a.Name)
		buf = appendString(buf, a.Description)
		buf = binary.LittleEndian.AppendUint64(buf, a.Score)
		buf = binary.LittleEndian.AppendUint64(buf, uint64(a.EarnedAt))
	}

	return buf
}

// DecodeRecord parses one encoded record. The returned record carries
// Version 0; stores that persist the version separately overwrite it after
// decoding. Structural validation stays with the caller.
func DecodeRecord(data []byte) (Record, error) {
	r := &layoutReader{data: data}

	var magic [4]byte
	copy(magic[:], r.bytes(4))
	if r.err == nil && magic != layoutMagic {
		return Record{}, fmt.Errorf("%w: field=magic value=%q", ErrCodecInvalid, magic[:])
	}
	if version := r.u32(); r.err == nil && version != layoutVersion {
		return Record{}, fmt.Errorf(
			"%w: field=layout_version value=%d want=%d",
			ErrCodecInvalid,
			version,
			layoutVersion,
		)
	}

	var rec Record
	rec.ID = RecordID(r.str(MaxRecordIDLen))
	rec.Owner = OwnerID(r.str(MaxOwnerLen))
	rec.AgentName = r.str(MaxAgentNameLen)
	rec.Personality = r.str(MaxPersonalityLen)

	rec.CreatedAt = r.i64()
	rec.LastInteraction = r.i64()

	rec.Level = r.u64()
	rec.Experience = r.u64()
	rec.Reputation = r.u64()
	rec.TotalInteractions = r.u64()

	rec.ResearchProjects = r.u64()
	rec.DataSourcesConnected = r.u64()
	rec.AIConversations = r.u64()

	if n := r.count(MaxKnowledgeAreas); n > 0 {
		rec.KnowledgeAreas = make([]string, 0, n)
		for i := uint32(0); i < n && r.err == nil; i++ {
			rec.KnowledgeAreas = append(rec.KnowledgeAreas, r.str(MaxKnowledgeAreaLen))
		}
	}

	rec.IsActive = r.flag()

	rec.IdentityClaim = r.str(MaxIdentityClaimLen)
	rec.IdentityVerified = r.flag()
	rec.VerificationProof = r.str(MaxVerificationProofLen)
	rec.ReputationScore = r.u64()

	if n := r.count(MaxCredentials); n > 0 {
		rec.Credentials = make([]Credential, 0, n)
		for i := uint32(0); i < n && r.err == nil; i++ {
			rec.Credentials = append(rec.Credentials, Credential{
				Type:     r.str(MaxCredentialTypeLen),
				Data:     r.str(MaxCredentialDataLen),
				Issuer:   r.str(MaxIssuerLen),
				IssuedAt: r.i64(),
				Verified: r.flag(),
			})
		}
	}

	if n := r.count(MaxAchievements); n > 0 {
		rec.Achievements = make([]Achievement, 0, n)
		for i := uint32(0); i < n && r.err == nil; i++ {
			rec.Achievements = append(rec.Achievements, Achievement{
				Name:        r.str(MaxAchievementNameLen),
				Description: r.str(MaxAchievementDescLen),
				Score:       r.u64(),
				EarnedAt:    r.i64(),
			})
		}
	}

	if r.err != nil {
		return Record{}, r.err
	}
	if r.off != len(r.data) {
		return Record{}, fmt.Errorf(
			"%w: reason=trailing_bytes offset=%d len=%d",
			ErrCodecInvalid,
			r.off,
			len(r.data),
		)
	}
	return rec, nil
}

func appendString(buf []byte, s string) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(s)))
	return append(buf, s...)
}

func appendFlag(buf []byte, v bool) []byte {
	if v {
		return append(buf, 1)
	}
	return append(buf, 0)
}

// layoutReader consumes the layout sequentially. The first failure sticks;
// every later read is a no-op returning zero values.
type layoutReader struct {
	data []byte
	off  int
	err  error
}

func (r *layoutReader) bytes(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.off+n > len(r.data) {
		r.err = fmt.Errorf(
			"%w: reason=truncated offset=%d need=%d len=%d",
			ErrCodecInvalid,
			r.off,
			n,
			len(r.data),
		)
		return nil
	}
	out := r.data[r.off : r.off+n]
	r.off += n
	return out
}

func (r *layoutReader) u32() uint32 {
	b := r.bytes(4)
	if r.err != nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *layoutReader) u64() uint64 {
	b := r.bytes(8)
	if r.err != nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

func (r *layoutReader) i64() int64 {
	return int64(r.u64())
}

func (r *layoutReader) flag() bool {
	b := r.bytes(1)
	if r.err != nil {
		return false
	}
	switch b[0] {
	case 0:
		return false
	case 1:
		return true
	default:
		r.err = fmt.Errorf("%w: reason=bad_flag value=%d offset=%d", ErrCodecInvalid, b[0], r.off-1)
		return false
	}
}

func (r *layoutReader) str(maxLen int) string {
	n := r.u32()
	if r.err != nil {
		return ""
	}
	if int(n) > maxLen {
		r.err = fmt.Errorf(
			"%w: reason=string_over_ceiling len=%d max=%d offset=%d",
			ErrCodecInvalid,
			n,
			maxLen,
			r.off,
		)
		return ""
	}
	b := r.bytes(int(n))
	if r.err != nil {
		return ""
	}
	return string(b)
}

func (r *layoutReader) count(maxLen int) uint32 {
	n := r.u32()
	if r.err != nil {
		return 0
	}
	if int(n) > maxLen {
		r.err = fmt.Errorf(
			"%w: reason=list_over_ceiling len=%d max=%d offset=%d",
			ErrCodecInvalid,
			n,
			maxLen,
			r.off,
		)
		return 0
	}
	return n
}
