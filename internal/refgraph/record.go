package refgraph

import "errors"

// ErrInvalidRecord indicates the caller supplied a record that violates the
// ingestion contract (e.g., a row whose shape does not match the header).
// Structural defects in well-formed data are never errors; they surface as
// Finding values from Audit.
var ErrInvalidRecord = errors.New("invalid record")

// Provenance identifies a record's source position for diagnostics. For CSV
// input it is the 1-based file row (the first data row is 2, row 1 being the
// header). It carries no meaning inside the core beyond reporting.
type Provenance int

// MemberRecord is one row of source data: a member and the member that
// sponsored it.
type MemberRecord struct {
	Provenance Provenance
	// Identifier is the member's wallet/user identifier and the natural key.
	Identifier string
	// Referrer is the sponsoring member's identifier. Empty means a root
	// member; equal to Identifier means the self-referential root marker
	// some exports use.
	Referrer string
	// Extra is an opaque payload (activation sequence and the like) carried
	// through for reporting, never examined here.
	Extra string
}

// FindingKind discriminates the structural defects Audit can report.
type FindingKind string

const (
	KindDuplicateIdentifier FindingKind = "duplicate_identifier"
	KindDanglingReferrer    FindingKind = "dangling_referrer"
	KindCyclicChain         FindingKind = "cyclic_chain"
)

// Finding is one structural defect discovered by Audit.
type Finding interface {
	Kind() FindingKind
}

// DuplicateIdentifier reports two or more records sharing a canonical
// identifier. Occurrences lists every contributing row in input order,
// including the first.
type DuplicateIdentifier struct {
	Identifier  string
	Occurrences []Provenance
}

func (DuplicateIdentifier) Kind() FindingKind { return KindDuplicateIdentifier }

// DanglingReferrer reports a record whose referrer matches no known
// identifier.
type DanglingReferrer struct {
	MemberIdentifier   string
	ReferrerIdentifier string
	Provenance         Provenance
}

func (DanglingReferrer) Kind() FindingKind { return KindDanglingReferrer }

// CyclicChain reports a referrer chain that revisits a member.
// CycleMembers lists the loop starting from the first repeated node;
// StartIdentifier is that node.
type CyclicChain struct {
	StartIdentifier string
	CycleMembers    []string
}

func (CyclicChain) Kind() FindingKind { return KindCyclicChain }
