package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/KaramelBytes/refgraph-cli/internal/refgraph"
)

// Options controls how a membership CSV is read.
type Options struct {
	// Delimiter for CSV. If 0, auto-detects among ',', ';', '\t'.
	Delimiter rune
	// IDColumn / ReferrerColumn / ExtraColumn override the built-in header
	// aliases. Matching is case-insensitive on trimmed header names.
	IDColumn       string
	ReferrerColumn string
	ExtraColumn    string
	// ReferrerOptional accepts files without a referrer column (cohort
	// rosters, resolve inputs). Records then carry an empty referrer.
	ReferrerOptional bool
}

// Exports name the identifier and referrer columns differently depending on
// which system produced them; these are the spellings seen in the wild.
var (
	idAliases = []string{
		"wallet_address", "user name", "user_name", "user bep20 address",
		"wallet", "address", "identifier",
	}
	referrerAliases = []string{
		"referrer_wallet", "referrer_user name", "referrer_user_name",
		"referal address", "referral address", "referrer", "sponsor",
	}
	extraAliases = []string{"activation sequence", "activation_sequence"}
)

// ReadMembers parses a membership CSV into MemberRecords with 1-based row
// provenance (the header is row 1, so the first record is row 2). The
// identifier column is required; the referrer column is required unless
// opts.ReferrerOptional. A UTF-8 BOM on the header is tolerated, since
// several upstream systems write one.
func ReadMembers(path string, opts Options) ([]refgraph.MemberRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	delim := opts.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	r := csv.NewReader(f)
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read header: empty file %s", path)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	idCol, err := findColumn(header, opts.IDColumn, idAliases)
	if err != nil {
		return nil, fmt.Errorf("identifier column: %w", err)
	}
	refCol, err := findColumn(header, opts.ReferrerColumn, referrerAliases)
	if err != nil {
		if !opts.ReferrerOptional {
			return nil, fmt.Errorf("referrer column: %w", err)
		}
		refCol = -1
	}
	extraCol, err := findColumn(header, opts.ExtraColumn, extraAliases)
	if err != nil {
		if opts.ExtraColumn != "" {
			return nil, fmt.Errorf("extra column: %w", err)
		}
		extraCol = -1
	}

	var records []refgraph.MemberRecord
	for row := 2; ; row++ {
		fields, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		if idCol >= len(fields) {
			return nil, fmt.Errorf("row %d: %d field(s), identifier column missing: %w",
				row, len(fields), refgraph.ErrInvalidRecord)
		}
		rec := refgraph.MemberRecord{
			Provenance: refgraph.Provenance(row),
			Identifier: strings.TrimSpace(fields[idCol]),
		}
		if refCol >= 0 && refCol < len(fields) {
			rec.Referrer = strings.TrimSpace(fields[refCol])
		}
		if extraCol >= 0 && extraCol < len(fields) {
			rec.Extra = strings.TrimSpace(fields[extraCol])
		}
		records = append(records, rec)
	}
	return records, nil
}

// ReadCohort loads the identifier column of a CSV into a canonical-keyed
// set, for use as a resolution cohort predicate.
func ReadCohort(path string, opts Options) (map[string]struct{}, error) {
	opts.ReferrerOptional = true
	records, err := ReadMembers(path, opts)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(records))
	for _, rec := range records {
		if refgraph.Absent(rec.Identifier) {
			continue
		}
		set[refgraph.Normalize(rec.Identifier)] = struct{}{}
	}
	return set, nil
}

// findColumn resolves a header index from an explicit override or the alias
// list. Overrides must match; aliases are tried in order.
func findColumn(header []string, override string, aliases []string) (int, error) {
	if override != "" {
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), strings.TrimSpace(override)) {
				return i, nil
			}
		}
		return -1, fmt.Errorf("column %q not found in header %v", override, header)
	}
	for _, alias := range aliases {
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), alias) {
				return i, nil
			}
		}
	}
	return -1, fmt.Errorf("no known column name in header %v", header)
}

func sniffDelimiter(path string) rune {
	name := strings.ToLower(path)
	if strings.HasSuffix(name, ".tsv") {
		return '\t'
	}
	f, err := os.Open(path)
	if err != nil {
		return ','
	}
	defer f.Close()
	buf := make([]byte, 4096)
	n, _ := f.Read(buf)
	line := string(buf[:n])
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	best, bestCount := ',', strings.Count(line, ",")
	if c := strings.Count(line, ";"); c > bestCount {
		best, bestCount = ';', c
	}
	if c := strings.Count(line, "\t"); c > bestCount {
		best = '\t'
	}
	return best
}
