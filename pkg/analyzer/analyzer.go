// Package analyzer extracts the record sets a statement touches from its
// SQL text. It is a pure function over the statement string: the same
// query always yields the same (read, insert, update) record sets, which
// is what lets every replica in the cluster compute identical lock sets
// from the identical log entry.
//
// The supported grammar is intentionally narrow — point INSERT/UPDATE/SELECT
// against a single "id = <integer>" predicate — matching the record-level
// locking model the scheduler implements. Anything else is reported as an
// error rather than guessed at, since a wrong guess here would silently
// break determinism across replicas.
package analyzer

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/calvindb/calvindb/pkg/record"
)

// ErrParseError is returned when the statement text does not match any
// supported statement shape at all.
var ErrParseError = errors.New("analyzer: parse error")

// ErrUnsupportedPredicate is returned when a recognized statement kind
// (UPDATE/SELECT) has a WHERE clause that isn't the single "id = <integer>"
// equality form this core supports.
var ErrUnsupportedPredicate = errors.New("analyzer: unsupported predicate")

// Statement is the set of record keys a query touches, split by how it
// touches them. The three sets are disjoint in purpose: a given query
// populates exactly one of them (this core has no multi-statement
// transactions, so there is never a query that both inserts and updates).
type Statement struct {
	ReadSet   []record.Key
	InsertSet []record.Key
	UpdateSet []record.Key

	// InsertValues maps each key in InsertSet to the value parsed for it
	// from an INSERT's VALUES list. The executor uses
	// these directly instead of re-parsing the VALUES clause itself.
	InsertValues map[record.Key]uint64

	// UpdateValue is the new value parsed from an UPDATE's SET clause.
	// Meaningful only when UpdateSet is non-empty.
	UpdateValue uint64
}

// LockSet returns the union of all three sets: the deterministic lock set
// for a statement is read_set ∪ insert_set ∪ update_set (see pkg/scheduler
// for why this must not be narrowed to just the insert set).
func (s Statement) LockSet() []record.Key {
	out := make([]record.Key, 0, len(s.ReadSet)+len(s.InsertSet)+len(s.UpdateSet))
	out = append(out, s.ReadSet...)
	out = append(out, s.InsertSet...)
	out = append(out, s.UpdateSet...)
	return out
}

var (
	insertStmtRe = regexp.MustCompile(`(?is)^\s*INSERT\s+INTO\s+\S+\s+VALUES\s*(.+?)\s*;?\s*$`)
	insertRowRe  = regexp.MustCompile(`\(\s*([^,()]+?)\s*,\s*([^,()]+?)\s*\)`)
	updateStmtRe = regexp.MustCompile(`(?is)^\s*UPDATE\s+\S+\s+SET\s+\S+\s*=\s*(-?\d+)\s+WHERE\s+(.+?)\s*;?\s*$`)
	selectStmtRe = regexp.MustCompile(`(?is)^\s*SELECT\s+.+?\s+FROM\s+\S+\s+WHERE\s+(.+?)\s*;?\s*$`)
	idEqIntRe    = regexp.MustCompile(`(?i)^\s*id\s*=\s*(-?\d+)\s*$`)
)

// Analyze parses text and returns the record sets it touches.
func Analyze(text string) (Statement, error) {
	trimmed := strings.TrimSpace(text)

	switch {
	case hasKeyword(trimmed, "INSERT"):
		return analyzeInsert(trimmed)
	case hasKeyword(trimmed, "UPDATE"):
		return analyzeUpdate(trimmed)
	case hasKeyword(trimmed, "SELECT"):
		return analyzeSelect(trimmed)
	default:
		return Statement{}, fmt.Errorf("%w: unrecognized statement %q", ErrParseError, text)
	}
}

func hasKeyword(text, keyword string) bool {
	return len(text) >= len(keyword) && strings.EqualFold(text[:len(keyword)], keyword)
}

func analyzeInsert(text string) (Statement, error) {
	m := insertStmtRe.FindStringSubmatch(text)
	if m == nil {
		return Statement{}, fmt.Errorf("%w: malformed INSERT %q", ErrParseError, text)
	}

	rows := insertRowRe.FindAllStringSubmatch(m[1], -1)
	if len(rows) == 0 {
		return Statement{}, fmt.Errorf("%w: INSERT has no VALUES rows", ErrParseError)
	}

	var insertSet []record.Key
	values := make(map[record.Key]uint64)
	for _, row := range rows {
		n, err := strconv.ParseUint(strings.TrimSpace(row[1]), 10, 64)
		if err != nil {
			// A non-integer first column contributes no record for that
			// row; it is not an error.
			continue
		}
		k := record.Key(n)
		v, err := strconv.ParseUint(strings.TrimSpace(row[2]), 10, 64)
		if err != nil {
			continue
		}
		insertSet = append(insertSet, k)
		values[k] = v
	}
	return Statement{InsertSet: insertSet, InsertValues: values}, nil
}

func analyzeUpdate(text string) (Statement, error) {
	m := updateStmtRe.FindStringSubmatch(text)
	if m == nil {
		return Statement{}, fmt.Errorf("%w: malformed UPDATE %q", ErrParseError, text)
	}

	newValue, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil {
		return Statement{}, fmt.Errorf("%w: malformed UPDATE SET value %q", ErrParseError, m[1])
	}

	k, err := findID(m[2])
	if err != nil {
		return Statement{}, fmt.Errorf("%w: UPDATE predicate %q", ErrUnsupportedPredicate, m[2])
	}
	return Statement{UpdateSet: []record.Key{k}, UpdateValue: newValue}, nil
}

func analyzeSelect(text string) (Statement, error) {
	m := selectStmtRe.FindStringSubmatch(text)
	if m == nil {
		return Statement{}, fmt.Errorf("%w: malformed SELECT %q", ErrParseError, text)
	}

	k, err := findID(m[1])
	if err != nil {
		return Statement{}, fmt.Errorf("%w: SELECT predicate %q", ErrUnsupportedPredicate, m[1])
	}
	return Statement{ReadSet: []record.Key{k}}, nil
}

// findID recognizes an "id = <integer>" equality predicate and returns the
// record key it names. It is the one predicate shape this core's
// scheduler and executor understand; anything else - range predicates,
// compound conditions, non-id columns - is reported as unsupported rather
// than silently ignored.
func findID(expr string) (record.Key, error) {
	m := idEqIntRe.FindStringSubmatch(expr)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedPredicate, expr)
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedPredicate, expr)
	}
	return record.Key(n), nil
}

// FindID exposes findID for callers (e.g. the executor) that already
// have an isolated predicate string.
func FindID(expr string) (record.Key, error) {
	return findID(expr)
}
