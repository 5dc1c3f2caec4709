package analyzer

import (
	"errors"
	"testing"

	"github.com/calvindb/calvindb/pkg/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeInsertSingleRow(t *testing.T) {
	stmt, err := Analyze("INSERT INTO foo VALUES (1, 2)")
	require.NoError(t, err)
	assert.Equal(t, []record.Key{1}, stmt.InsertSet)
	assert.Empty(t, stmt.ReadSet)
	assert.Empty(t, stmt.UpdateSet)
}

func TestAnalyzeInsertMultiRow(t *testing.T) {
	stmt, err := Analyze("INSERT INTO foo VALUES (1, 2), (3, 4), (5, 6)")
	require.NoError(t, err)
	assert.Equal(t, []record.Key{1, 3, 5}, stmt.InsertSet)
}

func TestAnalyzeInsertNonIntegerKeySkipped(t *testing.T) {
	stmt, err := Analyze("INSERT INTO foo VALUES (abc, 2), (3, 4)")
	require.NoError(t, err)
	assert.Equal(t, []record.Key{3}, stmt.InsertSet)
}

func TestAnalyzeUpdate(t *testing.T) {
	stmt, err := Analyze("UPDATE foo SET val = 200 WHERE id = 7")
	require.NoError(t, err)
	assert.Equal(t, []record.Key{7}, stmt.UpdateSet)
	assert.Empty(t, stmt.ReadSet)
	assert.Empty(t, stmt.InsertSet)
}

func TestAnalyzeSelect(t *testing.T) {
	stmt, err := Analyze("SELECT * FROM foo WHERE id = 1")
	require.NoError(t, err)
	assert.Equal(t, []record.Key{1}, stmt.ReadSet)
}

func TestAnalyzeCaseInsensitiveKeywords(t *testing.T) {
	stmt, err := Analyze("select * from foo where id = 1")
	require.NoError(t, err)
	assert.Equal(t, []record.Key{1}, stmt.ReadSet)
}

func TestAnalyzeUnrecognizedStatement(t *testing.T) {
	_, err := Analyze("DELETE FROM foo WHERE id = 1")
	assert.ErrorIs(t, err, ErrParseError)
}

func TestAnalyzeMalformedInsert(t *testing.T) {
	_, err := Analyze("INSERT INTO foo VALUES")
	assert.ErrorIs(t, err, ErrParseError)
}

func TestAnalyzeUpdateUnsupportedPredicate(t *testing.T) {
	_, err := Analyze("UPDATE foo SET val = 200 WHERE name = 'bob'")
	assert.ErrorIs(t, err, ErrUnsupportedPredicate)
}

func TestAnalyzeSelectUnsupportedPredicate(t *testing.T) {
	_, err := Analyze("SELECT * FROM foo WHERE id > 1")
	assert.ErrorIs(t, err, ErrUnsupportedPredicate)
}

func TestAnalyzeIsPure(t *testing.T) {
	q := "UPDATE foo SET val = 1 WHERE id = 42"
	a, errA := Analyze(q)
	b, errB := Analyze(q)
	require.NoError(t, errA)
	require.NoError(t, errB)
	assert.Equal(t, a, b)
}

func TestStatementLockSetIsUnion(t *testing.T) {
	stmt := Statement{
		ReadSet:   []record.Key{1},
		InsertSet: []record.Key{2},
		UpdateSet: []record.Key{3},
	}
	assert.ElementsMatch(t, []record.Key{1, 2, 3}, stmt.LockSet())
}

func TestFindID(t *testing.T) {
	k, err := FindID("id = 42")
	require.NoError(t, err)
	assert.Equal(t, record.Key(42), k)

	_, err = FindID("name = 'bob'")
	assert.True(t, errors.Is(err, ErrUnsupportedPredicate))
}
