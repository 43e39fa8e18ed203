package etl

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerKeepsOrder(t *testing.T) {
	l := NewLedger()
	l.Append(ImportError{Kind: KindParentCreation, Entity: "user", ID: "u1", Email: "user-u1@x.org", Message: "boom"})
	l.Append(ImportError{Kind: KindRecord, Entity: "track", ID: "t1", Title: "A", Message: "bad"})
	l.Append(ImportError{Kind: KindParentCreation, Entity: "user", ID: "u2", Message: "boom"})

	assert.Equal(t, 3, l.Len())
	assert.Equal(t, []ErrorKind{KindParentCreation, KindRecord}, l.Kinds())

	preview, rest := l.Preview(2)
	require.Len(t, preview, 2)
	assert.Equal(t, "u1", preview[0].ID)
	assert.Equal(t, 1, rest)

	preview, rest = l.Preview(10)
	assert.Len(t, preview, 3)
	assert.Equal(t, 0, rest)

	assert.Equal(t, "[record] track t1 (A): bad", l.Entries()[1].String())
	assert.Equal(t, "[parent-creation] user u1 (user-u1@x.org): boom", l.Entries()[0].String())
}

func TestLedgerPersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "errors.json")
	l := NewLedger()
	l.Append(ImportError{Kind: KindRecord, Entity: "track", ID: "t1", Message: "bad"})
	require.NoError(t, l.Persist(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got []map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got, 1)
	assert.Equal(t, map[string]any{"type": "record", "entity": "track", "id": "t1", "error": "bad"}, got[0])
}

func TestErrorReportPath(t *testing.T) {
	assert.Equal(t, filepath.Join("data", "tracks_errors.json"), ErrorReportPath(filepath.Join("data", "tracks.csv")))
	assert.Equal(t, "users_errors.json", ErrorReportPath("users.json"))
}

func TestReportWithoutErrors(t *testing.T) {
	observeLogs(t)
	path := filepath.Join(t.TempDir(), "tracks_errors.json")
	s := &RunSummary{Source: "tracks.csv", Succeeded: 3, Ledger: NewLedger()}

	var out bytes.Buffer
	written, err := Report(&out, s, path, DefaultPreviewLimit)
	require.NoError(t, err)

	assert.Empty(t, written)
	assert.NoFileExists(t, path)
	assert.Equal(t, "Import summary for tracks.csv\n"+
		"  succeeded: 3\n"+
		"  failed:    0\n"+
		"  total:     3\n", out.String())
}

func TestReportPreviewsAndPersistsErrors(t *testing.T) {
	observeLogs(t)
	path := filepath.Join(t.TempDir(), "users_errors.json")
	l := NewLedger()
	for i := 1; i <= 12; i++ {
		l.Append(ImportError{Kind: KindRecord, Entity: "track", ID: fmt.Sprintf("t%d", i), Message: "bad"})
	}
	s := &RunSummary{
		Source: "users.json", Succeeded: 1, Failed: 0,
		ChildrenSucceeded: 2, ChildrenFailed: 12, Warnings: 1, Ledger: l,
	}

	var out bytes.Buffer
	written, err := Report(&out, s, path, 10)
	require.NoError(t, err)
	assert.Equal(t, path, written)

	text := out.String()
	assert.Contains(t, text, "  children:  2 succeeded, 12 failed\n")
	assert.Contains(t, text, "  warnings:  1\n")
	assert.Contains(t, text, "  errors:    12 (1 kinds: record)\n")
	assert.Contains(t, text, "    [record] track t10: bad\n")
	assert.NotContains(t, text, "t11:")
	assert.Contains(t, text, "    ... and 2 more\n")
	assert.Contains(t, text, "  error report: "+path+"\n")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var entries []ImportError
	require.NoError(t, json.Unmarshal(data, &entries))
	assert.Equal(t, l.Entries(), entries)
}

func TestReportPersistFailure(t *testing.T) {
	observeLogs(t)
	l := NewLedger()
	l.Append(ImportError{Kind: KindRecord, Entity: "track", ID: "t1", Message: "bad"})
	s := &RunSummary{Source: "tracks.csv", Failed: 1, Ledger: l}

	var out bytes.Buffer
	path := filepath.Join(t.TempDir(), "missing", "tracks_errors.json")
	written, err := Report(&out, s, path, DefaultPreviewLimit)
	require.Error(t, err)
	assert.Empty(t, written)
	assert.Contains(t, out.String(), "[record] track t1: bad")
}
