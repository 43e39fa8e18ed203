package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/goleak"
	"golang.org/x/text/encoding/unicode"

	"github.com/BartekS5/soundope-import/pkg/models"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.csv"), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSourceNotFound)
}

func TestOpenUnsupportedExtension(t *testing.T) {
	path := writeFile(t, "tracks.txt", []byte("id\n1\n"))
	_, err := Open(path, nil)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSourceNotFound)
}

func TestOpenCSV(t *testing.T) {
	defer goleak.VerifyNone(t)
	data := "\xEF\xBB\xBFid , user_id,title,tags\n" +
		"t1,u1,Night Drive,\"[\"\"synth\"\"]\"\n" +
		"\n" +
		"t2,u2\n" +
		"t3,u1,Extra,[],surplus\n"
	path := writeFile(t, "tracks.csv", []byte(data))

	src, err := Open(path, nil)
	require.NoError(t, err)

	assert.Equal(t, KindTracks, src.Kind())
	require.Equal(t, 3, src.Len())
	tracks := src.Tracks()

	assert.Equal(t, "t1", tracks[0].ID.String())
	assert.Equal(t, 2, tracks[0].Line)
	assert.Equal(t, `["synth"]`, tracks[0].Tags.Value)

	assert.Equal(t, "t2", tracks[1].ID.String())
	assert.True(t, tracks[1].Title.Present)
	assert.Equal(t, "", tracks[1].Title.Value)
	assert.Equal(t, 4, tracks[1].Line)

	assert.Equal(t, "Extra", tracks[2].Title.String())
	assert.Len(t, src.Warnings, 2)
}

func TestOpenCSVDuplicateHeader(t *testing.T) {
	path := writeFile(t, "tracks.csv", []byte("id,user_id,title, title\nt1,u1,Old,New\n"))

	src, err := Open(path, nil)
	require.NoError(t, err)
	require.Equal(t, 1, src.Len())
	assert.Equal(t, "New", src.Tracks()[0].Title.String())

	require.Len(t, src.Warnings, 1)
	assert.Equal(t, 1, src.Warnings[0].Row)
	assert.Contains(t, src.Warnings[0].Message, `duplicate column "title"`)
}

func TestOpenCSVUTF16(t *testing.T) {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	data, err := enc.Bytes([]byte("id,user_id,title\nt1,u1,Café\n"))
	require.NoError(t, err)
	path := writeFile(t, "tracks.csv", data)

	src, err := Open(path, nil)
	require.NoError(t, err)
	require.Equal(t, 1, src.Len())
	assert.Equal(t, "Café", src.Tracks()[0].Title.String())
}

func TestOpenCSVWithMapping(t *testing.T) {
	path := writeFile(t, "export.csv", []byte("track_id,artist_id,name\nt1,u1,Song\n"))
	m := &models.ColumnMapping{Columns: map[string]string{"id": "track_id", "user_id": "artist_id", "title": "name"}}

	src, err := Open(path, m)
	require.NoError(t, err)
	require.Equal(t, 1, src.Len())
	rec := src.Tracks()[0]
	assert.Equal(t, "t1", rec.ID.String())
	assert.Equal(t, "u1", rec.UserID.String())
	assert.Equal(t, "Song", rec.Title.String())
}

func TestOpenEmptyCSV(t *testing.T) {
	path := writeFile(t, "tracks.csv", nil)
	_, err := Open(path, nil)
	assert.Error(t, err)
}

func TestOpenXLSX(t *testing.T) {
	defer goleak.VerifyNone(t)
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"id", "user_id", "title", "plays"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"t1", "u1", "Night Drive", "12"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{"t2", "u2"}))

	path := filepath.Join(t.TempDir(), "tracks.xlsx")
	require.NoError(t, f.SaveAs(path))

	src, err := Open(path, nil)
	require.NoError(t, err)
	assert.Equal(t, KindTracks, src.Kind())
	require.Equal(t, 2, src.Len())

	first := src.Tracks()[0]
	assert.Equal(t, "Night Drive", first.Title.String())
	assert.Equal(t, "12", first.Plays.String())
	assert.Equal(t, 2, first.Line)

	second := src.Tracks()[1]
	assert.Equal(t, "u2", second.UserID.String())
	assert.True(t, second.Plays.Present)
	assert.Empty(t, src.Warnings)
}

func TestOpenJSONBundles(t *testing.T) {
	path := writeFile(t, "users.json", []byte(`[
		{"user": {"id": "u1", "email": "dj@example.com"}, "tracks": [{"id": "t1", "title": "A"}]},
		{"user": {"id": "u2"}, "comments": [{"id": "c1", "track_id": "t1"}]}
	]`))

	src, err := Open(path, nil)
	require.NoError(t, err)
	assert.Equal(t, KindBundles, src.Kind())
	require.Equal(t, 2, src.Len())
	assert.Equal(t, "u1", src.Bundles()[0].User.ID.String())
	assert.Len(t, src.Bundles()[1].Comments, 1)
}

func TestOpenMalformedJSON(t *testing.T) {
	path := writeFile(t, "users.json", []byte(`{"user": `))
	_, err := Open(path, nil)
	assert.Error(t, err)
}
