package store

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/opencivic/councilvotes/internal/model"
)

func TestPaths(t *testing.T) {
	s := NewCSVStore("/tmp/out", "Columbus-OH")

	require.Equal(t, filepath.Join("/tmp/out", "Columbus-OH-2023-Q2-Votes.csv"), s.VotesPath(2023, 2))
	require.Equal(t, filepath.Join("/tmp/out", "Columbus-OH-2023-Q2-Voted-Items.csv"), s.VotedItemsPath(2023, 2))
	require.Equal(t, filepath.Join("/tmp/out", "Columbus-OH-2023-Q2-Persons.csv"), s.PersonsPath(2023, 2))
}

func TestWriteItemsAndLoadExistingText(t *testing.T) {
	dir := t.TempDir()
	s := NewCSVStore(dir, "Columbus-OH")

	passed := 1
	items := []*model.AgendaItem{
		{
			EventID:     100,
			EventDate:   "2023-05-01",
			EventItemID: 2,
			Title:       "An ordinance, with \"quotes\" and, commas",
			Passed:      &passed,
			FullText:    "Line one\nLine two",
		},
		{
			EventID:     100,
			EventDate:   "2023-05-01",
			EventItemID: 3,
			Title:       "A resolution",
		},
	}
	members := []string{"Alice Brown", "Bob Chen"}
	votesFor := func(item *model.AgendaItem) map[string]string {
		if item.EventItemID == 2 {
			return map[string]string{"Alice Brown": "Yes", "Bob Chen": "No"}
		}
		return map[string]string{"Alice Brown": "", "Bob Chen": ""}
	}

	path := s.VotesPath(2023, 2)
	require.NoError(t, s.WriteItems(path, items, members, votesFor))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	header := records[0]
	require.Equal(t, "event_id", header[0])
	require.Equal(t, "Agenda_item_fulltext", header[len(header)-3])
	require.Equal(t, []string{"Alice Brown", "Bob Chen"}, header[len(header)-2:])

	require.Equal(t, "Yes", records[1][len(header)-2])
	require.Equal(t, "No", records[1][len(header)-1])

	// preservation round-trip keeps the text unchanged, quoting included
	texts := s.LoadExistingText(2023, 2)
	require.Equal(t, map[string]string{"2": "Line one\nLine two"}, texts)
}

func TestLoadExistingTextMissingFile(t *testing.T) {
	s := NewCSVStore(t.TempDir(), "Columbus-OH")
	require.Empty(t, s.LoadExistingText(2023, 2))
}

func TestLoadExistingTextUnexpectedHeader(t *testing.T) {
	dir := t.TempDir()
	s := NewCSVStore(dir, "Columbus-OH")

	require.NoError(t, os.WriteFile(s.VotesPath(2023, 2), []byte("a,b\n1,2\n"), 0o644))
	require.Empty(t, s.LoadExistingText(2023, 2))
}

func TestWritePersonsSorted(t *testing.T) {
	dir := t.TempDir()
	s := NewCSVStore(dir, "Columbus-OH")

	persons := []model.Person{
		{ID: 3, FullName: "Carol Diaz", ActiveFlag: 1},
		{ID: 1, FullName: "Alice Brown", Email: "alice@example.gov", ActiveFlag: 1},
		{ID: 2, FullName: "Bob Chen", ActiveFlag: 0},
	}

	path := s.PersonsPath(2023, 2)
	require.NoError(t, s.WritePersons(path, persons))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)

	require.Equal(t, personColumns, records[0])
	require.Equal(t, "Alice Brown", records[1][1])
	require.Equal(t, "Bob Chen", records[2][1])
	require.Equal(t, "Carol Diaz", records[3][1])
	require.Equal(t, "alice@example.gov", records[1][4])
	require.Equal(t, "0", records[2][5])
}
