package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/opencivic/councilvotes/internal/model"
)

// itemColumns is the fixed column order for agenda item output; one
// column per council member follows, sorted by name. Changing the order
// breaks downstream consumers and the cross-run text preservation.
var itemColumns = []string{
	"event_id", "event_date", "event_time", "event_location",
	"event_item_id", "agenda_number", "agenda_sequence",
	"matter_file", "matter_name", "matter_title", "matter_type", "matter_type_name",
	"matter_status", "matter_status_name",
	"matter_intro_date", "matter_passed_date", "matter_enactment_date", "matter_enactment_number",
	"matter_requester", "matter_body_name",
	"title", "action", "action_text", "passed", "consent", "tally", "mover", "seconder",
	"roll_call_flag", "agenda_link", "minutes_link", "video_link", "attachment_links",
	"Agenda_item_fulltext",
}

// personColumns is the fixed column order for the persons output
var personColumns = []string{
	"PersonId", "PersonFullName", "PersonFirstName", "PersonLastName",
	"PersonEmail", "PersonActiveFlag", "PersonPhone", "PersonWWW",
}

// CSVStore writes extraction output files under a single directory
type CSVStore struct {
	dir    string
	prefix string
}

// NewCSVStore creates a new CSVStore
func NewCSVStore(dir, prefix string) *CSVStore {
	return &CSVStore{dir: dir, prefix: prefix}
}

// VotesPath returns the path of the primary output file for a quarter
func (s *CSVStore) VotesPath(year, quarter int) string {
	return s.path(year, quarter, "Votes")
}

// VotedItemsPath returns the path of the voted-items output file for a
// quarter
func (s *CSVStore) VotedItemsPath(year, quarter int) string {
	return s.path(year, quarter, "Voted-Items")
}

// PersonsPath returns the path of the persons output file for a quarter
func (s *CSVStore) PersonsPath(year, quarter int) string {
	return s.path(year, quarter, "Persons")
}

func (s *CSVStore) path(year, quarter int, suffix string) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s-%d-Q%d-%s.csv", s.prefix, year, quarter, suffix))
}

// LoadExistingText reads the prior run's primary output file and returns
// its non-empty full text values keyed by event item id. A missing or
// unreadable file yields an empty map.
func (s *CSVStore) LoadExistingText(year, quarter int) map[string]string {
	textByItem := make(map[string]string)

	f, err := os.Open(s.VotesPath(year, quarter))
	if err != nil {
		return textByItem
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return textByItem
	}

	idCol, textCol := -1, -1
	for i, name := range header {
		switch name {
		case "event_item_id":
			idCol = i
		case "Agenda_item_fulltext":
			textCol = i
		}
	}
	if idCol < 0 || textCol < 0 {
		return textByItem
	}

	for {
		record, err := reader.Read()
		if err != nil {
			break
		}
		if idCol >= len(record) || textCol >= len(record) {
			continue
		}
		if record[idCol] != "" && record[textCol] != "" {
			textByItem[record[idCol]] = record[textCol]
		}
	}

	return textByItem
}

// WriteItems writes one CSV file of agenda items, with one vote column
// per member appended in the given order. votesFor supplies the computed
// per-member vote values for each item.
func (s *CSVStore) WriteItems(path string, items []*model.AgendaItem, members []string, votesFor func(*model.AgendaItem) map[string]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	header := make([]string, 0, len(itemColumns)+len(members))
	header = append(header, itemColumns...)
	header = append(header, members...)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, item := range items {
		row := itemRow(item)
		votes := votesFor(item)
		for _, member := range members {
			row = append(row, votes[member])
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}

	return nil
}

// itemRow serializes the fixed columns of one agenda item, in
// itemColumns order
func itemRow(item *model.AgendaItem) []string {
	passed := ""
	if item.Passed != nil {
		passed = strconv.Itoa(*item.Passed)
	}

	return []string{
		strconv.Itoa(item.EventID),
		item.EventDate,
		item.EventTime,
		item.EventLocation,
		strconv.Itoa(item.EventItemID),
		item.AgendaNumber,
		strconv.Itoa(item.AgendaSequence),
		item.MatterFile,
		item.MatterName,
		item.MatterTitle,
		item.MatterType,
		item.MatterTypeName,
		item.MatterStatus,
		item.MatterStatusName,
		item.MatterIntroDate,
		item.MatterPassedDate,
		item.MatterEnactmentDate,
		item.MatterEnactmentNumber,
		item.MatterRequester,
		item.MatterBodyName,
		item.Title,
		item.Action,
		item.ActionText,
		passed,
		strconv.Itoa(item.Consent),
		item.Tally,
		item.Mover,
		item.Seconder,
		strconv.Itoa(item.RollCallFlag),
		item.AgendaLink,
		item.MinutesLink,
		item.VideoLink,
		item.AttachmentLinks,
		item.FullText,
	}
}

// WritePersons writes the persons contact file, one row per person
// sorted by full name
func (s *CSVStore) WritePersons(path string, persons []model.Person) error {
	sorted := make([]model.Person, len(persons))
	copy(sorted, persons)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].FullName < sorted[j].FullName
	})

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	if err := writer.Write(personColumns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, p := range sorted {
		row := []string{
			strconv.Itoa(p.ID),
			p.FullName,
			p.FirstName,
			p.LastName,
			p.Email,
			strconv.Itoa(p.ActiveFlag),
			p.Phone,
			p.WWW,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}

	return nil
}
