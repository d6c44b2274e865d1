package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/opencivic/councilvotes/internal/model"
)

func intPtr(v int) *int {
	return &v
}

func TestAssignVotesExplicitRollCall(t *testing.T) {
	item := &model.AgendaItem{
		Passed: intPtr(1),
		ItemVotes: map[string]string{
			"Alice Brown": "Affirmative",
			"Bob Chen":    "Negative",
		},
		Attendance: map[string]string{
			"Alice Brown": "Present",
			"Bob Chen":    "Present",
			"Carol Diaz":  "Absent",
		},
	}
	members := []string{"Alice Brown", "Bob Chen", "Carol Diaz"}

	votes := AssignVotes(item, members)

	require.Equal(t, map[string]string{
		"Alice Brown": "Yes",
		"Bob Chen":    "No",
		"Carol Diaz":  "Absent", // unlisted, infers from attendance
	}, votes)
}

// A member with an explicit recorded vote always gets the translated
// value, never the attendance fallback, even when attendance disagrees.
func TestAssignVotesExplicitBeatsAttendance(t *testing.T) {
	item := &model.AgendaItem{
		Passed: intPtr(1),
		ItemVotes: map[string]string{
			"Alice Brown": "Affirmative",
		},
		Attendance: map[string]string{
			"Alice Brown": "Absent",
		},
	}

	votes := AssignVotes(item, []string{"Alice Brown"})
	require.Equal(t, "Yes", votes["Alice Brown"])
}

func TestAssignVotesUnlistedWithUnknownAttendance(t *testing.T) {
	item := &model.AgendaItem{
		Passed: intPtr(1),
		ItemVotes: map[string]string{
			"Alice Brown": "Affirmative",
		},
		Attendance: map[string]string{},
	}

	votes := AssignVotes(item, []string{"Alice Brown", "Bob Chen"})
	require.Equal(t, "", votes["Bob Chen"])
}

func TestAssignVotesConsentVote(t *testing.T) {
	item := &model.AgendaItem{
		Passed:    intPtr(1),
		ItemVotes: map[string]string{},
		Attendance: map[string]string{
			"Alice Brown": "Present",
			"Carol Diaz":  "Absent@vote",
			// Bob Chen has no attendance record: treated as present
		},
	}
	members := []string{"Alice Brown", "Bob Chen", "Carol Diaz"}

	votes := AssignVotes(item, members)

	require.Equal(t, map[string]string{
		"Alice Brown": "Yes",
		"Bob Chen":    "Yes",
		"Carol Diaz":  "Absent",
	}, votes)
}

func TestAssignVotesNoOutcome(t *testing.T) {
	item := &model.AgendaItem{
		ItemVotes: map[string]string{},
		Attendance: map[string]string{
			"Alice Brown": "Present",
		},
	}
	members := []string{"Alice Brown", "Bob Chen"}

	votes := AssignVotes(item, members)

	require.Equal(t, map[string]string{"Alice Brown": "", "Bob Chen": ""}, votes)
}

func TestAssignVotesFailedItem(t *testing.T) {
	item := &model.AgendaItem{
		Passed:    intPtr(0),
		ItemVotes: map[string]string{},
		Attendance: map[string]string{
			"Alice Brown": "Present",
		},
	}

	votes := AssignVotes(item, []string{"Alice Brown"})
	require.Equal(t, "", votes["Alice Brown"])
}

// The upstream vote vocabulary is open: values outside the known set
// pass through unchanged instead of failing.
func TestAssignVotesUnknownValuePassesThrough(t *testing.T) {
	item := &model.AgendaItem{
		Passed: intPtr(1),
		ItemVotes: map[string]string{
			"Alice Brown": "Recused",
		},
	}

	votes := AssignVotes(item, []string{"Alice Brown"})
	require.Equal(t, "Recused", votes["Alice Brown"])
}

// Every member of the canonical list gets exactly one column, no matter
// which subset appears in the item's votes or attendance.
func TestAssignVotesCoversAllMembers(t *testing.T) {
	members := []string{"A", "B", "C", "D", "E"}
	items := []*model.AgendaItem{
		{ItemVotes: map[string]string{"A": "Affirmative"}},
		{Passed: intPtr(1), ItemVotes: map[string]string{}},
		{ItemVotes: map[string]string{}},
	}

	for _, item := range items {
		votes := AssignVotes(item, members)
		require.Len(t, votes, len(members))
		for _, member := range members {
			require.Contains(t, votes, member)
		}
	}
}

func TestAssignVotesNilAttendance(t *testing.T) {
	item := &model.AgendaItem{
		Passed:    intPtr(1),
		ItemVotes: map[string]string{},
	}

	votes := AssignVotes(item, []string{"Alice Brown"})
	require.Equal(t, "Yes", votes["Alice Brown"])
}

func TestTranslateVote(t *testing.T) {
	require.Equal(t, "Yes", model.TranslateVote("Affirmative"))
	require.Equal(t, "No", model.TranslateVote("Negative"))
	require.Equal(t, "Abstain", model.TranslateVote("Abstained"))
	require.Equal(t, "Absent", model.TranslateVote("Absent"))
	require.Equal(t, "Absent", model.TranslateVote("Absent@vote"))
	require.Equal(t, "Present", model.TranslateVote("Present"))
	require.Equal(t, "Excused", model.TranslateVote("Excused"))
}
