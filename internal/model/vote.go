package model

// Output vote values written to the per-member columns
const (
	VoteYes     = "Yes"
	VoteNo      = "No"
	VoteAbstain = "Abstain"
	VoteAbsent  = "Absent"
	VotePresent = "Present"
)

// Attendance statuses recorded at a meeting's roll call. The upstream
// vocabulary is not closed; statuses outside this set pass through
// unchanged and are treated as present.
const (
	AttendancePresent    = "Present"
	AttendanceAbsent     = "Absent"
	AttendanceAbsentVote = "Absent@vote"
)

// voteValues maps recorded vote value names to output vote values
var voteValues = map[string]string{
	"Affirmative":        VoteYes,
	"Negative":           VoteNo,
	"Abstained":          VoteAbstain,
	AttendanceAbsent:     VoteAbsent,
	AttendanceAbsentVote: VoteAbsent,
	AttendancePresent:    VotePresent,
}

// TranslateVote maps a recorded vote value name to its output value.
// Unrecognized values pass through unchanged so new upstream statuses
// surface in the output instead of failing.
func TranslateVote(value string) string {
	if translated, ok := voteValues[value]; ok {
		return translated
	}
	return value
}

// IsAbsentStatus reports whether an attendance status counts as absent.
// Unknown or missing statuses do not.
func IsAbsentStatus(status string) bool {
	return status == AttendanceAbsent || status == AttendanceAbsentVote
}
