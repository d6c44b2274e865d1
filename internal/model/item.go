package model

// EventItem represents one agenda line as returned by the events API
type EventItem struct {
	EventItemID    int
	AgendaNumber   string
	AgendaSequence int
	MatterID       int // 0 when the item references no matter
	MatterFile     string
	MatterName     string
	MatterType     string
	MatterStatus   string
	Title          string
	ActionName     string
	ActionText     string
	PassedFlag     *int // nil when no vote outcome was recorded
	Consent        int
	Tally          string
	Mover          string
	Seconder       string
	RollCallFlag   int
}

// AgendaItem is one row of legislative business considered at a meeting.
// It is created during collection, back-filled with matter detail during
// enrichment, and carries the attendance snapshot of its meeting (shared
// by reference with every sibling item).
type AgendaItem struct {
	EventID       int
	EventDate     string
	EventTime     string
	EventLocation string

	EventItemID    int
	AgendaNumber   string
	AgendaSequence int
	MatterID       int // 0 when the item references no matter
	MatterFile     string
	MatterName     string
	MatterType     string
	MatterStatus   string
	Title          string
	Action         string
	ActionText     string
	Passed         *int // nil when no vote outcome was recorded
	Consent        int
	Tally          string
	Mover          string
	Seconder       string
	RollCallFlag   int

	// Matter detail fields, populated during enrichment and left empty
	// when the matter fetch fails.
	MatterTitle           string
	MatterTypeName        string
	MatterStatusName      string
	MatterIntroDate       string
	MatterPassedDate      string
	MatterEnactmentDate   string
	MatterEnactmentNumber string
	MatterRequester       string
	MatterBodyName        string
	AttachmentLinks       string

	AgendaLink  string
	MinutesLink string
	VideoLink   string
	FullText    string

	// Attendance maps member name to attendance status for the owning
	// meeting; ItemVotes maps member name to the recorded vote value for
	// this item (empty for consent and voice votes).
	Attendance map[string]string
	ItemVotes  map[string]string
}

// HasOutcome reports whether a vote outcome was recorded for the item
func (a *AgendaItem) HasOutcome() bool {
	return a.Passed != nil
}

// WasPassed reports whether the item's recorded outcome is a pass
func (a *AgendaItem) WasPassed() bool {
	return a.Passed != nil && *a.Passed == 1
}
