package model

// Meeting represents a single city council meeting (a Legistar event)
type Meeting struct {
	EventID     int
	Date        string // YYYY-MM-DD
	Time        string
	Location    string
	AgendaLink  string
	MinutesLink string
	VideoLink   string
	InSiteURL   string // public meeting detail page, empty when none exists
}

// RollCall is one per-member entry from a roll call, used both for
// meeting attendance and for an individual legislative vote
type RollCall struct {
	PersonName string
	Value      string
}
