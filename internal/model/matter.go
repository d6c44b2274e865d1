package model

// MatterDetail is the detail record for a legislative file (ordinance,
// resolution) tracked across its lifecycle
type MatterDetail struct {
	Title           string
	TypeName        string
	StatusName      string
	IntroDate       string
	PassedDate      string
	EnactmentDate   string
	EnactmentNumber string
	Requester       string
	BodyName        string
}

// MatterAttachment is one supporting document attached to a matter
type MatterAttachment struct {
	Name      string
	Hyperlink string
}
