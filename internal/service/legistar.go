package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/opencivic/councilvotes/internal/config"
	"github.com/opencivic/councilvotes/internal/model"
)

const (
	initialRetryWait = 1 * time.Second
	maxRetryWait     = 30 * time.Second
)

// retryStatusCodes are the transient statuses retried at the transport
// level before a call is considered failed
var retryStatusCodes = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// LegistarClient handles communication with the Legistar Web API.
//
// The client is a pure I/O boundary and deliberately fail-soft: exhausted
// retries, non-200 responses, and decode failures are logged and surface
// to callers as empty results, never as errors. Callers treat "no data"
// and "fetch failed" identically.
type LegistarClient struct {
	http      *resty.Client
	limiter   *rate.Limiter
	errLogger *log.Logger
	errors    int
}

// NewLegistarClient creates a new Legistar API client
func NewLegistarClient(cfg config.API) *LegistarClient {
	client := resty.New()
	client.SetBaseURL(cfg.BaseURL)
	client.SetTimeout(cfg.Timeout())
	client.SetRetryCount(cfg.RetryCount)
	client.SetRetryWaitTime(initialRetryWait)
	client.SetRetryMaxWaitTime(maxRetryWait)
	client.AddRetryCondition(func(res *resty.Response, err error) bool {
		if err != nil {
			return true
		}
		return retryStatusCodes[res.StatusCode()]
	})

	return &LegistarClient{
		http:      client,
		limiter:   rate.NewLimiter(rate.Every(cfg.RequestInterval()), 1),
		errLogger: log.New(os.Stderr, "ERROR: ", log.LstdFlags),
	}
}

// Errors returns the number of failed calls observed so far
func (c *LegistarClient) Errors() int {
	return c.errors
}

// get performs a rate-limited GET against path and decodes the JSON body
// into out, reporting whether the call succeeded
func (c *LegistarClient) get(ctx context.Context, path string, params map[string]string, out any) bool {
	if err := c.limiter.Wait(ctx); err != nil {
		return false
	}

	req := c.http.R().SetContext(ctx)
	if len(params) > 0 {
		req.SetQueryParams(params)
	}

	res, err := req.Get(path)
	if err != nil {
		c.errors++
		c.errLogger.Printf("Failed to fetch %s: %v", path, err)
		return false
	}
	if res.StatusCode() != http.StatusOK {
		c.errors++
		c.errLogger.Printf("Failed to fetch %s: unexpected status code %d", path, res.StatusCode())
		return false
	}

	if err := json.Unmarshal(res.Body(), out); err != nil {
		c.errors++
		c.errLogger.Printf("Failed to parse %s response: %v", path, err)
		return false
	}

	return true
}

// personJSON represents a person in the API response
type personJSON struct {
	PersonID         int    `json:"PersonId"`
	PersonFullName   string `json:"PersonFullName"`
	PersonFirstName  string `json:"PersonFirstName"`
	PersonLastName   string `json:"PersonLastName"`
	PersonEmail      string `json:"PersonEmail"`
	PersonActiveFlag int    `json:"PersonActiveFlag"`
	PersonPhone      string `json:"PersonPhone"`
	PersonWWW        string `json:"PersonWWW"`
}

// FetchPersons retrieves all persons known to the system in one bulk call
func (c *LegistarClient) FetchPersons(ctx context.Context) []model.Person {
	var raw []personJSON
	if !c.get(ctx, "persons", nil, &raw) {
		return nil
	}

	persons := make([]model.Person, len(raw))
	for i, p := range raw {
		persons[i] = model.Person{
			ID:         p.PersonID,
			FullName:   p.PersonFullName,
			FirstName:  p.PersonFirstName,
			LastName:   p.PersonLastName,
			Email:      p.PersonEmail,
			ActiveFlag: p.PersonActiveFlag,
			Phone:      p.PersonPhone,
			WWW:        p.PersonWWW,
		}
	}

	return persons
}

// eventJSON represents a meeting in the events API response
type eventJSON struct {
	EventID          int    `json:"EventId"`
	EventDate        string `json:"EventDate"`
	EventTime        string `json:"EventTime"`
	EventLocation    string `json:"EventLocation"`
	EventAgendaFile  string `json:"EventAgendaFile"`
	EventMinutesFile string `json:"EventMinutesFile"`
	EventVideoPath   string `json:"EventVideoPath"`
	EventInSiteURL   string `json:"EventInSiteURL"`
}

// FetchMeetings retrieves council meetings with an event date inside the
// half-open range [startDate, endDate), ordered by date ascending
func (c *LegistarClient) FetchMeetings(ctx context.Context, bodyID int, startDate, endDate string) []model.Meeting {
	params := map[string]string{
		"$filter": fmt.Sprintf(
			"EventBodyId eq %d and EventDate ge datetime'%s' and EventDate lt datetime'%s'",
			bodyID, startDate, endDate,
		),
		"$orderby": "EventDate asc",
	}

	var raw []eventJSON
	if !c.get(ctx, "events", params, &raw) {
		return nil
	}

	meetings := make([]model.Meeting, len(raw))
	for i, e := range raw {
		date := e.EventDate
		if len(date) > 10 {
			date = date[:10]
		}
		meetings[i] = model.Meeting{
			EventID:     e.EventID,
			Date:        date,
			Time:        e.EventTime,
			Location:    e.EventLocation,
			AgendaLink:  e.EventAgendaFile,
			MinutesLink: e.EventMinutesFile,
			VideoLink:   e.EventVideoPath,
			InSiteURL:   e.EventInSiteURL,
		}
	}

	return meetings
}

// eventItemJSON represents an agenda item in the API response
type eventItemJSON struct {
	EventItemID             int    `json:"EventItemId"`
	EventItemAgendaNumber   string `json:"EventItemAgendaNumber"`
	EventItemAgendaSequence int    `json:"EventItemAgendaSequence"`
	EventItemMatterID       *int   `json:"EventItemMatterId"`
	EventItemMatterFile     string `json:"EventItemMatterFile"`
	EventItemMatterName     string `json:"EventItemMatterName"`
	EventItemMatterType     string `json:"EventItemMatterType"`
	EventItemMatterStatus   string `json:"EventItemMatterStatus"`
	EventItemTitle          string `json:"EventItemTitle"`
	EventItemActionName     string `json:"EventItemActionName"`
	EventItemActionText     string `json:"EventItemActionText"`
	EventItemPassedFlag     *int   `json:"EventItemPassedFlag"`
	EventItemConsent        int    `json:"EventItemConsent"`
	EventItemTally          string `json:"EventItemTally"`
	EventItemMover          string `json:"EventItemMover"`
	EventItemSeconder       string `json:"EventItemSeconder"`
	EventItemRollCallFlag   int    `json:"EventItemRollCallFlag"`
}

// FetchEventItems retrieves the agenda items for a meeting
func (c *LegistarClient) FetchEventItems(ctx context.Context, eventID int) []model.EventItem {
	var raw []eventItemJSON
	if !c.get(ctx, fmt.Sprintf("events/%d/EventItems", eventID), nil, &raw) {
		return nil
	}

	items := make([]model.EventItem, len(raw))
	for i, e := range raw {
		matterID := 0
		if e.EventItemMatterID != nil {
			matterID = *e.EventItemMatterID
		}
		items[i] = model.EventItem{
			EventItemID:    e.EventItemID,
			AgendaNumber:   e.EventItemAgendaNumber,
			AgendaSequence: e.EventItemAgendaSequence,
			MatterID:       matterID,
			MatterFile:     e.EventItemMatterFile,
			MatterName:     e.EventItemMatterName,
			MatterType:     e.EventItemMatterType,
			MatterStatus:   e.EventItemMatterStatus,
			Title:          e.EventItemTitle,
			ActionName:     e.EventItemActionName,
			ActionText:     e.EventItemActionText,
			PassedFlag:     e.EventItemPassedFlag,
			Consent:        e.EventItemConsent,
			Tally:          e.EventItemTally,
			Mover:          e.EventItemMover,
			Seconder:       e.EventItemSeconder,
			RollCallFlag:   e.EventItemRollCallFlag,
		}
	}

	return items
}

// rollCallJSON represents an attendance roll call entry
type rollCallJSON struct {
	RollCallPersonName string `json:"RollCallPersonName"`
	RollCallValueName  string `json:"RollCallValueName"`
}

// FetchRollCalls retrieves the roll call entries for an agenda item
func (c *LegistarClient) FetchRollCalls(ctx context.Context, eventItemID int) []model.RollCall {
	var raw []rollCallJSON
	if !c.get(ctx, fmt.Sprintf("EventItems/%d/RollCalls", eventItemID), nil, &raw) {
		return nil
	}

	rollCalls := make([]model.RollCall, len(raw))
	for i, rc := range raw {
		rollCalls[i] = model.RollCall{
			PersonName: rc.RollCallPersonName,
			Value:      rc.RollCallValueName,
		}
	}

	return rollCalls
}

// voteJSON represents an individual legislative vote entry
type voteJSON struct {
	VotePersonName string `json:"VotePersonName"`
	VoteValueName  string `json:"VoteValueName"`
}

// FetchItemVotes retrieves the individual legislative votes for an
// agenda item
func (c *LegistarClient) FetchItemVotes(ctx context.Context, eventItemID int) []model.RollCall {
	var raw []voteJSON
	if !c.get(ctx, fmt.Sprintf("EventItems/%d/Votes", eventItemID), nil, &raw) {
		return nil
	}

	votes := make([]model.RollCall, len(raw))
	for i, v := range raw {
		votes[i] = model.RollCall{
			PersonName: v.VotePersonName,
			Value:      v.VoteValueName,
		}
	}

	return votes
}

// matterJSON represents a matter detail record in the API response
type matterJSON struct {
	MatterTitle           string `json:"MatterTitle"`
	MatterTypeName        string `json:"MatterTypeName"`
	MatterStatusName      string `json:"MatterStatusName"`
	MatterIntroDate       string `json:"MatterIntroDate"`
	MatterPassedDate      string `json:"MatterPassedDate"`
	MatterEnactmentDate   string `json:"MatterEnactmentDate"`
	MatterEnactmentNumber string `json:"MatterEnactmentNumber"`
	MatterRequester       string `json:"MatterRequester"`
	MatterBodyName        string `json:"MatterBodyName"`
}

// FetchMatterDetail retrieves the detail record for a matter, or nil
// when the fetch fails
func (c *LegistarClient) FetchMatterDetail(ctx context.Context, matterID int) *model.MatterDetail {
	var raw matterJSON
	if !c.get(ctx, fmt.Sprintf("matters/%d", matterID), nil, &raw) {
		return nil
	}

	return &model.MatterDetail{
		Title:           raw.MatterTitle,
		TypeName:        raw.MatterTypeName,
		StatusName:      raw.MatterStatusName,
		IntroDate:       raw.MatterIntroDate,
		PassedDate:      raw.MatterPassedDate,
		EnactmentDate:   raw.MatterEnactmentDate,
		EnactmentNumber: raw.MatterEnactmentNumber,
		Requester:       raw.MatterRequester,
		BodyName:        raw.MatterBodyName,
	}
}

// attachmentJSON represents a matter attachment in the API response
type attachmentJSON struct {
	MatterAttachmentName      string `json:"MatterAttachmentName"`
	MatterAttachmentHyperlink string `json:"MatterAttachmentHyperlink"`
}

// FetchMatterAttachments retrieves the attachment list for a matter
func (c *LegistarClient) FetchMatterAttachments(ctx context.Context, matterID int) []model.MatterAttachment {
	var raw []attachmentJSON
	if !c.get(ctx, fmt.Sprintf("matters/%d/attachments", matterID), nil, &raw) {
		return nil
	}

	attachments := make([]model.MatterAttachment, len(raw))
	for i, a := range raw {
		attachments[i] = model.MatterAttachment{
			Name:      a.MatterAttachmentName,
			Hyperlink: a.MatterAttachmentHyperlink,
		}
	}

	return attachments
}
