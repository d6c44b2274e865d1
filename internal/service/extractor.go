package service

import (
	"context"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/opencivic/councilvotes/internal/config"
	"github.com/opencivic/councilvotes/internal/model"
	"github.com/opencivic/councilvotes/internal/store"
)

// ExtractStats tracks extraction statistics for the run summary
type ExtractStats struct {
	Meetings       int
	Items          int
	VotedItems     int
	ItemsWithVotes int
	Matters        int
	Persons        int
	Members        int
	TextExtracted  int
	TextSkipped    int
	TextPreserved  int
	FetchErrors    int
}

// Options selects what a single extraction run covers
type Options struct {
	Year      int
	Quarter   int
	SkipText  bool
	VotesOnly bool
}

// matterRecord is the cached fetch result for one matter
type matterRecord struct {
	detail      *model.MatterDetail
	attachments []model.MatterAttachment
}

// Extractor orchestrates the council data extraction pipeline: collect
// meetings and agenda items, enrich with matter detail, assign votes,
// optionally scrape full text, and write the output files.
//
// All accumulator state (member registry, attendance snapshots, matter
// cache, legislation URL map) lives on the Extractor and is owned by the
// single goroutine running the pipeline.
type Extractor struct {
	cfg       config.Config
	client    *LegistarClient
	scraper   *PageScraper
	store     *store.CSVStore
	opts      Options
	logger    *log.Logger
	errLogger *log.Logger

	startDate string
	endDate   string

	allMembers  map[string]bool
	attendance  map[int]map[string]string
	meetings    map[int]model.Meeting
	matterCache map[int]*matterRecord
}

// NewExtractor creates a new Extractor for one year/quarter run
func NewExtractor(cfg config.Config, client *LegistarClient, scraper *PageScraper, csvStore *store.CSVStore, opts Options) (*Extractor, error) {
	startDate, endDate, err := QuarterRange(opts.Year, opts.Quarter)
	if err != nil {
		return nil, err
	}

	return &Extractor{
		cfg:         cfg,
		client:      client,
		scraper:     scraper,
		store:       csvStore,
		opts:        opts,
		logger:      log.New(os.Stdout, "", log.LstdFlags),
		errLogger:   log.New(os.Stderr, "ERROR: ", log.LstdFlags),
		startDate:   startDate,
		endDate:     endDate,
		allMembers:  make(map[string]bool),
		attendance:  make(map[int]map[string]string),
		meetings:    make(map[int]model.Meeting),
		matterCache: make(map[int]*matterRecord),
	}, nil
}

// Run executes the complete extraction pipeline. The returned stats are
// valid even when err is non-nil (cancellation mid-run).
func (e *Extractor) Run(ctx context.Context) (*ExtractStats, error) {
	stats := &ExtractStats{}
	defer func() {
		stats.FetchErrors = e.client.Errors() + e.scraper.Errors()
	}()

	e.logger.Printf("Columbus City Council data extraction - %d Q%d", e.opts.Year, e.opts.Quarter)
	e.logger.Printf("Date range: %s to %s", e.startDate, e.endDate)

	persons := e.fetchPersons(ctx)
	stats.Persons = len(persons)

	e.logger.Printf("Fetching %d Q%d meetings...", e.opts.Year, e.opts.Quarter)
	meetings := e.client.FetchMeetings(ctx, e.cfg.API.BodyID, e.startDate, e.endDate)
	e.logger.Printf("Found %d meetings", len(meetings))
	stats.Meetings = len(meetings)

	if len(meetings) == 0 {
		e.logger.Printf("No meetings found for %d Q%d; no files written", e.opts.Year, e.opts.Quarter)
		return stats, nil
	}

	items, err := e.collectEventItems(ctx, meetings, stats)
	if err != nil {
		return stats, err
	}
	stats.Items = len(items)

	if err := e.enrichMatters(ctx, items, stats); err != nil {
		return stats, err
	}

	if e.opts.SkipText {
		e.logger.Println("Skipping full text scraping")
		e.preserveExistingText(items, stats)
	} else {
		if err := e.scrapeFullText(ctx, items, stats); err != nil {
			return stats, err
		}
	}

	if err := e.writeOutput(items, persons, stats); err != nil {
		return stats, err
	}

	e.logger.Println("Extraction complete")
	return stats, nil
}

// fetchPersons retrieves all persons, deduplicated by full name
func (e *Extractor) fetchPersons(ctx context.Context) []model.Person {
	e.logger.Println("Fetching persons list...")

	raw := e.client.FetchPersons(ctx)

	byName := make(map[string]model.Person)
	for _, p := range raw {
		if p.FullName != "" {
			byName[p.FullName] = p
		}
	}

	persons := make([]model.Person, 0, len(byName))
	for _, p := range byName {
		persons = append(persons, p)
	}

	e.logger.Printf("Found %d persons", len(persons))
	return persons
}

// collectEventItems gathers the agenda items of every meeting, builds
// each meeting's attendance snapshot from its roll call item, and
// fetches per-item votes for items with a recorded outcome
func (e *Extractor) collectEventItems(ctx context.Context, meetings []model.Meeting, stats *ExtractStats) ([]*model.AgendaItem, error) {
	e.logger.Println("")
	e.logger.Println("=== Phase 1: Collecting meeting agendas ===")

	var allItems []*model.AgendaItem

	for _, meeting := range meetings {
		select {
		case <-ctx.Done():
			return allItems, ctx.Err()
		default:
		}

		e.meetings[meeting.EventID] = meeting
		e.logger.Printf("Processing meeting %s (event %d)...", meeting.Date, meeting.EventID)

		items := e.client.FetchEventItems(ctx, meeting.EventID)
		e.logger.Printf("  Found %d agenda items", len(items))

		// First scan: the attendance roll call. Only the first matching
		// item is the attendance source.
		for _, item := range items {
			if !strings.Contains(strings.ToUpper(item.Title), "ROLL CALL") {
				continue
			}
			rollCalls := e.client.FetchRollCalls(ctx, item.EventItemID)
			attendance := make(map[string]string)
			for _, rc := range rollCalls {
				e.allMembers[rc.PersonName] = true
				attendance[rc.PersonName] = rc.Value
			}
			e.attendance[meeting.EventID] = attendance
			e.logger.Printf("  Found attendance roll call: %d members", len(attendance))
			break
		}

		// Second scan: materialize every item with legislative content.
		// All of a meeting's items share one attendance snapshot.
		attendance := e.attendance[meeting.EventID]
		for _, item := range items {
			if strings.TrimSpace(item.Title) == "" || strings.HasPrefix(item.Title, "REGULAR MEETING NO.") {
				continue
			}
			allItems = append(allItems, &model.AgendaItem{
				EventID:        meeting.EventID,
				EventDate:      meeting.Date,
				EventTime:      meeting.Time,
				EventLocation:  meeting.Location,
				EventItemID:    item.EventItemID,
				AgendaNumber:   item.AgendaNumber,
				AgendaSequence: item.AgendaSequence,
				MatterID:       item.MatterID,
				MatterFile:     item.MatterFile,
				MatterName:     item.MatterName,
				MatterType:     item.MatterType,
				MatterStatus:   item.MatterStatus,
				Title:          item.Title,
				Action:         item.ActionName,
				ActionText:     item.ActionText,
				Passed:         item.PassedFlag,
				Consent:        item.Consent,
				Tally:          item.Tally,
				Mover:          item.Mover,
				Seconder:       item.Seconder,
				RollCallFlag:   item.RollCallFlag,
				AgendaLink:     meeting.AgendaLink,
				MinutesLink:    meeting.MinutesLink,
				VideoLink:      meeting.VideoLink,
				Attendance:     attendance,
				ItemVotes:      make(map[string]string),
			})
		}
	}

	// Third pass: per-item votes, only for items with a recorded outcome.
	// Items without one have no votes to find.
	var voted []*model.AgendaItem
	for _, item := range allItems {
		if item.HasOutcome() {
			voted = append(voted, item)
		}
	}
	stats.VotedItems = len(voted)

	e.logger.Printf("Fetching per-item votes for %d voted items...", len(voted))
	found := 0
	for idx, item := range voted {
		select {
		case <-ctx.Done():
			return allItems, ctx.Err()
		default:
		}

		if (idx+1)%100 == 0 {
			e.logger.Printf("  Progress: %d/%d items checked...", idx+1, len(voted))
		}

		for _, v := range e.client.FetchItemVotes(ctx, item.EventItemID) {
			if v.PersonName == "" {
				continue
			}
			e.allMembers[v.PersonName] = true
			item.ItemVotes[v.PersonName] = v.Value
		}
		if len(item.ItemVotes) > 0 {
			found++
		}
	}
	e.logger.Printf("Per-item votes found for %d/%d voted items", found, len(voted))
	stats.ItemsWithVotes = found

	return allItems, nil
}

// enrichMatters fetches matter detail and attachments once per unique
// matter id and back-fills the denormalized fields onto every item
// referencing that matter. A failed fetch leaves the fields empty and
// never blocks other matters.
func (e *Extractor) enrichMatters(ctx context.Context, items []*model.AgendaItem, stats *ExtractStats) error {
	e.logger.Println("")
	e.logger.Println("=== Phase 1.5: Fetching matter details and attachments ===")

	unique := make(map[int]bool)
	for _, item := range items {
		if item.MatterID != 0 {
			unique[item.MatterID] = true
		}
	}

	matterIDs := make([]int, 0, len(unique))
	for id := range unique {
		matterIDs = append(matterIDs, id)
	}
	sort.Ints(matterIDs)

	e.logger.Printf("Unique matters to fetch: %d", len(matterIDs))
	stats.Matters = len(matterIDs)

	for idx, id := range matterIDs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		// Fetch-once: a populated cache entry is never refetched
		if _, ok := e.matterCache[id]; ok {
			continue
		}

		e.logger.Printf("  [%d/%d] Fetching matter %d...", idx+1, len(matterIDs), id)
		e.matterCache[id] = &matterRecord{
			detail:      e.client.FetchMatterDetail(ctx, id),
			attachments: e.client.FetchMatterAttachments(ctx, id),
		}
	}

	populated := 0
	for _, item := range items {
		record, ok := e.matterCache[item.MatterID]
		if item.MatterID == 0 || !ok {
			continue
		}

		if record.detail != nil {
			item.MatterTitle = record.detail.Title
			item.MatterTypeName = record.detail.TypeName
			item.MatterStatusName = record.detail.StatusName
			item.MatterIntroDate = truncateDate(record.detail.IntroDate)
			item.MatterPassedDate = truncateDate(record.detail.PassedDate)
			item.MatterEnactmentDate = truncateDate(record.detail.EnactmentDate)
			item.MatterEnactmentNumber = record.detail.EnactmentNumber
			item.MatterRequester = record.detail.Requester
			item.MatterBodyName = record.detail.BodyName
		}

		var links []string
		for _, a := range record.attachments {
			if a.Hyperlink != "" {
				links = append(links, a.Hyperlink)
			}
		}
		item.AttachmentLinks = strings.Join(links, "|")

		if item.MatterTitle != "" {
			populated++
		}
	}
	e.logger.Printf("Matter details populated for %d items", populated)

	return nil
}

// truncateDate strips any time-of-day component from an upstream
// datetime string, keeping the first ten characters (YYYY-MM-DD)
func truncateDate(value string) string {
	if len(value) > 10 {
		return value[:10]
	}
	return value
}

// scrapeFullText visits each meeting's detail page to map matter file
// numbers to legislation detail URLs, then extracts the full legislative
// text for every item carrying a matter file
func (e *Extractor) scrapeFullText(ctx context.Context, items []*model.AgendaItem, stats *ExtractStats) error {
	e.logger.Println("")
	e.logger.Println("=== Phase 2: Scraping full legislative text ===")

	var withMatter []*model.AgendaItem
	for _, item := range items {
		if item.MatterFile != "" {
			withMatter = append(withMatter, item)
		}
	}
	e.logger.Printf("Items with matter files to scrape: %d", len(withMatter))

	// Accumulated across all meetings; later meetings overwrite earlier
	// entries for the same file number.
	fileToURL := make(map[string]string)
	processed := make(map[int]bool)

	for _, item := range withMatter {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if processed[item.EventID] {
			continue
		}
		processed[item.EventID] = true

		insiteURL := e.meetings[item.EventID].InSiteURL
		if insiteURL == "" {
			continue
		}

		e.logger.Printf("Scraping meeting page for event %d...", item.EventID)
		urls := e.scraper.LegislationURLs(ctx, insiteURL)
		e.logger.Printf("  Scraped %d legislation URLs from meeting page", len(urls))
		for file, url := range urls {
			fileToURL[file] = url
		}
	}

	extracted, skipped := 0, 0
	for idx, item := range withMatter {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		legislationURL, ok := fileToURL[item.MatterFile]
		if !ok {
			skipped++
			continue
		}

		text := e.scraper.FullText(ctx, legislationURL)
		if text != "" {
			item.FullText = text
			extracted++
			e.logger.Printf("  [%d/%d] %s: OK (%d chars)", idx+1, len(withMatter), item.MatterFile, len(text))
		} else {
			e.logger.Printf("  [%d/%d] %s: no text found", idx+1, len(withMatter), item.MatterFile)
		}
	}

	e.logger.Printf("Full text extraction complete: %d extracted, %d skipped (no URL)", extracted, skipped)
	stats.TextExtracted = extracted
	stats.TextSkipped = skipped

	return nil
}

// preserveExistingText carries forward full text extracted by a prior
// run when scraping is skipped
func (e *Extractor) preserveExistingText(items []*model.AgendaItem, stats *ExtractStats) {
	textByItem := e.store.LoadExistingText(e.opts.Year, e.opts.Quarter)
	if len(textByItem) == 0 {
		return
	}
	e.logger.Printf("Loaded %d existing text entries for preservation", len(textByItem))

	preserved := 0
	for _, item := range items {
		if text, ok := textByItem[strconv.Itoa(item.EventItemID)]; ok {
			item.FullText = text
			preserved++
		}
	}
	e.logger.Printf("Preserved %d text entries from existing CSV", preserved)
	stats.TextPreserved = preserved
}

// writeOutput fixes the canonical member column order and writes the
// votes, voted-items, and persons files
func (e *Extractor) writeOutput(items []*model.AgendaItem, persons []model.Person, stats *ExtractStats) error {
	e.logger.Println("")
	e.logger.Println("=== Phase 3: Writing output files ===")

	members := make([]string, 0, len(e.allMembers))
	for name := range e.allMembers {
		members = append(members, name)
	}
	sort.Strings(members)
	stats.Members = len(members)

	e.logger.Printf("Found %d council members: %s", len(members), strings.Join(members, ", "))
	e.logger.Printf("Total agenda items: %d", len(items))

	if e.opts.VotesOnly {
		items = filterVoted(items)
		e.logger.Printf("Filtered to %d voted items (votes-only)", len(items))
	}

	votesFor := func(item *model.AgendaItem) map[string]string {
		return AssignVotes(item, members)
	}

	votesPath := e.store.VotesPath(e.opts.Year, e.opts.Quarter)
	if err := e.store.WriteItems(votesPath, items, members, votesFor); err != nil {
		return err
	}
	e.logger.Printf("CSV written to: %s", votesPath)

	// The voted-items file is redundant in votes-only mode: the primary
	// file is already filtered.
	if !e.opts.VotesOnly {
		voted := filterVoted(items)
		votedPath := e.store.VotedItemsPath(e.opts.Year, e.opts.Quarter)
		if err := e.store.WriteItems(votedPath, voted, members, votesFor); err != nil {
			return err
		}
		e.logger.Printf("Voted items CSV: %s", votedPath)
		e.logger.Printf("Total voted items: %d", len(voted))
	}

	personsPath := e.store.PersonsPath(e.opts.Year, e.opts.Quarter)
	if err := e.store.WritePersons(personsPath, persons); err != nil {
		return err
	}
	e.logger.Printf("Persons CSV: %s (%d persons)", personsPath, len(persons))

	return nil
}

// filterVoted returns the items with a recorded vote outcome
func filterVoted(items []*model.AgendaItem) []*model.AgendaItem {
	var voted []*model.AgendaItem
	for _, item := range items {
		if item.HasOutcome() {
			voted = append(voted, item)
		}
	}
	return voted
}
