package catalogController

import (
	"context"
	"strings"
	"time"

	. "ecobayanihan/internal/models"
	"ecobayanihan/internal/repositories"
	"ecobayanihan/internal/services"
	"ecobayanihan/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/shopspring/decimal"
)

type PointsHistorian interface {
	History(ctx context.Context, participant *Participant) (*types.PointsHistoryView, error)
}

type NoticeReader interface {
	PopPointsNotice(ctx context.Context, email string) (*types.PointsNotice, error)
}

type CatalogControllerInterface interface {
	SelectEventView(ctx context.Context, session *types.Session, participant *Participant) (*types.SelectEventView, error)
	PreviousEvents(ctx context.Context, query types.PreviousEventsQuery) (*types.PreviousEventsView, error)
	EventHistory(ctx context.Context) (*types.EventBuckets, error)
	PointsHistory(ctx context.Context, participant *Participant) (*types.PointsHistoryView, error)
	CombinedHistory(ctx context.Context, participant *Participant) (*types.CombinedHistoryView, error)
}

type CatalogController struct {
	eventRepo        repositories.CleanupEventRepository
	registrationRepo repositories.CleanupRegistrationRepository
	tx               services.Transactor
	points           PointsHistorian
	notices          NoticeReader
	now              func() time.Time
	log              logger.Logger
}

func New(repos repositories.Repository, services services.Service) CatalogControllerInterface {
	return &CatalogController{
		eventRepo:        repos.CleanupEvent,
		registrationRepo: repos.Registration,
		tx:               services.Transaction,
		points:           services.Points,
		notices:          services.Session,
		now:              time.Now,
		log:              logger.New("catalogController"),
	}
}

// SelectEventView builds the event picker. Pending one-shot notices are
// consumed here and will not be returned again.
func (c *CatalogController) SelectEventView(
	ctx context.Context,
	session *types.Session,
	participant *Participant,
) (*types.SelectEventView, error) {
	log := c.log.Function("SelectEventView").TraceFromContext(ctx)

	buckets, err := c.buckets(ctx)
	if err != nil {
		return nil, err
	}

	view := &types.SelectEventView{
		Participant:  participant,
		EventBuckets: *buckets,
	}

	if participant != nil {
		notice, err := c.notices.PopPointsNotice(ctx, participant.Email)
		if err != nil {
			log.Warn("failed to read points notice", "participantID", participant.ID, "error", err)
		}
		view.PointsNotice = notice
	}

	if session != nil {
		view.RegistrationSuccess = session.PopRegistrationSuccess(c.now())
	}

	return view, nil
}

// PreviousEvents searches past events. A malformed date filter is dropped
// rather than rejected.
func (c *CatalogController) PreviousEvents(
	ctx context.Context,
	query types.PreviousEventsQuery,
) (*types.PreviousEventsView, error) {
	log := c.log.Function("PreviousEvents").TraceFromContext(ctx)

	search := strings.TrimSpace(query.Query)
	date := query.ParsedDate()

	previous, err := c.eventRepo.SearchPrevious(ctx, c.tx.DB(ctx), c.now(), search, date)
	if err != nil {
		return nil, log.Err("failed to search previous events", err)
	}

	view := &types.PreviousEventsView{
		Events:      previous,
		SearchQuery: search,
	}
	if date != nil {
		view.DateFilter = date.Format(types.DATE_LAYOUT)
	}

	return view, nil
}

func (c *CatalogController) EventHistory(ctx context.Context) (*types.EventBuckets, error) {
	return c.buckets(ctx)
}

func (c *CatalogController) PointsHistory(
	ctx context.Context,
	participant *Participant,
) (*types.PointsHistoryView, error) {
	if participant == nil {
		return &types.PointsHistoryView{History: []types.PointsHistoryEntry{}}, nil
	}

	return c.points.History(ctx, participant)
}

func (c *CatalogController) CombinedHistory(
	ctx context.Context,
	participant *Participant,
) (*types.CombinedHistoryView, error) {
	log := c.log.Function("CombinedHistory").TraceFromContext(ctx)

	view := &types.CombinedHistoryView{
		History:        []types.CombinedHistoryEntry{},
		VolunteerHours: decimal.Zero,
	}
	if participant == nil {
		return view, nil
	}

	registrations, err := c.registrationRepo.ListByParticipant(ctx, c.tx.DB(ctx), participant.ID)
	if err != nil {
		return nil, log.Err("failed to list registrations", err, "participantID", participant.ID)
	}

	for _, registration := range registrations {
		if registration.Event == nil {
			continue
		}
		event := registration.Event

		entry := types.CombinedHistoryEntry{
			RegistrationID: registration.ID,
			EventID:        event.ID,
			EventName:      event.Name,
			EventDate:      event.FormattedDate(),
			EventTime:      event.FormattedStartTime(),
			DurationHours:  event.DurationHours,
			PointsStatus:   types.POINTS_STATUS_PENDING,
			Attended:       registration.Attended,
			Approved:       registration.Approved,
			HasProof:       registration.ProofImage != nil,
			RegisteredAt:   registration.RegisteredAt(),
			Type:           "event",
		}
		if registration.PointsAwarded {
			entry.PointsStatus = types.POINTS_STATUS_AWARDED
			entry.Points = event.Points
		}
		if registration.Attended {
			view.VolunteerHours = view.VolunteerHours.Add(event.DurationHours)
		}

		view.History = append(view.History, entry)
	}

	view.TotalPoints = participant.Points
	view.ParticipantPoints = participant.Points

	return view, nil
}

// buckets splits the catalog around today: past events newest first, today's
// by start time, future ones soonest first.
func (c *CatalogController) buckets(ctx context.Context) (*types.EventBuckets, error) {
	log := c.log.Function("buckets").TraceFromContext(ctx)

	db := c.tx.DB(ctx)
	today := c.now()

	previous, err := c.eventRepo.ListPrevious(ctx, db, today)
	if err != nil {
		return nil, log.Err("failed to list previous events", err)
	}

	current, err := c.eventRepo.ListOnDay(ctx, db, today)
	if err != nil {
		return nil, log.Err("failed to list current events", err)
	}

	upcoming, err := c.eventRepo.ListUpcoming(ctx, db, today)
	if err != nil {
		return nil, log.Err("failed to list upcoming events", err)
	}

	return &types.EventBuckets{
		Previous: previous,
		Current:  current,
		Upcoming: upcoming,
	}, nil
}
