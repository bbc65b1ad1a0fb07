package services

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"ticketing-system/internal/clock"
	"ticketing-system/internal/status"
	"ticketing-system/internal/store"
	"ticketing-system/models"
)

// AttendeeDashboard summarizes one attendee's activity.
type AttendeeDashboard struct {
	UpcomingTickets []models.Ticket        `json:"upcomingTickets"`
	EventsAttended  int                    `json:"eventsAttended"`
	TotalSpent      decimal.Decimal        `json:"totalSpent"`
	History         []models.AttendanceLog `json:"history"`
}

// OrganizerEventSummary is one row of the organizer dashboard.
type OrganizerEventSummary struct {
	Event       models.Event    `json:"event"`
	TicketsSold int64           `json:"ticketsSold"`
	Revenue     decimal.Decimal `json:"revenue"`
	Views       int64           `json:"views"`
	CheckedIn   int64           `json:"checkedIn"`
}

type OrganizerDashboard struct {
	Events            []OrganizerEventSummary `json:"events"`
	TotalTicketsSold  int64                   `json:"totalTicketsSold"`
	TotalRevenue      decimal.Decimal         `json:"totalRevenue"`
	TotalViews        int64                   `json:"totalViews"`
	AverageAttendance float64                 `json:"averageAttendancePct"`
}

// StaffDashboard is the gate-side view for a single event.
type StaffDashboard struct {
	Event       models.Event           `json:"event"`
	Capacity    int                    `json:"capacity"`
	TicketsSold int64                  `json:"ticketsSold"`
	CheckedIn   int64                  `json:"checkedIn"`
	Pending     int64                  `json:"pending"`
	RecentScans []models.AttendanceLog `json:"recentScans"`
}

// DashboardService aggregates read models for the three client dashboards.
// It is read-only; every number derives from the store.
type DashboardService struct {
	store store.Store
	clock clock.Clock
}

func NewDashboardService(st store.Store, cl clock.Clock) *DashboardService {
	return &DashboardService{store: st, clock: cl}
}

func (s *DashboardService) Attendee(ctx context.Context, userID string) (*AttendeeDashboard, error) {
	tickets, err := s.store.Tickets().ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	spent, err := s.store.Tickets().SumPriceByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	history, err := s.store.Attendance().ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	var upcoming []models.Ticket
	for _, t := range tickets {
		if t.Status != models.TicketActive {
			continue
		}
		event, err := s.store.Events().GetByID(ctx, t.EventID)
		if errors.Is(err, status.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if event.EndAt.After(now) && event.Status == models.EventAvailable {
			upcoming = append(upcoming, t)
		}
	}

	attendedEvents := map[string]struct{}{}
	for _, l := range history {
		attendedEvents[l.EventID] = struct{}{}
	}

	return &AttendeeDashboard{
		UpcomingTickets: upcoming,
		EventsAttended:  len(attendedEvents),
		TotalSpent:      spent,
		History:         history,
	}, nil
}

func (s *DashboardService) Organizer(ctx context.Context, organizerRef string) (*OrganizerDashboard, error) {
	events, err := s.store.Events().List(ctx)
	if err != nil {
		return nil, err
	}

	dash := &OrganizerDashboard{TotalRevenue: decimal.Zero}
	var attendanceSum float64
	var attendanceSamples int
	for _, e := range events {
		if e.Organizer != organizerRef {
			continue
		}
		sold, err := s.store.Tickets().CountByEvent(ctx, e.ID)
		if err != nil {
			return nil, err
		}
		revenue, err := s.store.Tickets().SumPriceByEvent(ctx, e.ID)
		if err != nil {
			return nil, err
		}
		checkedIn, err := s.store.Attendance().ValidCountByEvent(ctx, e.ID)
		if err != nil {
			return nil, err
		}

		dash.Events = append(dash.Events, OrganizerEventSummary{
			Event:       e,
			TicketsSold: sold,
			Revenue:     revenue,
			Views:       e.ViewCount,
			CheckedIn:   checkedIn,
		})
		dash.TotalTicketsSold += sold
		dash.TotalRevenue = dash.TotalRevenue.Add(revenue)
		dash.TotalViews += e.ViewCount
		if sold > 0 {
			attendanceSum += float64(checkedIn) / float64(sold) * 100
			attendanceSamples++
		}
	}
	if attendanceSamples > 0 {
		dash.AverageAttendance = attendanceSum / float64(attendanceSamples)
	}
	return dash, nil
}

func (s *DashboardService) Staff(ctx context.Context, eventID string) (*StaffDashboard, error) {
	event, err := s.store.Events().GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	sold, err := s.store.Tickets().CountByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	checkedIn, err := s.store.Attendance().ValidCountByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	recent, err := s.store.Attendance().RecentByEvent(ctx, eventID, recentScanLimit)
	if err != nil {
		return nil, err
	}

	pending := sold - checkedIn
	if pending < 0 {
		pending = 0
	}
	return &StaffDashboard{
		Event:       *event,
		Capacity:    event.Capacity,
		TicketsSold: sold,
		CheckedIn:   checkedIn,
		Pending:     pending,
		RecentScans: recent,
	}, nil
}
