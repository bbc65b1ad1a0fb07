package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"

	"ticketing-system/internal/status"
	"ticketing-system/models"
)

// Collection names. Migrations keep these in sync.
const (
	CollectionEvents     = "events"
	CollectionTickets    = "tickets"
	CollectionPayments   = "payments"
	CollectionAttendance = "attendance_log"
	CollectionEventViews = "event_view"
	// "users" is taken by the framework's auth collection; the app keeps
	// its own account records.
	CollectionUsers         = "app_users"
	CollectionRoles         = "roles"
	CollectionNotifications = "notifications"
)

// PB implements Store on top of a PocketBase app. The same type serves both
// the root app and transaction views; WithTx rewraps the tx app.
type PB struct {
	app core.App
}

func NewPB(app core.App) *PB {
	return &PB{app: app}
}

func (p *PB) Events() EventStore               { return pbEvents{p} }
func (p *PB) Tickets() TicketStore             { return pbTickets{p} }
func (p *PB) Payments() PaymentStore           { return pbPayments{p} }
func (p *PB) Attendance() AttendanceStore      { return pbAttendance{p} }
func (p *PB) Views() ViewStore                 { return pbViews{p} }
func (p *PB) Users() UserStore                 { return pbUsers{p} }
func (p *PB) Roles() RoleStore                 { return pbRoles{p} }
func (p *PB) Notifications() NotificationStore { return pbNotifications{p} }

func (p *PB) WithTx(ctx context.Context, fn func(tx Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.app.RunInTransaction(func(txApp core.App) error {
		return fn(NewPB(txApp))
	})
}

func (p *PB) newRecord(collection string) (*core.Record, error) {
	col, err := p.app.FindCollectionByNameOrId(collection)
	if err != nil {
		return nil, fmt.Errorf("collection %s: %w", collection, err)
	}
	return core.NewRecord(col), nil
}

func (p *PB) findRecord(collection, id string) (*core.Record, error) {
	if id == "" {
		return nil, fmt.Errorf("%s: empty id: %w", collection, status.ErrNotFound)
	}
	record, err := p.app.FindRecordById(collection, id)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", collection, id, lookupErr(err))
	}
	return record, nil
}

// lookupErr maps a missing row to ErrNotFound; anything else is a store
// failure and passes through untouched.
func lookupErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return status.ErrNotFound
	}
	return err
}

func (p *PB) deleteRecord(ctx context.Context, collection, id string) error {
	record, err := p.findRecord(collection, id)
	if err != nil {
		return err
	}
	return p.app.DeleteWithContext(ctx, record)
}

func (p *PB) deleteWhere(collection, column, value string) error {
	q := fmt.Sprintf("DELETE FROM %s WHERE %s = {:value}", collection, column)
	_, err := p.app.DB().NewQuery(q).Bind(dbx.Params{"value": value}).Execute()
	return err
}

func (p *PB) countWhere(collection string, exp dbx.HashExp) (int64, error) {
	return p.app.CountRecords(collection, exp)
}

func (p *PB) sumColumn(collection, column, keyColumn, keyValue string) (decimal.Decimal, error) {
	q := fmt.Sprintf("SELECT COALESCE(SUM(%s), 0) FROM %s WHERE %s = {:key}", column, collection, keyColumn)
	var sum float64
	if err := p.app.DB().NewQuery(q).Bind(dbx.Params{"key": keyValue}).Row(&sum); err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromFloat(sum), nil
}

func recordTime(r *core.Record, field string) time.Time {
	return r.GetDateTime(field).Time()
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(strings.ToUpper(err.Error()), "UNIQUE")
}

// ---- events ----

type pbEvents struct{ p *PB }

func eventFromRecord(r *core.Record) *models.Event {
	e := &models.Event{
		ID:                 r.Id,
		Name:               r.GetString("name"),
		Location:           r.GetString("location"),
		Category:           r.GetString("category"),
		StartAt:            recordTime(r, "start_at"),
		EndAt:              recordTime(r, "end_at"),
		TicketPrice:        decimal.NewFromFloat(r.GetFloat("ticket_price")),
		Capacity:           r.GetInt("capacity"),
		Organizer:          r.GetString("organizer"),
		Description:        r.GetString("description"),
		ViewCount:          int64(r.GetInt("view_count")),
		TicketsSold:        r.GetInt("tickets_sold"),
		Status:             models.ParseEventStatus(r.GetString("status")),
		CancellationReason: r.GetString("cancellation_reason"),
	}
	if dt := r.GetDateTime("cancelled_at"); !dt.IsZero() {
		t := dt.Time()
		e.CancelledAt = &t
	}
	return e
}

func eventToRecord(e *models.Event, r *core.Record) {
	r.Set("name", e.Name)
	r.Set("location", e.Location)
	r.Set("category", e.Category)
	r.Set("start_at", e.StartAt)
	r.Set("end_at", e.EndAt)
	r.Set("ticket_price", e.TicketPrice.InexactFloat64())
	r.Set("capacity", e.Capacity)
	r.Set("organizer", e.Organizer)
	r.Set("description", e.Description)
	r.Set("view_count", e.ViewCount)
	r.Set("tickets_sold", e.TicketsSold)
	r.Set("status", e.Status.String())
	r.Set("cancellation_reason", e.CancellationReason)
	if e.CancelledAt != nil {
		r.Set("cancelled_at", *e.CancelledAt)
	} else {
		r.Set("cancelled_at", "")
	}
}

func (s pbEvents) GetByID(ctx context.Context, id string) (*models.Event, error) {
	r, err := s.p.findRecord(CollectionEvents, id)
	if err != nil {
		return nil, err
	}
	return eventFromRecord(r), nil
}

func (s pbEvents) List(ctx context.Context) ([]models.Event, error) {
	records, err := s.p.app.FindAllRecords(CollectionEvents)
	if err != nil {
		return nil, err
	}
	events := make([]models.Event, 0, len(records))
	for _, r := range records {
		events = append(events, *eventFromRecord(r))
	}
	return events, nil
}

func (s pbEvents) Create(ctx context.Context, event *models.Event) error {
	r, err := s.p.newRecord(CollectionEvents)
	if err != nil {
		return err
	}
	eventToRecord(event, r)
	if err := s.p.app.SaveWithContext(ctx, r); err != nil {
		return err
	}
	event.ID = r.Id
	return nil
}

func (s pbEvents) Update(ctx context.Context, event *models.Event) error {
	r, err := s.p.findRecord(CollectionEvents, event.ID)
	if err != nil {
		return err
	}
	eventToRecord(event, r)
	return s.p.app.SaveWithContext(ctx, r)
}

func (s pbEvents) Delete(ctx context.Context, id string) error {
	return s.p.deleteRecord(ctx, CollectionEvents, id)
}

func (s pbEvents) IncrementViews(ctx context.Context, id string) error {
	_, err := s.p.app.DB().
		NewQuery("UPDATE events SET view_count = view_count + 1 WHERE id = {:id}").
		Bind(dbx.Params{"id": id}).
		Execute()
	return err
}

func (s pbEvents) IncrementTicketsSold(ctx context.Context, id string, delta int) error {
	_, err := s.p.app.DB().
		NewQuery("UPDATE events SET tickets_sold = tickets_sold + {:delta} WHERE id = {:id}").
		Bind(dbx.Params{"id": id, "delta": delta}).
		Execute()
	return err
}

// ---- tickets ----

type pbTickets struct{ p *PB }

func ticketFromRecord(r *core.Record) *models.Ticket {
	return &models.Ticket{
		ID:          r.Id,
		UserID:      r.GetString("user"),
		EventID:     r.GetString("event"),
		QRCode:      r.GetString("qr_code"),
		Price:       decimal.NewFromFloat(r.GetFloat("price")),
		PurchasedAt: recordTime(r, "purchased_at"),
		TicketType:  r.GetString("ticket_type"),
		Status:      r.GetString("status"),
	}
}

func ticketToRecord(t *models.Ticket, r *core.Record) {
	r.Set("user", t.UserID)
	r.Set("event", t.EventID)
	r.Set("qr_code", t.QRCode)
	r.Set("price", t.Price.InexactFloat64())
	r.Set("purchased_at", t.PurchasedAt)
	r.Set("ticket_type", t.TicketType)
	r.Set("status", t.Status)
}

func (s pbTickets) GetByID(ctx context.Context, id string) (*models.Ticket, error) {
	r, err := s.p.findRecord(CollectionTickets, id)
	if err != nil {
		return nil, err
	}
	return ticketFromRecord(r), nil
}

func (s pbTickets) GetByQRCode(ctx context.Context, qrCode string) (*models.Ticket, error) {
	r, err := s.p.app.FindFirstRecordByData(CollectionTickets, "qr_code", qrCode)
	if err != nil {
		return nil, fmt.Errorf("ticket by qr code: %w", lookupErr(err))
	}
	return ticketFromRecord(r), nil
}

func (s pbTickets) List(ctx context.Context) ([]models.Ticket, error) {
	return s.list(nil)
}

func (s pbTickets) ListByEvent(ctx context.Context, eventID string) ([]models.Ticket, error) {
	return s.list(dbx.HashExp{"event": eventID})
}

func (s pbTickets) ListByUser(ctx context.Context, userID string) ([]models.Ticket, error) {
	return s.list(dbx.HashExp{"user": userID})
}

func (s pbTickets) list(exp dbx.HashExp) ([]models.Ticket, error) {
	var records []*core.Record
	var err error
	if exp == nil {
		records, err = s.p.app.FindAllRecords(CollectionTickets)
	} else {
		records, err = s.p.app.FindAllRecords(CollectionTickets, exp)
	}
	if err != nil {
		return nil, err
	}
	tickets := make([]models.Ticket, 0, len(records))
	for _, r := range records {
		tickets = append(tickets, *ticketFromRecord(r))
	}
	return tickets, nil
}

func (s pbTickets) CountByEvent(ctx context.Context, eventID string) (int64, error) {
	return s.p.countWhere(CollectionTickets, dbx.HashExp{"event": eventID})
}

func (s pbTickets) CountByUser(ctx context.Context, userID string) (int64, error) {
	return s.p.countWhere(CollectionTickets, dbx.HashExp{"user": userID})
}

func (s pbTickets) SumPriceByEvent(ctx context.Context, eventID string) (decimal.Decimal, error) {
	return s.p.sumColumn(CollectionTickets, "price", "event", eventID)
}

func (s pbTickets) SumPriceByUser(ctx context.Context, userID string) (decimal.Decimal, error) {
	return s.p.sumColumn(CollectionTickets, "price", "user", userID)
}

func (s pbTickets) Create(ctx context.Context, ticket *models.Ticket) error {
	r, err := s.p.newRecord(CollectionTickets)
	if err != nil {
		return err
	}
	ticketToRecord(ticket, r)
	if err := s.p.app.SaveWithContext(ctx, r); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("qr code taken: %w", status.ErrConflict)
		}
		return err
	}
	ticket.ID = r.Id
	return nil
}

func (s pbTickets) Update(ctx context.Context, ticket *models.Ticket) error {
	r, err := s.p.findRecord(CollectionTickets, ticket.ID)
	if err != nil {
		return err
	}
	ticketToRecord(ticket, r)
	return s.p.app.SaveWithContext(ctx, r)
}

func (s pbTickets) Delete(ctx context.Context, id string) error {
	return s.p.deleteRecord(ctx, CollectionTickets, id)
}

// ---- payments ----

type pbPayments struct{ p *PB }

func paymentFromRecord(r *core.Record) *models.Payment {
	return &models.Payment{
		ID:                   r.Id,
		UserID:               r.GetString("user"),
		EventID:              r.GetString("event"),
		Amount:               decimal.NewFromFloat(r.GetFloat("amount")),
		PaidAt:               recordTime(r, "paid_at"),
		Method:               r.GetString("method"),
		Status:               r.GetString("status"),
		TransactionReference: r.GetString("transaction_reference"),
	}
}

func paymentToRecord(pm *models.Payment, r *core.Record) {
	r.Set("user", pm.UserID)
	r.Set("event", pm.EventID)
	r.Set("amount", pm.Amount.InexactFloat64())
	r.Set("paid_at", pm.PaidAt)
	r.Set("method", pm.Method)
	r.Set("status", pm.Status)
	r.Set("transaction_reference", pm.TransactionReference)
}

func (s pbPayments) GetByID(ctx context.Context, id string) (*models.Payment, error) {
	r, err := s.p.findRecord(CollectionPayments, id)
	if err != nil {
		return nil, err
	}
	return paymentFromRecord(r), nil
}

func (s pbPayments) GetByTransactionReference(ctx context.Context, ref string) (*models.Payment, error) {
	r, err := s.p.app.FindFirstRecordByData(CollectionPayments, "transaction_reference", ref)
	if err != nil {
		return nil, fmt.Errorf("payment by reference: %w", lookupErr(err))
	}
	return paymentFromRecord(r), nil
}

func (s pbPayments) List(ctx context.Context) ([]models.Payment, error) {
	return s.list(nil)
}

func (s pbPayments) ListByEvent(ctx context.Context, eventID string) ([]models.Payment, error) {
	return s.list(dbx.HashExp{"event": eventID})
}

func (s pbPayments) ListByUser(ctx context.Context, userID string) ([]models.Payment, error) {
	return s.list(dbx.HashExp{"user": userID})
}

func (s pbPayments) list(exp dbx.HashExp) ([]models.Payment, error) {
	var records []*core.Record
	var err error
	if exp == nil {
		records, err = s.p.app.FindAllRecords(CollectionPayments)
	} else {
		records, err = s.p.app.FindAllRecords(CollectionPayments, exp)
	}
	if err != nil {
		return nil, err
	}
	payments := make([]models.Payment, 0, len(records))
	for _, r := range records {
		payments = append(payments, *paymentFromRecord(r))
	}
	return payments, nil
}

func (s pbPayments) Create(ctx context.Context, payment *models.Payment) error {
	r, err := s.p.newRecord(CollectionPayments)
	if err != nil {
		return err
	}
	paymentToRecord(payment, r)
	if err := s.p.app.SaveWithContext(ctx, r); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("transaction reference taken: %w", status.ErrConflict)
		}
		return err
	}
	payment.ID = r.Id
	return nil
}

func (s pbPayments) Update(ctx context.Context, payment *models.Payment) error {
	r, err := s.p.findRecord(CollectionPayments, payment.ID)
	if err != nil {
		return err
	}
	paymentToRecord(payment, r)
	return s.p.app.SaveWithContext(ctx, r)
}

func (s pbPayments) Delete(ctx context.Context, id string) error {
	return s.p.deleteRecord(ctx, CollectionPayments, id)
}

func (s pbPayments) DeleteByEvent(ctx context.Context, eventID string) error {
	return s.p.deleteWhere(CollectionPayments, "event", eventID)
}

// ---- attendance logs ----

type pbAttendance struct{ p *PB }

func logFromRecord(r *core.Record) *models.AttendanceLog {
	return &models.AttendanceLog{
		ID:           r.Id,
		TicketID:     r.GetString("ticket"),
		EventID:      r.GetString("event"),
		UserID:       r.GetString("user"),
		OccurredAt:   recordTime(r, "occurred_at"),
		Status:       r.GetString("status"),
		ReEntryCount: r.GetInt("re_entry_count"),
		Gate:         r.GetString("gate"),
	}
}

func logToRecord(l *models.AttendanceLog, r *core.Record) {
	r.Set("ticket", l.TicketID)
	r.Set("event", l.EventID)
	r.Set("user", l.UserID)
	r.Set("occurred_at", l.OccurredAt)
	r.Set("status", l.Status)
	r.Set("re_entry_count", l.ReEntryCount)
	r.Set("gate", l.Gate)
}

func (s pbAttendance) GetByID(ctx context.Context, id string) (*models.AttendanceLog, error) {
	r, err := s.p.findRecord(CollectionAttendance, id)
	if err != nil {
		return nil, err
	}
	return logFromRecord(r), nil
}

func (s pbAttendance) List(ctx context.Context) ([]models.AttendanceLog, error) {
	records, err := s.p.app.FindAllRecords(CollectionAttendance)
	if err != nil {
		return nil, err
	}
	return logsFromRecords(records), nil
}

func (s pbAttendance) ListByEvent(ctx context.Context, eventID string) ([]models.AttendanceLog, error) {
	records, err := s.p.app.FindAllRecords(CollectionAttendance, dbx.HashExp{"event": eventID})
	if err != nil {
		return nil, err
	}
	return logsFromRecords(records), nil
}

func (s pbAttendance) ListByUser(ctx context.Context, userID string) ([]models.AttendanceLog, error) {
	records, err := s.p.app.FindRecordsByFilter(
		CollectionAttendance,
		"user = {:user}",
		"-occurred_at,-id",
		0,
		0,
		dbx.Params{"user": userID},
	)
	if err != nil {
		return nil, err
	}
	return logsFromRecords(records), nil
}

func (s pbAttendance) RecentByEvent(ctx context.Context, eventID string, limit int) ([]models.AttendanceLog, error) {
	records, err := s.p.app.FindRecordsByFilter(
		CollectionAttendance,
		"event = {:event}",
		"-occurred_at,-id",
		limit,
		0,
		dbx.Params{"event": eventID},
	)
	if err != nil {
		return nil, err
	}
	return logsFromRecords(records), nil
}

func (s pbAttendance) LatestByTicket(ctx context.Context, ticketID string) (*models.AttendanceLog, error) {
	records, err := s.p.app.FindRecordsByFilter(
		CollectionAttendance,
		"ticket = {:ticket}",
		"-occurred_at,-id",
		1,
		0,
		dbx.Params{"ticket": ticketID},
	)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return logFromRecord(records[0]), nil
}

func (s pbAttendance) CountByEvent(ctx context.Context, eventID string) (int64, error) {
	return s.p.countWhere(CollectionAttendance, dbx.HashExp{"event": eventID})
}

func (s pbAttendance) ValidCountByEvent(ctx context.Context, eventID string) (int64, error) {
	var count int64
	err := s.p.app.DB().
		NewQuery("SELECT COUNT(*) FROM attendance_log WHERE event = {:event} AND LOWER(status) LIKE '%valid%'").
		Bind(dbx.Params{"event": eventID}).
		Row(&count)
	return count, err
}

func (s pbAttendance) Create(ctx context.Context, log *models.AttendanceLog) error {
	r, err := s.p.newRecord(CollectionAttendance)
	if err != nil {
		return err
	}
	logToRecord(log, r)
	if err := s.p.app.SaveWithContext(ctx, r); err != nil {
		return err
	}
	log.ID = r.Id
	return nil
}

func (s pbAttendance) Delete(ctx context.Context, id string) error {
	return s.p.deleteRecord(ctx, CollectionAttendance, id)
}

func (s pbAttendance) DeleteByEvent(ctx context.Context, eventID string) error {
	return s.p.deleteWhere(CollectionAttendance, "event", eventID)
}

func logsFromRecords(records []*core.Record) []models.AttendanceLog {
	logs := make([]models.AttendanceLog, 0, len(records))
	for _, r := range records {
		logs = append(logs, *logFromRecord(r))
	}
	return logs
}

// ---- event views ----

type pbViews struct{ p *PB }

func (s pbViews) Exists(ctx context.Context, eventID, userID string) (bool, error) {
	count, err := s.p.countWhere(CollectionEventViews, dbx.HashExp{"event": eventID, "user": userID})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s pbViews) Create(ctx context.Context, view models.EventView) error {
	r, err := s.p.newRecord(CollectionEventViews)
	if err != nil {
		return err
	}
	r.Set("event", view.EventID)
	r.Set("user", view.UserID)
	if err := s.p.app.SaveWithContext(ctx, r); err != nil {
		if isUniqueViolation(err) {
			return status.ErrAlreadyCounted
		}
		return err
	}
	return nil
}

func (s pbViews) DeleteByEvent(ctx context.Context, eventID string) error {
	return s.p.deleteWhere(CollectionEventViews, "event", eventID)
}

// ---- users ----

type pbUsers struct{ p *PB }

func userFromRecord(r *core.Record) *models.User {
	return &models.User{
		ID:      r.Id,
		Name:    r.GetString("name"),
		Email:   r.GetString("email"),
		Secret:  r.GetString("secret"),
		Role:    r.GetString("role"),
		Contact: r.GetString("contact"),
	}
}

func userToRecord(u *models.User, r *core.Record) {
	r.Set("name", u.Name)
	r.Set("email", u.Email)
	r.Set("secret", u.Secret)
	r.Set("role", u.Role)
	r.Set("contact", u.Contact)
}

func (s pbUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	r, err := s.p.findRecord(CollectionUsers, id)
	if err != nil {
		return nil, err
	}
	return userFromRecord(r), nil
}

func (s pbUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r, err := s.p.app.FindFirstRecordByData(CollectionUsers, "email", email)
	if err != nil {
		return nil, fmt.Errorf("user by email: %w", lookupErr(err))
	}
	return userFromRecord(r), nil
}

func (s pbUsers) EmailExists(ctx context.Context, email string) (bool, error) {
	count, err := s.p.countWhere(CollectionUsers, dbx.HashExp{"email": email})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s pbUsers) List(ctx context.Context) ([]models.User, error) {
	records, err := s.p.app.FindAllRecords(CollectionUsers)
	if err != nil {
		return nil, err
	}
	users := make([]models.User, 0, len(records))
	for _, r := range records {
		users = append(users, *userFromRecord(r))
	}
	return users, nil
}

func (s pbUsers) Create(ctx context.Context, user *models.User) error {
	r, err := s.p.newRecord(CollectionUsers)
	if err != nil {
		return err
	}
	userToRecord(user, r)
	if err := s.p.app.SaveWithContext(ctx, r); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("email taken: %w", status.ErrConflict)
		}
		return err
	}
	user.ID = r.Id
	return nil
}

func (s pbUsers) Update(ctx context.Context, user *models.User) error {
	r, err := s.p.findRecord(CollectionUsers, user.ID)
	if err != nil {
		return err
	}
	userToRecord(user, r)
	return s.p.app.SaveWithContext(ctx, r)
}

func (s pbUsers) Delete(ctx context.Context, id string) error {
	return s.p.deleteRecord(ctx, CollectionUsers, id)
}

// ---- roles ----

type pbRoles struct{ p *PB }

func (s pbRoles) GetByID(ctx context.Context, id string) (*models.Role, error) {
	r, err := s.p.findRecord(CollectionRoles, id)
	if err != nil {
		return nil, err
	}
	return &models.Role{ID: r.Id, RoleName: r.GetString("role_name")}, nil
}

func (s pbRoles) List(ctx context.Context) ([]models.Role, error) {
	records, err := s.p.app.FindAllRecords(CollectionRoles)
	if err != nil {
		return nil, err
	}
	roles := make([]models.Role, 0, len(records))
	for _, r := range records {
		roles = append(roles, models.Role{ID: r.Id, RoleName: r.GetString("role_name")})
	}
	return roles, nil
}

func (s pbRoles) Create(ctx context.Context, role *models.Role) error {
	r, err := s.p.newRecord(CollectionRoles)
	if err != nil {
		return err
	}
	r.Set("role_name", role.RoleName)
	if err := s.p.app.SaveWithContext(ctx, r); err != nil {
		return err
	}
	role.ID = r.Id
	return nil
}

func (s pbRoles) Update(ctx context.Context, role *models.Role) error {
	r, err := s.p.findRecord(CollectionRoles, role.ID)
	if err != nil {
		return err
	}
	r.Set("role_name", role.RoleName)
	return s.p.app.SaveWithContext(ctx, r)
}

func (s pbRoles) Delete(ctx context.Context, id string) error {
	return s.p.deleteRecord(ctx, CollectionRoles, id)
}

// ---- notifications ----

type pbNotifications struct{ p *PB }

func (s pbNotifications) ListByUser(ctx context.Context, userID string) ([]models.Notification, error) {
	records, err := s.p.app.FindRecordsByFilter(
		CollectionNotifications,
		"user = {:user}",
		"-created",
		0,
		0,
		dbx.Params{"user": userID},
	)
	if err != nil {
		return nil, err
	}
	out := make([]models.Notification, 0, len(records))
	for _, r := range records {
		out = append(out, models.Notification{
			ID:        r.Id,
			UserID:    r.GetString("user"),
			Severity:  r.GetString("severity"),
			Title:     r.GetString("title"),
			Body:      r.GetString("body"),
			EventID:   r.GetString("event"),
			CreatedAt: recordTime(r, "created"),
		})
	}
	return out, nil
}

func (s pbNotifications) Create(ctx context.Context, n *models.Notification) error {
	r, err := s.p.newRecord(CollectionNotifications)
	if err != nil {
		return err
	}
	r.Set("user", n.UserID)
	r.Set("severity", n.Severity)
	r.Set("title", n.Title)
	r.Set("body", n.Body)
	r.Set("event", n.EventID)
	if err := s.p.app.SaveWithContext(ctx, r); err != nil {
		return err
	}
	n.ID = r.Id
	return nil
}
