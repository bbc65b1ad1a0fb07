package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"ticketing-system/internal/status"
	"ticketing-system/models"
)

// Memory is a mutex-guarded in-memory Store. It backs the service tests and
// enforces the same uniqueness constraints as the real schema (ticket qr
// codes, payment references, user emails, (event, user) view pairs).
type Memory struct {
	mu   sync.Mutex
	txMu sync.Mutex // serializes WithTx blocks

	seq           int64
	events        map[string]models.Event
	tickets       map[string]models.Ticket
	payments      map[string]models.Payment
	logs          map[string]models.AttendanceLog
	views         map[string]models.EventView // keyed eventID+"/"+userID
	users         map[string]models.User
	roles         map[string]models.Role
	notifications map[string]models.Notification
}

func NewMemory() *Memory {
	return &Memory{
		events:        map[string]models.Event{},
		tickets:       map[string]models.Ticket{},
		payments:      map[string]models.Payment{},
		logs:          map[string]models.AttendanceLog{},
		views:         map[string]models.EventView{},
		users:         map[string]models.User{},
		roles:         map[string]models.Role{},
		notifications: map[string]models.Notification{},
	}
}

func (m *Memory) Events() EventStore               { return memEvents{m} }
func (m *Memory) Tickets() TicketStore             { return memTickets{m} }
func (m *Memory) Payments() PaymentStore           { return memPayments{m} }
func (m *Memory) Attendance() AttendanceStore      { return memAttendance{m} }
func (m *Memory) Views() ViewStore                 { return memViews{m} }
func (m *Memory) Users() UserStore                 { return memUsers{m} }
func (m *Memory) Roles() RoleStore                 { return memRoles{m} }
func (m *Memory) Notifications() NotificationStore { return memNotifications{m} }

// WithTx serializes transactions against each other; no rollback is
// simulated, so tests arrange their writes to be all-or-nothing.
func (m *Memory) WithTx(ctx context.Context, fn func(tx Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.txMu.Lock()
	defer m.txMu.Unlock()
	return fn(m)
}

// nextID returns zero-padded monotonically increasing ids so lexicographic
// order matches insertion order, like an autoincrement key.
func (m *Memory) nextID() string {
	m.seq++
	return fmt.Sprintf("%010d", m.seq)
}

func viewKey(eventID, userID string) string {
	return eventID + "/" + userID
}

// ---- events ----

type memEvents struct{ m *Memory }

func (s memEvents) GetByID(ctx context.Context, id string) (*models.Event, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	e, ok := s.m.events[id]
	if !ok {
		return nil, fmt.Errorf("event %s: %w", id, status.ErrNotFound)
	}
	return &e, nil
}

func (s memEvents) List(ctx context.Context) ([]models.Event, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	out := make([]models.Event, 0, len(s.m.events))
	for _, e := range s.m.events {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s memEvents) Create(ctx context.Context, event *models.Event) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if event.ID == "" {
		event.ID = s.m.nextID()
	}
	s.m.events[event.ID] = *event
	return nil
}

func (s memEvents) Update(ctx context.Context, event *models.Event) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.events[event.ID]; !ok {
		return fmt.Errorf("event %s: %w", event.ID, status.ErrNotFound)
	}
	s.m.events[event.ID] = *event
	return nil
}

func (s memEvents) Delete(ctx context.Context, id string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.events[id]; !ok {
		return fmt.Errorf("event %s: %w", id, status.ErrNotFound)
	}
	delete(s.m.events, id)
	return nil
}

func (s memEvents) IncrementViews(ctx context.Context, id string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	e, ok := s.m.events[id]
	if !ok {
		return fmt.Errorf("event %s: %w", id, status.ErrNotFound)
	}
	e.ViewCount++
	s.m.events[id] = e
	return nil
}

func (s memEvents) IncrementTicketsSold(ctx context.Context, id string, delta int) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	e, ok := s.m.events[id]
	if !ok {
		return fmt.Errorf("event %s: %w", id, status.ErrNotFound)
	}
	e.TicketsSold += delta
	s.m.events[id] = e
	return nil
}

// ---- tickets ----

type memTickets struct{ m *Memory }

func (s memTickets) GetByID(ctx context.Context, id string) (*models.Ticket, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	t, ok := s.m.tickets[id]
	if !ok {
		return nil, fmt.Errorf("ticket %s: %w", id, status.ErrNotFound)
	}
	return &t, nil
}

func (s memTickets) GetByQRCode(ctx context.Context, qrCode string) (*models.Ticket, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, t := range s.m.tickets {
		if t.QRCode == qrCode {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("ticket by qr code: %w", status.ErrNotFound)
}

func (s memTickets) List(ctx context.Context) ([]models.Ticket, error) {
	return s.filter(func(models.Ticket) bool { return true }), nil
}

func (s memTickets) ListByEvent(ctx context.Context, eventID string) ([]models.Ticket, error) {
	return s.filter(func(t models.Ticket) bool { return t.EventID == eventID }), nil
}

func (s memTickets) ListByUser(ctx context.Context, userID string) ([]models.Ticket, error) {
	return s.filter(func(t models.Ticket) bool { return t.UserID == userID }), nil
}

func (s memTickets) filter(keep func(models.Ticket) bool) []models.Ticket {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var out []models.Ticket
	for _, t := range s.m.tickets {
		if keep(t) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s memTickets) CountByEvent(ctx context.Context, eventID string) (int64, error) {
	return int64(len(s.filter(func(t models.Ticket) bool { return t.EventID == eventID }))), nil
}

func (s memTickets) CountByUser(ctx context.Context, userID string) (int64, error) {
	return int64(len(s.filter(func(t models.Ticket) bool { return t.UserID == userID }))), nil
}

func (s memTickets) SumPriceByEvent(ctx context.Context, eventID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, t := range s.filter(func(t models.Ticket) bool { return t.EventID == eventID }) {
		sum = sum.Add(t.Price)
	}
	return sum, nil
}

func (s memTickets) SumPriceByUser(ctx context.Context, userID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, t := range s.filter(func(t models.Ticket) bool { return t.UserID == userID }) {
		sum = sum.Add(t.Price)
	}
	return sum, nil
}

func (s memTickets) Create(ctx context.Context, ticket *models.Ticket) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, t := range s.m.tickets {
		if t.QRCode == ticket.QRCode {
			return fmt.Errorf("qr code taken: %w", status.ErrConflict)
		}
	}
	if ticket.ID == "" {
		ticket.ID = s.m.nextID()
	}
	s.m.tickets[ticket.ID] = *ticket
	return nil
}

func (s memTickets) Update(ctx context.Context, ticket *models.Ticket) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.tickets[ticket.ID]; !ok {
		return fmt.Errorf("ticket %s: %w", ticket.ID, status.ErrNotFound)
	}
	s.m.tickets[ticket.ID] = *ticket
	return nil
}

func (s memTickets) Delete(ctx context.Context, id string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.tickets[id]; !ok {
		return fmt.Errorf("ticket %s: %w", id, status.ErrNotFound)
	}
	delete(s.m.tickets, id)
	return nil
}

// ---- payments ----

type memPayments struct{ m *Memory }

func (s memPayments) GetByID(ctx context.Context, id string) (*models.Payment, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	p, ok := s.m.payments[id]
	if !ok {
		return nil, fmt.Errorf("payment %s: %w", id, status.ErrNotFound)
	}
	return &p, nil
}

func (s memPayments) GetByTransactionReference(ctx context.Context, ref string) (*models.Payment, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, p := range s.m.payments {
		if p.TransactionReference == ref {
			return &p, nil
		}
	}
	return nil, fmt.Errorf("payment by reference: %w", status.ErrNotFound)
}

func (s memPayments) List(ctx context.Context) ([]models.Payment, error) {
	return s.filter(func(models.Payment) bool { return true }), nil
}

func (s memPayments) ListByEvent(ctx context.Context, eventID string) ([]models.Payment, error) {
	return s.filter(func(p models.Payment) bool { return p.EventID == eventID }), nil
}

func (s memPayments) ListByUser(ctx context.Context, userID string) ([]models.Payment, error) {
	return s.filter(func(p models.Payment) bool { return p.UserID == userID }), nil
}

func (s memPayments) filter(keep func(models.Payment) bool) []models.Payment {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var out []models.Payment
	for _, p := range s.m.payments {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s memPayments) Create(ctx context.Context, payment *models.Payment) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, p := range s.m.payments {
		if p.TransactionReference == payment.TransactionReference {
			return fmt.Errorf("transaction reference taken: %w", status.ErrConflict)
		}
	}
	if payment.ID == "" {
		payment.ID = s.m.nextID()
	}
	s.m.payments[payment.ID] = *payment
	return nil
}

func (s memPayments) Update(ctx context.Context, payment *models.Payment) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.payments[payment.ID]; !ok {
		return fmt.Errorf("payment %s: %w", payment.ID, status.ErrNotFound)
	}
	s.m.payments[payment.ID] = *payment
	return nil
}

func (s memPayments) Delete(ctx context.Context, id string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.payments[id]; !ok {
		return fmt.Errorf("payment %s: %w", id, status.ErrNotFound)
	}
	delete(s.m.payments, id)
	return nil
}

func (s memPayments) DeleteByEvent(ctx context.Context, eventID string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for id, p := range s.m.payments {
		if p.EventID == eventID {
			delete(s.m.payments, id)
		}
	}
	return nil
}

// ---- attendance logs ----

type memAttendance struct{ m *Memory }

func (s memAttendance) GetByID(ctx context.Context, id string) (*models.AttendanceLog, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	l, ok := s.m.logs[id]
	if !ok {
		return nil, fmt.Errorf("attendance log %s: %w", id, status.ErrNotFound)
	}
	return &l, nil
}

func (s memAttendance) List(ctx context.Context) ([]models.AttendanceLog, error) {
	return s.filter(func(models.AttendanceLog) bool { return true }), nil
}

func (s memAttendance) ListByEvent(ctx context.Context, eventID string) ([]models.AttendanceLog, error) {
	return s.filter(func(l models.AttendanceLog) bool { return l.EventID == eventID }), nil
}

func (s memAttendance) ListByUser(ctx context.Context, userID string) ([]models.AttendanceLog, error) {
	logs := s.filter(func(l models.AttendanceLog) bool { return l.UserID == userID })
	sortNewestFirst(logs)
	return logs, nil
}

func (s memAttendance) RecentByEvent(ctx context.Context, eventID string, limit int) ([]models.AttendanceLog, error) {
	logs := s.filter(func(l models.AttendanceLog) bool { return l.EventID == eventID })
	sortNewestFirst(logs)
	if limit > 0 && len(logs) > limit {
		logs = logs[:limit]
	}
	return logs, nil
}

func (s memAttendance) LatestByTicket(ctx context.Context, ticketID string) (*models.AttendanceLog, error) {
	logs := s.filter(func(l models.AttendanceLog) bool { return l.TicketID == ticketID })
	if len(logs) == 0 {
		return nil, nil
	}
	sortNewestFirst(logs)
	return &logs[0], nil
}

func (s memAttendance) CountByEvent(ctx context.Context, eventID string) (int64, error) {
	return int64(len(s.filter(func(l models.AttendanceLog) bool { return l.EventID == eventID }))), nil
}

func (s memAttendance) ValidCountByEvent(ctx context.Context, eventID string) (int64, error) {
	var count int64
	for _, l := range s.filter(func(l models.AttendanceLog) bool { return l.EventID == eventID }) {
		if strings.Contains(strings.ToLower(l.Status), "valid") {
			count++
		}
	}
	return count, nil
}

func (s memAttendance) Create(ctx context.Context, log *models.AttendanceLog) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if log.ID == "" {
		log.ID = s.m.nextID()
	}
	s.m.logs[log.ID] = *log
	return nil
}

func (s memAttendance) Delete(ctx context.Context, id string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.logs[id]; !ok {
		return fmt.Errorf("attendance log %s: %w", id, status.ErrNotFound)
	}
	delete(s.m.logs, id)
	return nil
}

func (s memAttendance) DeleteByEvent(ctx context.Context, eventID string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for id, l := range s.m.logs {
		if l.EventID == eventID {
			delete(s.m.logs, id)
		}
	}
	return nil
}

func (s memAttendance) filter(keep func(models.AttendanceLog) bool) []models.AttendanceLog {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var out []models.AttendanceLog
	for _, l := range s.m.logs {
		if keep(l) {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Newest first; ties on occurred_at break on id, higher id first.
func sortNewestFirst(logs []models.AttendanceLog) {
	sort.Slice(logs, func(i, j int) bool {
		if !logs[i].OccurredAt.Equal(logs[j].OccurredAt) {
			return logs[i].OccurredAt.After(logs[j].OccurredAt)
		}
		return logs[i].ID > logs[j].ID
	})
}

// ---- event views ----

type memViews struct{ m *Memory }

func (s memViews) Exists(ctx context.Context, eventID, userID string) (bool, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	_, ok := s.m.views[viewKey(eventID, userID)]
	return ok, nil
}

func (s memViews) Create(ctx context.Context, view models.EventView) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	key := viewKey(view.EventID, view.UserID)
	if _, ok := s.m.views[key]; ok {
		return status.ErrAlreadyCounted
	}
	s.m.views[key] = view
	return nil
}

func (s memViews) DeleteByEvent(ctx context.Context, eventID string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for key, v := range s.m.views {
		if v.EventID == eventID {
			delete(s.m.views, key)
		}
	}
	return nil
}

// ---- users ----

type memUsers struct{ m *Memory }

func (s memUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	u, ok := s.m.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, status.ErrNotFound)
	}
	return &u, nil
}

func (s memUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, u := range s.m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user by email: %w", status.ErrNotFound)
}

func (s memUsers) EmailExists(ctx context.Context, email string) (bool, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, u := range s.m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s memUsers) List(ctx context.Context) ([]models.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	out := make([]models.User, 0, len(s.m.users))
	for _, u := range s.m.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s memUsers) Create(ctx context.Context, user *models.User) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, u := range s.m.users {
		if u.Email == user.Email {
			return fmt.Errorf("email taken: %w", status.ErrConflict)
		}
	}
	if user.ID == "" {
		user.ID = s.m.nextID()
	}
	s.m.users[user.ID] = *user
	return nil
}

func (s memUsers) Update(ctx context.Context, user *models.User) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.users[user.ID]; !ok {
		return fmt.Errorf("user %s: %w", user.ID, status.ErrNotFound)
	}
	s.m.users[user.ID] = *user
	return nil
}

func (s memUsers) Delete(ctx context.Context, id string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.users[id]; !ok {
		return fmt.Errorf("user %s: %w", id, status.ErrNotFound)
	}
	delete(s.m.users, id)
	return nil
}

// ---- roles ----

type memRoles struct{ m *Memory }

func (s memRoles) GetByID(ctx context.Context, id string) (*models.Role, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	r, ok := s.m.roles[id]
	if !ok {
		return nil, fmt.Errorf("role %s: %w", id, status.ErrNotFound)
	}
	return &r, nil
}

func (s memRoles) List(ctx context.Context) ([]models.Role, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	out := make([]models.Role, 0, len(s.m.roles))
	for _, r := range s.m.roles {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s memRoles) Create(ctx context.Context, role *models.Role) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if role.ID == "" {
		role.ID = s.m.nextID()
	}
	s.m.roles[role.ID] = *role
	return nil
}

func (s memRoles) Update(ctx context.Context, role *models.Role) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.roles[role.ID]; !ok {
		return fmt.Errorf("role %s: %w", role.ID, status.ErrNotFound)
	}
	s.m.roles[role.ID] = *role
	return nil
}

func (s memRoles) Delete(ctx context.Context, id string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.roles[id]; !ok {
		return fmt.Errorf("role %s: %w", id, status.ErrNotFound)
	}
	delete(s.m.roles, id)
	return nil
}

// ---- notifications ----

type memNotifications struct{ m *Memory }

func (s memNotifications) ListByUser(ctx context.Context, userID string) ([]models.Notification, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var out []models.Notification
	for _, n := range s.m.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s memNotifications) Create(ctx context.Context, n *models.Notification) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if n.ID == "" {
		n.ID = s.m.nextID()
	}
	s.m.notifications[n.ID] = *n
	return nil
}
