package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketing-system/internal/clock"
	"ticketing-system/internal/status"
	"ticketing-system/internal/store"
	"ticketing-system/models"
)

func seedBookingFixture(t *testing.T) (*store.Memory, models.User, models.Event) {
	t.Helper()
	ctx := context.Background()
	mem := store.NewMemory()

	user := models.User{Name: "Bob", Email: "bob@example.com", Role: models.RoleAttendee}
	require.NoError(t, mem.Users().Create(ctx, &user))

	event := models.Event{
		Name:        "Jazz Night",
		StartAt:     time.Date(2025, 7, 1, 20, 0, 0, 0, time.UTC),
		EndAt:       time.Date(2025, 7, 1, 23, 0, 0, 0, time.UTC),
		TicketPrice: decimal.NewFromFloat(75.50),
		Capacity:    100,
		Status:      models.EventAvailable,
	}
	require.NoError(t, mem.Events().Create(ctx, &event))
	return mem, user, event
}

func TestTicketService_BookTickets(t *testing.T) {
	mem, user, event := seedBookingFixture(t)
	spy := &notifierSpy{}
	service := NewTicketService(mem, clock.NewFixed(testNow), spy)
	ctx := context.Background()

	result, err := service.BookTickets(ctx, BookingInput{
		UserID:   user.ID,
		EventID:  event.ID,
		Quantity: 3,
	})
	require.NoError(t, err)
	require.Len(t, result.Tickets, 3)

	seen := map[string]bool{}
	for _, ticket := range result.Tickets {
		assert.Equal(t, models.TicketActive, ticket.Status)
		assert.Equal(t, "REGULAR", ticket.TicketType)
		assert.True(t, event.TicketPrice.Equal(ticket.Price), "price frozen from event")
		assert.Equal(t, testNow, ticket.PurchasedAt)
		assert.False(t, seen[ticket.QRCode], "qr codes must be unique")
		seen[ticket.QRCode] = true
	}

	assert.True(t, decimal.NewFromFloat(226.50).Equal(result.Payment.Amount))
	assert.Equal(t, "COMPLETED", result.Payment.Status)
	assert.NotEmpty(t, result.Payment.TransactionReference)

	updated, err := mem.Events().GetByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.TicketsSold)

	sent := spy.all()
	require.Len(t, sent, 1)
	assert.Equal(t, "Booking Confirmed", sent[0].Title)
}

func TestTicketService_BookTickets_QuantityClampedToOne(t *testing.T) {
	mem, user, event := seedBookingFixture(t)
	service := NewTicketService(mem, clock.NewFixed(testNow), nil)

	result, err := service.BookTickets(context.Background(), BookingInput{
		UserID:   user.ID,
		EventID:  event.ID,
		Quantity: 0,
	})
	require.NoError(t, err)
	assert.Len(t, result.Tickets, 1)
}

func TestTicketService_BookTickets_CancelledEventRefused(t *testing.T) {
	mem, user, event := seedBookingFixture(t)
	service := NewTicketService(mem, clock.NewFixed(testNow), nil)
	ctx := context.Background()

	event.Status = models.EventCancelled
	require.NoError(t, mem.Events().Update(ctx, &event))

	_, err := service.BookTickets(ctx, BookingInput{UserID: user.ID, EventID: event.ID, Quantity: 1})
	assert.ErrorIs(t, err, status.ErrConflict)

	count, err := mem.Tickets().CountByEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestTicketService_BookTickets_SoldOut(t *testing.T) {
	mem, user, event := seedBookingFixture(t)
	service := NewTicketService(mem, clock.NewFixed(testNow), nil)
	ctx := context.Background()

	event.Capacity = 2
	require.NoError(t, mem.Events().Update(ctx, &event))

	_, err := service.BookTickets(ctx, BookingInput{UserID: user.ID, EventID: event.ID, Quantity: 3})
	assert.ErrorIs(t, err, status.ErrConflict)
}

func TestTicketService_BookTickets_UnknownUser(t *testing.T) {
	mem, _, event := seedBookingFixture(t)
	service := NewTicketService(mem, clock.NewFixed(testNow), nil)

	_, err := service.BookTickets(context.Background(), BookingInput{
		UserID: "missing", EventID: event.ID, Quantity: 1,
	})
	assert.ErrorIs(t, err, status.ErrNotFound)
}

func TestTicketService_RefundTicket(t *testing.T) {
	mem, user, event := seedBookingFixture(t)
	service := NewTicketService(mem, clock.NewFixed(testNow), nil)
	ctx := context.Background()

	booked, err := service.BookTickets(ctx, BookingInput{UserID: user.ID, EventID: event.ID, Quantity: 1})
	require.NoError(t, err)
	ticketID := booked.Tickets[0].ID

	refunded, err := service.RefundTicket(ctx, ticketID)
	require.NoError(t, err)
	assert.Equal(t, models.TicketRefunded, refunded.Status)

	// A second refund of the same ticket refuses.
	_, err = service.RefundTicket(ctx, ticketID)
	assert.ErrorIs(t, err, status.ErrConflict)
}

func TestTicketService_UpdateTicket_FrozenFieldsSurvive(t *testing.T) {
	mem, user, event := seedBookingFixture(t)
	service := NewTicketService(mem, clock.NewFixed(testNow), nil)
	ctx := context.Background()

	result, err := service.BookTickets(ctx, BookingInput{UserID: user.ID, EventID: event.ID, Quantity: 1})
	require.NoError(t, err)
	booked := result.Tickets[0]

	update := &models.Ticket{ID: booked.ID, TicketType: "VIP", Status: "used"}
	require.NoError(t, service.UpdateTicket(ctx, update))

	stored, err := mem.Tickets().GetByID(ctx, booked.ID)
	require.NoError(t, err)
	assert.Equal(t, "VIP", stored.TicketType)
	assert.Equal(t, models.TicketUsed, stored.Status)

	assert.Equal(t, booked.QRCode, stored.QRCode)
	assert.Equal(t, booked.UserID, stored.UserID)
	assert.Equal(t, booked.EventID, stored.EventID)
	assert.True(t, booked.Price.Equal(stored.Price), "price frozen at purchase")
	assert.Equal(t, booked.PurchasedAt, stored.PurchasedAt)
}

func TestTicketService_DeleteTicket(t *testing.T) {
	mem, user, event := seedBookingFixture(t)
	service := NewTicketService(mem, clock.NewFixed(testNow), nil)
	ctx := context.Background()

	result, err := service.BookTickets(ctx, BookingInput{UserID: user.ID, EventID: event.ID, Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, service.DeleteTicket(ctx, result.Tickets[0].ID))

	_, err = mem.Tickets().GetByID(ctx, result.Tickets[0].ID)
	assert.ErrorIs(t, err, status.ErrNotFound)

	err = service.DeleteTicket(ctx, "missing")
	assert.ErrorIs(t, err, status.ErrNotFound)
}
