package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

func init() {
	m.Register(func(app core.App) error {
		users, err := app.FindCollectionByNameOrId("app_users")
		if err != nil {
			return err
		}
		events, err := app.FindCollectionByNameOrId("events")
		if err != nil {
			return err
		}
		tickets, err := app.FindCollectionByNameOrId("tickets")
		if err != nil {
			return err
		}

		collection := core.NewBaseCollection("attendance_log")

		collection.Fields.Add(
			&core.RelationField{Name: "ticket", Required: true, CollectionId: tickets.Id, MaxSelect: 1},
			&core.RelationField{Name: "event", Required: true, CollectionId: events.Id, MaxSelect: 1},
			&core.RelationField{Name: "user", Required: true, CollectionId: users.Id, MaxSelect: 1},
			&core.DateField{Name: "occurred_at", Required: true},
			&core.SelectField{
				Name:      "status",
				MaxSelect: 1,
				Values:    []string{"valid", "invalid", "duplicate", "out_of_window"},
			},
			&core.NumberField{Name: "re_entry_count", OnlyInt: true},
			&core.TextField{Name: "gate"},
		)

		collection.AddIndex("idx_attendance_log_event_occurred_at", false, "event, occurred_at", "")
		collection.AddIndex("idx_attendance_log_ticket_occurred_at", false, "ticket, occurred_at", "")

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("attendance_log")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
