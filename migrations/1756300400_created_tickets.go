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

		collection := core.NewBaseCollection("tickets")

		collection.Fields.Add(
			&core.RelationField{Name: "user", Required: true, CollectionId: users.Id, MaxSelect: 1},
			&core.RelationField{Name: "event", Required: true, CollectionId: events.Id, MaxSelect: 1},
			&core.TextField{Name: "qr_code", Required: true},
			&core.NumberField{Name: "price"},
			&core.DateField{Name: "purchased_at"},
			&core.TextField{Name: "ticket_type"},
			&core.SelectField{
				Name:      "status",
				MaxSelect: 1,
				Values:    []string{"ACTIVE", "USED", "REFUNDED", "CANCELLED"},
			},
		)

		collection.AddIndex("idx_tickets_qr_code", true, "qr_code", "")
		collection.AddIndex("idx_tickets_event", false, "event", "")
		collection.AddIndex("idx_tickets_user", false, "user", "")

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("tickets")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
