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

		collection := core.NewBaseCollection("payments")

		collection.Fields.Add(
			&core.RelationField{Name: "user", Required: true, CollectionId: users.Id, MaxSelect: 1},
			&core.RelationField{Name: "event", Required: true, CollectionId: events.Id, MaxSelect: 1},
			&core.NumberField{Name: "amount"},
			&core.DateField{Name: "paid_at"},
			&core.TextField{Name: "method"},
			&core.TextField{Name: "status"},
			&core.TextField{Name: "transaction_reference", Required: true},
		)

		collection.AddIndex("idx_payments_transaction_reference", true, "transaction_reference", "")
		collection.AddIndex("idx_payments_event", false, "event", "")
		collection.AddIndex("idx_payments_user", false, "user", "")

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("payments")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
