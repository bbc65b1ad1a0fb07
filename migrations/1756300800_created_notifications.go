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

		collection := core.NewBaseCollection("notifications")

		collection.Fields.Add(
			&core.RelationField{Name: "user", Required: true, CollectionId: users.Id, MaxSelect: 1},
			&core.SelectField{
				Name:      "severity",
				MaxSelect: 1,
				Values:    []string{"success", "info", "warning", "error"},
			},
			&core.TextField{Name: "title", Required: true},
			&core.TextField{Name: "body"},
			&core.RelationField{Name: "event", CollectionId: events.Id, MaxSelect: 1},
			&core.AutodateField{Name: "created", OnCreate: true},
		)

		collection.AddIndex("idx_notifications_user", false, "user", "")

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("notifications")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
