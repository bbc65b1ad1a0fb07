package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

func init() {
	m.Register(func(app core.App) error {
		collection := core.NewBaseCollection("events")

		collection.Fields.Add(
			&core.TextField{Name: "name", Required: true},
			&core.TextField{Name: "location"},
			&core.TextField{Name: "category"},
			&core.DateField{Name: "start_at"},
			&core.DateField{Name: "end_at"},
			&core.NumberField{Name: "ticket_price"},
			&core.NumberField{Name: "capacity", OnlyInt: true},
			&core.TextField{Name: "organizer"},
			&core.TextField{Name: "description"},
			&core.NumberField{Name: "view_count", OnlyInt: true},
			&core.NumberField{Name: "tickets_sold", OnlyInt: true},
			&core.SelectField{
				Name:      "status",
				MaxSelect: 1,
				Values:    []string{"AVAILABLE", "ENDED", "CANCELLED", "ARCHIVED"},
			},
			&core.TextField{Name: "cancellation_reason"},
			&core.DateField{Name: "cancelled_at"},
		)

		collection.AddIndex("idx_events_status", false, "status", "")

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("events")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
