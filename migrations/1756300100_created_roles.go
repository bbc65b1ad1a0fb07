package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

func init() {
	m.Register(func(app core.App) error {
		collection := core.NewBaseCollection("roles")

		collection.Fields.Add(
			&core.TextField{Name: "role_name", Required: true},
		)

		collection.AddIndex("idx_roles_role_name", true, "role_name", "")

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("roles")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
