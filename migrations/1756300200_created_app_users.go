package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

// app_users holds the application's own account records. The framework's
// built-in "users" auth collection stays untouched.
func init() {
	m.Register(func(app core.App) error {
		collection := core.NewBaseCollection("app_users")

		collection.Fields.Add(
			&core.TextField{Name: "name", Required: true},
			&core.EmailField{Name: "email", Required: true},
			&core.TextField{Name: "secret", Required: true},
			&core.TextField{Name: "role"},
			&core.TextField{Name: "contact"},
		)

		collection.AddIndex("idx_app_users_email", true, "email", "")

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("app_users")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
