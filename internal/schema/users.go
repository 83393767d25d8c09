package schema

// UsersTable is the default table under test
const UsersTable = "users"

// Catalog type names as reported by PostgreSQL's information_schema.columns.data_type
const (
	typeInteger   = "integer"
	typeVarchar   = "character varying"
	typeDate      = "date"
	typeBoolean   = "boolean"
	typeTimestamp = "timestamp without time zone"
)

// Users returns the expected contract of the users table
func Users() *Definition {
	return MustDefinition(UsersTable,
		FieldSpec{Name: "id", Type: typeInteger},
		FieldSpec{Name: "email", Type: typeVarchar},
		FieldSpec{Name: "username", Type: typeVarchar},
		FieldSpec{Name: "birthdate", Type: typeDate},
		FieldSpec{Name: "city", Type: typeVarchar},
		FieldSpec{Name: "first_name", Type: typeVarchar},
		FieldSpec{Name: "last_name", Type: typeVarchar},
		FieldSpec{Name: "password", Type: typeVarchar},
		FieldSpec{Name: "enabled", Type: typeBoolean},
		FieldSpec{Name: "last_access_time", Type: typeTimestamp},
		FieldSpec{Name: "created_at", Type: typeTimestamp},
		FieldSpec{Name: "updated_at", Type: typeTimestamp},
	)
}
