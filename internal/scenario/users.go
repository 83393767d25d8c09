package scenario

import (
	"strings"
)

// user builds the canonical column list for a valid users row
func user(email, username string) []Column {
	return []Column{
		Col("email", Lit(email)),
		Col("username", Lit(username)),
		Col("birthdate", Lit("2000-01-01")),
		Col("city", Lit("La Plata")),
		Col("first_name", Lit("Nombre")),
		Col("last_name", Lit("Apellido")),
		Col("password", Lit("123")),
		Col("enabled", Raw("true")),
	}
}

// with returns a copy of cols with name set to v, appending it if absent
func with(cols []Column, name string, v Value) []Column {
	out := make([]Column, 0, len(cols)+1)
	replaced := false
	for _, c := range cols {
		if c.Name == name {
			c.Value = v
			replaced = true
		}
		out = append(out, c)
	}
	if !replaced {
		out = append(out, Col(name, v))
	}
	return out
}

// without returns a copy of cols minus the named columns
func without(cols []Column, names ...string) []Column {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	out := make([]Column, 0, len(cols))
	for _, c := range cols {
		if !drop[c.Name] {
			out = append(out, c)
		}
	}
	return out
}

// Users returns the insertion suite for the users table. Timestamps are
// derived from clock so that the suite is deterministic under a fixed clock.
func Users(clock Clock) []Scenario {
	if clock == nil {
		clock = SystemClock{}
	}
	future := clock.Now().AddDate(1, 0, 0).UTC().Format("2006-01-02T15:04:05.000Z07:00")

	valid := []Column{
		Col("email", Lit("user@example.com")),
		Col("username", Lit("user")),
		Col("birthdate", Lit("2024-01-02")),
		Col("city", Lit("La Plata")),
		Col("first_name", Lit("Juan")),
		Col("last_name", Lit("Pérez")),
		Col("password", Lit("securepass123")),
		Col("enabled", Raw("true")),
	}

	return []Scenario{
		{
			Name:        "valid_user",
			Description: "Insert a valid user",
			Columns:     valid,
			Expect: ExpectSuccess(1,
				Equals("email", "user@example.com"),
				Equals("first_name", "Juan"),
				Equals("last_name", "Pérez"),
				Equals("password", "securepass123"),
				Equals("enabled", "true"),
				SameYear("created_at"),
			),
		},
		{
			Name:        "invalid_email",
			Description: "Insert a user with an invalid email",
			Columns:     with(valid, "email", Lit("user")),
			Expect:      ExpectRejected(CheckConstraint, "users_email_check"),
		},
		{
			Name:        "invalid_birthdate",
			Description: "Insert a user with an invalid birthdate",
			Columns: []Column{
				Col("email", Lit("user@example.com")),
				Col("username", Lit("user")),
				Col("birthdate", Lit("invalid_date")),
				Col("city", Lit("La Plata")),
			},
			Expect: ExpectRejected(TypeCoercionError, "invalid input syntax for type date"),
		},
		{
			Name:        "missing_city",
			Description: "Insert a user without city",
			Columns: []Column{
				Col("email", Lit("user@example.com")),
				Col("username", Lit("user")),
				Col("birthdate", Lit("2024-01-02")),
			},
			Expect: ExpectRejected(NotNullConstraint, `null value in column "city"`),
		},
		{
			Name:        "empty_first_name",
			Description: "Insert user with empty first_name",
			Columns:     with(user("user1@example.com", "user1"), "first_name", Lit("")),
			Expect:      ExpectSuccess(1),
		},
		{
			Name:        "first_name_too_long",
			Description: "Insert user with too long first_name",
			Columns:     with(user("user2@example.com", "user2"), "first_name", Lit(strings.Repeat("A", 31))),
			Expect:      ExpectRejected(LengthOverflow, ""),
		},
		{
			Name:        "missing_last_name",
			Description: "Insert user without last_name",
			Columns:     without(user("user3@example.com", "user3"), "last_name"),
			Expect:      ExpectRejected(NotNullConstraint, `null value in column "last_name"`),
		},
		{
			Name:        "long_password",
			Description: "Insert user with long password",
			Columns:     with(user("user4@example.com", "user4"), "password", Lit(strings.Repeat("A", 255))),
			Expect:      ExpectSuccess(1),
		},
		{
			Name:        "missing_password",
			Description: "Insert user with null password",
			Columns:     without(user("user5@example.com", "user5"), "password"),
			Expect:      ExpectRejected(NotNullConstraint, `null value in column "password"`),
		},
		{
			Name:        "enabled_false",
			Description: "Insert user with enabled false",
			Columns:     with(user("user6@example.com", "user6"), "enabled", Raw("false")),
			Expect:      ExpectSuccess(1, Equals("enabled", "false")),
		},
		{
			Name:        "missing_enabled",
			Description: "Insert user with NULL in enabled",
			Columns:     without(user("user7@example.com", "user7"), "enabled"),
			Expect:      ExpectRejected(NotNullConstraint, `null value in column "enabled"`),
		},
		{
			Name:        "future_last_access_time",
			Description: "Insert user with future last_access_time",
			Columns:     with(user("user8@example.com", "user8"), "last_access_time", Lit(future)),
			Expect:      ExpectSuccess(1),
		},
		{
			Name:        "null_updated_at",
			Description: "Insert user with updated_at null",
			Columns:     with(user("user9@example.com", "user9"), "updated_at", Null()),
			Expect:      ExpectSuccess(1, IsNull("updated_at")),
		},
	}
}
