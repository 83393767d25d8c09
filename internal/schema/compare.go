package schema

// Compare reports every expected field that is absent from actual or
// declared with a different type. Type names are compared verbatim.
// Columns present in actual but not in expected are ignored.
func Compare(expected *Definition, actual Snapshot) []Discrepancy {
	var discrepancies []Discrepancy

	for _, field := range expected.Fields() {
		actualType, exists := actual[field.Name]
		if !exists {
			discrepancies = append(discrepancies, Discrepancy{
				Kind:  MissingField,
				Field: field.Name,
			})
			continue
		}

		if actualType != field.Type {
			discrepancies = append(discrepancies, Discrepancy{
				Kind:     TypeMismatch,
				Field:    field.Name,
				Expected: field.Type,
				Actual:   actualType,
			})
		}
	}

	return discrepancies
}
