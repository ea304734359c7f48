package model

// All lists every persisted model, in migration order.
func All() []interface{} {
	return []interface{}{
		&Subject{},
		&Professor{},
		&University{},
		&Course{},
		&Exam{},
		&Question{},
		&SavedQuestion{},
		&AIAnswer{},
	}
}
