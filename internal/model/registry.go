package model

// AllModels returns every model that participates in schema migration.
// New tables only need to be added here, not in main.go.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Tontine{},
		&TontineMember{},
		&TontineCycle{},
		&TontinePayoutOrder{},
		&TontineRound{},
		&Payment{},
	}
}
