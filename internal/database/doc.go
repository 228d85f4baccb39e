// Package database provides the data access layer for the application.
//
// # Architecture
//
//	database/
//	├── database.go      # SQLite connection setup and migrations (gorm)
//	├── accounts/        # Account store on SQLite
//	├── audit/           # Authentication audit events
//	└── postgres/        # Account store and goose migrations on PostgreSQL (pgx)
//
// # Using Sub-packages
//
//	db, err := database.NewDatabase("./authkeeper.db")
//	store := accounts.NewRepository(db.DB)
//	account, err := store.FindByUsername(ctx, "alice01")
//
// Both account stores implement auth.AccountStore and are checked at compile
// time with var _ auth.AccountStore = (*Repository)(nil).
package database
