package db

import "context"

// SchemaInterface is the version of database schema.
type SchemaInterface interface {
	// Upgrade applies schema versions newer than the database has.
	Upgrade(ctx context.Context) error

	// Version returns the schema version in the database.
	//
	// 0 means no schema has been applied.
	Version(ctx context.Context) (int, error)

	// Context returns a context which is cancelled when the schema in database is not latest.
	//
	// # Returns
	//
	// - context.Context: cancelled when the schema repository gains a version newer than the database.
	// context.Cause tells why.
	//
	// - context.CancelFunc: stops watching.
	Context(ctx context.Context) (context.Context, context.CancelFunc)
}
