package domain

import "context"

// Database owns the storage lifecycle: schema migrations, liveness and
// shutdown. The SQLite implementation embeds its own migration files.
type Database interface {
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
