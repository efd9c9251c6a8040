// Package migrations holds and applies the embedded schema: sessions,
// loadouts and the markup library live in PostgreSQL, the stats snapshot
// timeseries in ClickHouse. Files apply in lexical order, so new migrations
// take the next numeric prefix.
package migrations

import "embed"

// PostgresFS embeds the session/loadout/markup schema migrations.
//
//go:embed postgres/*.sql
var PostgresFS embed.FS

// ClickhouseFS embeds the stats snapshot timeseries migrations.
//
//go:embed clickhouse/*.sql
var ClickhouseFS embed.FS
