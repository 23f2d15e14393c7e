package storage

// Dialect holds the statements that differ between the supported SQL engines.
type Dialect struct {
	Name       string
	schema     []string
	upsertItem string
	upsertMeta string
}

var MySQL = Dialect{
	Name: "mysql",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS items (
			id BIGINT UNSIGNED NOT NULL PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			quantity BIGINT UNSIGNED NOT NULL,
			price DOUBLE NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sales (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			seq BIGINT NOT NULL UNIQUE,
			recorded_at_ns BIGINT NOT NULL,
			total_amount DOUBLE NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sale_items (
			sale_id VARCHAR(36) NOT NULL,
			line_no INT NOT NULL,
			item_id BIGINT UNSIGNED NOT NULL,
			name VARCHAR(255) NOT NULL,
			unit_price DOUBLE NOT NULL,
			quantity BIGINT UNSIGNED NOT NULL,
			PRIMARY KEY (sale_id, line_no)
		)`,
		`CREATE TABLE IF NOT EXISTS meta (
			k VARCHAR(64) NOT NULL PRIMARY KEY,
			v BIGINT UNSIGNED NOT NULL
		)`,
	},
	upsertItem: `
		INSERT INTO items (id, name, quantity, price) VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE name = VALUES(name), quantity = VALUES(quantity), price = VALUES(price)`,
	upsertMeta: `
		INSERT INTO meta (k, v) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE v = VALUES(v)`,
}

var SQLite = Dialect{
	Name: "sqlite",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS items (
			id INTEGER NOT NULL PRIMARY KEY,
			name TEXT NOT NULL,
			quantity INTEGER NOT NULL,
			price REAL NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sales (
			id TEXT NOT NULL PRIMARY KEY,
			seq INTEGER NOT NULL UNIQUE,
			recorded_at_ns INTEGER NOT NULL,
			total_amount REAL NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sale_items (
			sale_id TEXT NOT NULL REFERENCES sales(id),
			line_no INTEGER NOT NULL,
			item_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			unit_price REAL NOT NULL,
			quantity INTEGER NOT NULL,
			PRIMARY KEY (sale_id, line_no)
		)`,
		`CREATE TABLE IF NOT EXISTS meta (
			k TEXT NOT NULL PRIMARY KEY,
			v INTEGER NOT NULL
		)`,
	},
	upsertItem: `
		INSERT INTO items (id, name, quantity, price) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, quantity = excluded.quantity, price = excluded.price`,
	upsertMeta: `
		INSERT INTO meta (k, v) VALUES (?, ?)
		ON CONFLICT(k) DO UPDATE SET v = excluded.v`,
}
