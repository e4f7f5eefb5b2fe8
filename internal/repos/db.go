package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	if dsn == ":memory:" {
		// A pooled second connection would see a fresh empty database.
		db.SetMaxOpenConns(1)
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Fixed category set (idempotent; safe to run every start)
	if err := seedCategories(db); err != nil {
		return nil, err
	}
	// Ensure demo users exist (idempotent; safe to run every start)
	if err := seedUsers(db); err != nil {
		return nil, err
	}
	// Seed a few demo listings if the DB is empty
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Users & Sessions
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL,
  email TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_nocase ON users(LOWER(username));

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- same value as the 'sid' cookie
  user_id TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);

-- Categories (fixed set, seeded below)
CREATE TABLE IF NOT EXISTS categories(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_name_nocase ON categories(LOWER(name));

-- Listings
CREATE TABLE IF NOT EXISTS listings(
  id TEXT PRIMARY KEY,
  seller_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  title TEXT NOT NULL,
  description TEXT,
  category_id TEXT NOT NULL REFERENCES categories(id) ON DELETE RESTRICT,
  current_price NUMERIC NOT NULL CHECK (current_price >= 0),
  image_url TEXT,
  closed INTEGER NOT NULL DEFAULT 0,
  winner_id TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_listings_category   ON listings(category_id);
CREATE INDEX IF NOT EXISTS idx_listings_seller     ON listings(seller_id);
CREATE INDEX IF NOT EXISTS idx_listings_created_at ON listings(created_at);
CREATE INDEX IF NOT EXISTS idx_listings_closed     ON listings(closed);

-- Bids (cascade-deleted with their listing)
CREATE TABLE IF NOT EXISTS bids(
  id TEXT PRIMARY KEY,
  listing_id TEXT NOT NULL REFERENCES listings(id) ON DELETE CASCADE,
  bidder_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  amount NUMERIC NOT NULL CHECK (amount > 0),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_bids_listing ON bids(listing_id);
CREATE INDEX IF NOT EXISTS idx_bids_bidder  ON bids(bidder_id);

-- Comments (append-only)
CREATE TABLE IF NOT EXISTS comments(
  id TEXT PRIMARY KEY,
  listing_id TEXT NOT NULL REFERENCES listings(id) ON DELETE CASCADE,
  author_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  body TEXT NOT NULL CHECK (length(body) > 0),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_comments_listing ON comments(listing_id);

-- Watchlist (one row per user+listing, enforced by the primary key)
CREATE TABLE IF NOT EXISTS watchlist_items(
  user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  listing_id TEXT NOT NULL REFERENCES listings(id) ON DELETE CASCADE,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  PRIMARY KEY(user_id, listing_id)
);
`
	_, err := db.Exec(schema)
	return err
}

// seedCategories inserts the fixed category set (idempotent).
func seedCategories(db *sqlx.DB) error {
	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	cats := [][2]string{
		{"clothing", "Wizarding Clothing"},
		{"brooms", "Brooms"},
		{"wands", "Wands"},
		{"books", "Magical Books"},
		{"items", "Magical Items"},
		{"mythical", "Mythical Items"},
	}
	for _, c := range cats {
		if _, err := tx.Exec(`
			INSERT INTO categories(id, name) VALUES(?, ?)
			ON CONFLICT(id) DO NOTHING
		`, c[0], c[1]); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// seedUsers ensures a handful of demo accounts exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Username, Email, Hash string
	}
	mk := func(id, username, email, raw string) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), 12)
		return u{ID: id, Username: username, Email: email, Hash: string(h)}
	}

	users := []u{
		mk("u-albus", "albus", "albus@owlbid.test", "Passw0rd!"),
		mk("u-minerva", "minerva", "minerva@owlbid.test", "Passw0rd!"),
		mk("u-newt", "newt", "newt@owlbid.test", "Passw0rd!"),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,username,email,password_hash)
			VALUES(?,?,?,?)
			ON CONFLICT(id) DO NOTHING
		`, x.ID, x.Username, x.Email, x.Hash); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM listings`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo listings")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO listings(id,seller_id,title,description,category_id,current_price,image_url) VALUES
	  ('lst-nimbus','u-minerva','Nimbus 2000','Lightly used, one previous seeker.','brooms',150.00,''),
	  ('lst-elder','u-albus','Elder Wand Replica','Display piece, carved elder wood.','wands',75.00,''),
	  ('lst-monster','u-newt','Monster Book of Monsters','Bites. Stroke the spine first.','books',12.50,'')`)

	return tx.Commit()
}
