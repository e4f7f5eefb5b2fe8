package domain

type User struct {
	ID        string `db:"id"`
	Username  string `db:"username"`
	Email     string `db:"email"`
	Hash      string `db:"password_hash"`
	Active    bool   `db:"active"`
	CreatedAt string `db:"created_at"`
}
