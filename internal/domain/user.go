package domain

// User is the authenticated identity a ledger is scoped to. Identity
// management lives with the external provider; only the stable UID matters
// here, it names the remote namespace the synchronizer subscribes to.
type User struct {
	UID   string
	Email string
	Name  string
}
