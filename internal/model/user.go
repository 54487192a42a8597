package model

// User represents an application user record as stored in the `users`
// table.  The password is persisted only as a bcrypt digest; handlers
// define separate response types so the hash is never serialized.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – unique login name (unique key enforced by the store).
//  Email        – contact address; intentionally not unique.
//  PasswordHash – bcrypt digest of the password.
type User struct {
	ID           uint64 // users.id
	Username     string // users.username
	Email        string // users.email
	PasswordHash string // users.password_hash
}
