package models

// Snapshot is the denormalized copy of profile and stats kept in the local
// cache. It is written after a successful login or registration, removed on
// logout, and read when the remote store is unreachable or session state is
// still being bootstrapped.
type Snapshot struct {
	UserID   string       `json:"uid"`
	Email    string       `json:"email"`
	FullName string       `json:"fullName"`
	JoinDate string       `json:"joinDate"`
	Stats    ReadingStats `json:"stats"`
}
