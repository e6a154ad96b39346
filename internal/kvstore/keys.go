package kvstore

import "fmt"

// Flat key scheme: one key per record so a single lookup returns one full
// document. cp_{user}_{kind}, day logs as cp_{user}_log_{date}, plus one
// global cp_users credential map.
const keyPrefix = "cp"

// Record kinds stored per user.
const (
	KindProfile       = "profile"
	KindWeightHistory = "weight_history"
	KindTheme         = "theme"
)

// UsersKey holds the global username→pin map. It is not namespaced per user
// because it resolves user identity itself.
const UsersKey = keyPrefix + "_users"

// UserKey builds the key for a per-user record kind.
func UserKey(username, kind string) string {
	return fmt.Sprintf("%s_%s_%s", keyPrefix, username, kind)
}

// DayLogKey builds the key for one user's log on one date (YYYY-MM-DD).
func DayLogKey(username, date string) string {
	return fmt.Sprintf("%s_%s_log_%s", keyPrefix, username, date)
}

// DayLogPrefix is the common prefix of all of a user's day-log keys, used to
// enumerate them without a separate date index.
func DayLogPrefix(username string) string {
	return fmt.Sprintf("%s_%s_log_", keyPrefix, username)
}
