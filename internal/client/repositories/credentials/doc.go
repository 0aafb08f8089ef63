// Package credentials implements the durable key/value store that holds the
// session token and the serialized user profile.
//
// Contract shared by every Store:
//   - Get on a missing key returns ("", false, nil); it never errors for absence.
//   - Set and Remove surface failures to the caller; nothing is swallowed.
//   - Remove of a missing key succeeds.
//   - No reads are cached; each call goes to the backing medium.
//
// Implementations: SQLiteStore (local database), MemoryStore (ephemeral
// sessions and tests) and SealedStore (AES-GCM decorator over another Store).
package credentials
