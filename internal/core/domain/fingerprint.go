package domain

// Fingerprint identifies a file's content state.
// It is computed fresh on every visit and compared against the metadata
// stored in the index for the same path; it is never persisted on its own.
type Fingerprint struct {
	// Size is the file size in bytes.
	Size int64

	// ModifiedMillis is the modification time in Unix milliseconds.
	ModifiedMillis int64

	// Hash is the SHA-256 hex digest of the full file content.
	Hash string
}

// Matches reports whether the fingerprint matches the metadata stored in rec.
// All three of size, modification time and hash must agree; a change in any
// one means the file needs reindexing.
func (f Fingerprint) Matches(rec *Record) bool {
	if rec == nil {
		return false
	}
	return f.Size == rec.Size &&
		f.ModifiedMillis == rec.ModifiedMillis &&
		f.Hash == rec.Hash
}
