package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash returns the hex SHA-256 of data. Graph hashes and cache keys are
// built from it.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// entryKey is "<kind>:" followed by the hash of base and the JSON form of
// opts, separated by a NUL so neither can bleed into the other.
func entryKey(kind, base string, opts any) string {
	enc, err := json.Marshal(opts)
	if err != nil {
		// Key option structs hold only plain fields.
		panic("cache: unencodable key options: " + err.Error())
	}
	buf := make([]byte, 0, len(base)+1+len(enc))
	buf = append(buf, base...)
	buf = append(buf, 0)
	buf = append(buf, enc...)
	return kind + ":" + Hash(buf)
}
