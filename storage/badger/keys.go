package badger

import (
	"strings"

	"github.com/poiesic/medseq/core"
)

// Key prefixes for different data types
const (
	encounterPrefix = "enc:"
)

// makeEncounterKey generates a key for an encounter by Id.
func makeEncounterKey(id core.EncounterID) []byte {
	return []byte(encounterPrefix + string(id))
}

// encounterIDFromKey recovers the encounter Id from a primary key.
func encounterIDFromKey(key []byte) core.EncounterID {
	return core.EncounterID(strings.TrimPrefix(string(key), encounterPrefix))
}
