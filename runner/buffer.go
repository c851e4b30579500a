// buffer.go - Puffer fuer die Antwort eines Turns
package runner

import (
	"strings"

	"github.com/smolchat/smolchat/runner/common"
)

// generationBuffer sammelt die Bytes eines Turns.
// pending haelt Bytes die noch kein vollstaendiges UTF-8 Zeichen ergeben,
// response die bereits ausgegebene Antwort, fed alle von der Engine
// verarbeiteten Antwort-Bytes.
type generationBuffer struct {
	pending  []byte
	response strings.Builder
	fed      []byte
}

// add haengt piece an pending an und gibt pending zurueck sobald es vollstaendig ist
func (b *generationBuffer) add(piece []byte) (string, bool) {
	b.pending = append(b.pending, piece...)
	if !common.IsCompleteSequence(b.pending) {
		return "", false
	}

	out := string(b.pending)
	b.response.WriteString(out)
	b.pending = b.pending[:0]
	return out, true
}

func (b *generationBuffer) reset() {
	b.pending = b.pending[:0]
	b.response.Reset()
	b.fed = b.fed[:0]
}
