package app

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"

	"sensorfuse/domain/series"
)

// Fingerprint hashes the loaded input set so a run manifest can tie outputs
// back to the exact data that produced them. Hashing the parsed samples
// rather than file bytes keeps the fingerprint stable across compression
// and line-ending differences.
func Fingerprint(all []*series.Series) string {
	h := xxhash.New()
	var buf [8]byte
	for _, s := range all {
		_, _ = h.WriteString(s.Channel.String())
		for _, p := range s.Points {
			binary.LittleEndian.PutUint64(buf[:], uint64(p.Tick))
			_, _ = h.Write(buf[:])
			if f, ok := p.Value.Float(); ok {
				binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
			} else {
				binary.LittleEndian.PutUint64(buf[:], math.MaxUint64)
			}
			_, _ = h.Write(buf[:])
		}
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
