// Copyright (c) 2026 Acadia. All rights reserved.
// Author: platform@acadia.io

package sec

import "time"

// SetClock pins the codec's time source for deterministic expiry tests.
func (codec *Codec) SetClock(now func() time.Time) {
	codec.now = now
}
