package services

import "time"

// now is stubbed in tests that assert on timestamps.
var now = time.Now
