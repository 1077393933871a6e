package utils

import "time"

// UTCNowUnix returns the current UTC time as unix seconds.
func UTCNowUnix() int64 {
	return time.Now().UTC().Unix()
}
