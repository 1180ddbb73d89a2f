package service

import (
	"crypto/subtle"
	"time"

	"github.com/pquerna/otp/totp"
)

const totpPeriod = 30 * time.Second

// matchTOTPStep checks a code against the secret allowing one period of
// clock skew either side, and returns the time step the code belongs to so
// callers can enforce single use.
func matchTOTPStep(secret, code string, now time.Time) (int64, bool) {
	for _, offset := range []time.Duration{0, -totpPeriod, totpPeriod} {
		at := now.Add(offset)
		expected, err := totp.GenerateCode(secret, at)
		if err != nil {
			return 0, false
		}
		if subtle.ConstantTimeCompare([]byte(expected), []byte(code)) == 1 {
			return at.Unix() / int64(totpPeriod/time.Second), true
		}
	}
	return 0, false
}
