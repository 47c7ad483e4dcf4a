package kernel

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
	"time"

	"tracking/internal/pkg/errs"
)

const (
	TrackingNumberPrefix = "PKG"

	// TrackingNumberSuffixMin and TrackingNumberSuffixMax bound the random
	// four-digit suffix.
	TrackingNumberSuffixMin = 1000
	TrackingNumberSuffixMax = 9999

	trackingNumberDateLayout = "20060102"
)

var (
	ErrTrackingNumberIsNotConstructed = errs.NewValueIsRequiredError(
		"tracking number must be created via GenerateTrackingNumber or ParseTrackingNumber")

	trackingNumberPattern = regexp.MustCompile(`^PKG\d{8}\d{4}$`)
)

// TrackingNumber is the public reference of a package, formatted as
// "PKG" + UTC creation date (yyyyMMdd) + a suffix in 1000..9999,
// e.g. "PKG202401151234".
type TrackingNumber struct {
	value string
}

// GenerateTrackingNumber builds a new candidate for the given instant.
// Candidates are not unique on their own; callers check them against the store.
func GenerateTrackingNumber(at time.Time) TrackingNumber {
	suffix := rand.IntN(TrackingNumberSuffixMax-TrackingNumberSuffixMin+1) + TrackingNumberSuffixMin //nolint:gosec // not a secret
	return TrackingNumber{
		value: fmt.Sprintf("%s%s%d", TrackingNumberPrefix, at.UTC().Format(trackingNumberDateLayout), suffix),
	}
}

// ParseTrackingNumber accepts a full tracking number in any letter case.
func ParseTrackingNumber(s string) (TrackingNumber, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return TrackingNumber{}, errs.NewValueIsRequiredError("trackingNumber")
	}
	if !trackingNumberPattern.MatchString(s) {
		return TrackingNumber{}, errs.NewValueIsInvalidErrorWithCause(
			"trackingNumber", fmt.Errorf("%q does not match PKGyyyyMMddNNNN", s))
	}
	if _, err := time.Parse(trackingNumberDateLayout, s[len(TrackingNumberPrefix):len(TrackingNumberPrefix)+8]); err != nil {
		return TrackingNumber{}, errs.NewValueIsInvalidErrorWithCause("trackingNumber", err)
	}
	suffix := s[len(s)-4:]
	if suffix[0] == '0' {
		return TrackingNumber{}, errs.NewValueIsOutOfRangeError(
			"trackingNumber suffix", suffix, TrackingNumberSuffixMin, TrackingNumberSuffixMax)
	}
	return TrackingNumber{value: s}, nil
}

func (t TrackingNumber) String() string {
	return t.value
}

func (t TrackingNumber) IsEqual(other TrackingNumber) bool {
	return t.value == other.value
}

func (t TrackingNumber) Validate() error {
	if t.value == "" {
		return ErrTrackingNumberIsNotConstructed
	}
	return nil
}
