package services

import (
	"regexp"
)

// DeviceClassifier decides which mobile platform a request comes from. The
// two predicates are independent, not exclusive: a garbled user agent may
// match both, and the resolver checks Android first.
type DeviceClassifier interface {
	IsAndroid(userAgent string) bool
	IsIOS(userAgent string) bool
}

var (
	androidPattern = regexp.MustCompile(`(?i)android`)
	iosPattern     = regexp.MustCompile(`iPad|iPhone|iPod`)
)

// RegexpClassifier is the default, deliberately coarse heuristic. A more
// precise detector can replace it without touching the precedence rules.
type RegexpClassifier struct{}

func (RegexpClassifier) IsAndroid(userAgent string) bool {
	return androidPattern.MatchString(userAgent)
}

func (RegexpClassifier) IsIOS(userAgent string) bool {
	return iosPattern.MatchString(userAgent)
}
