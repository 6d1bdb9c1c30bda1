package utils

import (
	"errors"
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

var (
	ErrInvalidPhone       = errors.New("invalid phone number")
	ErrUnsupportedCarrier = errors.New("phone number prefix is not an Egyptian mobile carrier")
)

var (
	phoneFormatting = strings.NewReplacer(" ", "", "\u00a0", "", "-", "", ".", "", "(", "", ")", "")
	phoneDigits     = regexp.MustCompile(`^\+?[0-9]+$`)
	egyptMobile     = regexp.MustCompile(`^1[0125][0-9]{8}$`)
)

// NormalizePhone converts an Egyptian mobile number in any common notation to +201XXXXXXXXX.
func NormalizePhone(raw string) (string, error) {
	phone := phoneFormatting.Replace(strings.TrimSpace(raw))
	if phone == "" || !phoneDigits.MatchString(phone) {
		return "", ErrInvalidPhone
	}

	var national string
	switch {
	case strings.HasPrefix(phone, "+20"):
		national = phone[3:]
	case strings.HasPrefix(phone, "+"):
		return "", ErrInvalidPhone
	case strings.HasPrefix(phone, "0020"):
		national = phone[4:]
	case strings.HasPrefix(phone, "20") && len(phone) == 12:
		national = phone[2:]
	case strings.HasPrefix(phone, "0") && len(phone) == 11:
		national = phone[1:]
	default:
		national = phone
	}
	// +20 01XXXXXXXXX is a frequent mix of both notations.
	if len(national) == 11 && strings.HasPrefix(national, "0") {
		national = national[1:]
	}

	if len(national) != 10 || national[0] != '1' {
		return "", ErrInvalidPhone
	}
	if !egyptMobile.MatchString(national) {
		return "", ErrUnsupportedCarrier
	}

	num, err := phonenumbers.Parse("+20"+national, "EG")
	if err != nil || !phonenumbers.IsValidNumberForRegion(num, "EG") {
		return "", ErrInvalidPhone
	}
	if phonenumbers.GetNumberType(num) != phonenumbers.MOBILE {
		return "", ErrUnsupportedCarrier
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

// LocalPhone renders a normalized number in the 01XXXXXXXXX form.
func LocalPhone(e164 string) string {
	if strings.HasPrefix(e164, "+20") {
		return "0" + e164[3:]
	}
	return e164
}
