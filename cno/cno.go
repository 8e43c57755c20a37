// Package cno parses checkpoint-number arguments and ranges, grounded on
// original_source/lib/cno.c.
package cno

import (
	"errors"
	"strconv"
	"strings"

	"github.com/nilfs2/gonilfs2/nilfs2"
)

// ErrMalformed is returned for input that isn't a valid CNO or CNO range.
// It is always distinguishable from any successful value, including
// nilfs2.CnoMax, per the range-parser law in spec.md §4.7/§8.
var ErrMalformed = errors.New("cno: malformed checkpoint number")

// Parse parses a single checkpoint number. A negative-looking input (a
// leading '-') returns CnoMax, matching nilfs_parse_cno's handling of
// strtoull on a negative string (it wraps rather than erroring).
func Parse(s string) (uint64, error) {
	if s == "" {
		return 0, ErrMalformed
	}
	if s[0] == '-' {
		return nilfs2.CnoMax, nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, ErrMalformed
	}
	return v, nil
}

// ParseRange parses a checkpoint-number range argument of the form "N",
// "..N", "N..", or "N..M". It does not validate start <= end — that is
// left to the caller, per spec.md's explicit open-question decision.
func ParseRange(s string) (start, end uint64, err error) {
	if idx := strings.Index(s, ".."); idx >= 0 {
		left, right := s[:idx], s[idx+2:]
		switch {
		case left == "" && right == "":
			return nilfs2.CnoMin, nilfs2.CnoMax, nil
		case left == "":
			end, err = Parse(right)
			if err != nil {
				return 0, 0, err
			}
			return nilfs2.CnoMin, end, nil
		case right == "":
			start, err = Parse(left)
			if err != nil {
				return 0, 0, err
			}
			return start, nilfs2.CnoMax, nil
		default:
			start, err = Parse(left)
			if err != nil {
				return 0, 0, err
			}
			end, err = Parse(right)
			if err != nil {
				return 0, 0, err
			}
			return start, end, nil
		}
	}

	v, err := Parse(s)
	if err != nil {
		return 0, 0, err
	}
	return v, v, nil
}
