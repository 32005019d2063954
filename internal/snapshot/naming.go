package snapshot

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// VersionLayout is the timestamp suffix of a versioned table.
const VersionLayout = "20060102_1504"

var ErrInvalidName = errors.New("invalid snapshot base name")

// Postgres truncates identifiers at 63 bytes; leave room for the suffix.
var baseNamePattern = regexp.MustCompile(`^[a-z_][a-z0-9_]{0,48}$`)

// ValidateBaseName accepts lower-case identifiers only, so generated table
// names never need case folding.
func ValidateBaseName(base string) error {
	if !baseNamePattern.MatchString(base) {
		return fmt.Errorf("%w: %q", ErrInvalidName, base)
	}
	return nil
}

// VersionedTableName is base + "_" + at formatted as YYYYMMDD_HHMM.
func VersionedTableName(base string, at time.Time) (string, error) {
	if err := ValidateBaseName(base); err != nil {
		return "", err
	}
	return base + "_" + at.Format(VersionLayout), nil
}

// LikePattern matches every version of base. Underscores in base are
// escaped so "obesity_silver" does not match "obesityXsilver_...".
func LikePattern(base string) string {
	r := strings.NewReplacer(`\`, `\\`, `_`, `\_`, `%`, `\%`)
	return r.Replace(base) + `\_%`
}

// IsVersionOf reports whether table is base followed by a valid version
// suffix.
func IsVersionOf(base, table string) bool {
	suffix, ok := strings.CutPrefix(table, base+"_")
	if !ok {
		return false
	}
	_, err := time.Parse(VersionLayout, suffix)
	return err == nil
}
