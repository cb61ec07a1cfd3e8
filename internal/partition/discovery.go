package partition

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	graphserrors "github.com/23skdu/graphserving/internal/errors"
	"github.com/23skdu/graphserving/internal/storage"
)

var leadingDigits = regexp.MustCompile(`^[0-9]+`)

// ParsePrefix parses the leading base-10 digits of a partition suffix,
// e.g. "0_003" -> 0. Returns an error if suffix has no leading digits.
func ParsePrefix(suffix string) (uint32, error) {
	digits := leadingDigits.FindString(suffix)
	if digits == "" {
		return 0, graphserrors.NewValidationError("ParsePrefix", "suffix has no leading digit prefix: "+suffix)
	}
	v, err := strconv.ParseUint(digits, 10, 32)
	if err != nil {
		return 0, graphserrors.WrapValidationError(err, "ParsePrefix", "malformed numeric prefix in suffix "+suffix)
	}
	return uint32(v), nil
}

// DiscoverSuffixes returns the lexicographically sorted list of partition
// suffixes under backend's base path that are eligible for this server: a
// "neighbors_<suffix>.*" file must exist, and the numeric prefix of
// <suffix> must belong to assigned.
func DiscoverSuffixes(backend storage.Backend, assigned []uint32) ([]string, error) {
	assignedSet := make(map[uint32]struct{}, len(assigned))
	for _, p := range assigned {
		assignedSet[p] = struct{}{}
	}

	names, err := backend.List("")
	if err != nil {
		return nil, graphserrors.WrapStorageError(err, "DiscoverSuffixes", "failed to list partition directory")
	}

	seen := make(map[string]struct{})
	var suffixes []string
	for _, name := range names {
		suffix, ok := suffixFromNeighborsFile(name)
		if !ok {
			continue
		}
		prefix, err := ParsePrefix(suffix)
		if err != nil {
			continue
		}
		if _, ok := assignedSet[prefix]; !ok {
			continue
		}
		if _, dup := seen[suffix]; dup {
			continue
		}
		seen[suffix] = struct{}{}
		suffixes = append(suffixes, suffix)
	}

	sort.Strings(suffixes)
	return suffixes, nil
}

// suffixFromNeighborsFile extracts <suffix> from a "neighbors_<suffix>.*"
// file name.
func suffixFromNeighborsFile(name string) (string, bool) {
	const prefix = "neighbors_"
	if !strings.HasPrefix(name, prefix) {
		return "", false
	}
	rest := name[len(prefix):]
	dot := strings.IndexByte(rest, '.')
	if dot < 0 {
		return rest, rest != ""
	}
	suffix := rest[:dot]
	return suffix, suffix != ""
}
