package builder

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Shard is one numbered partition of a raw dataset file
type Shard struct {
	Path   string // full path to the raw shard file
	Suffix string // numeric suffix extracted from the name, e.g. "12"
}

// suffixPattern matches the trailing run of digits immediately preceding
// the file extension. The same rule applies to train and eval names so
// shard N pairs deterministically across the two sets.
var suffixPattern = regexp.MustCompile(`(\d+)\.[^.]+$`)

// ExtractSuffix returns the numeric shard suffix of a filename
func ExtractSuffix(name string) (string, error) {
	m := suffixPattern.FindStringSubmatch(name)
	if m == nil {
		return "", fmt.Errorf("filename %q has no numeric shard suffix", name)
	}
	return m[1], nil
}

// DiscoverShards lists the files in dir named <prefix><N>.csv, ordered by
// numeric suffix. Files with the prefix but no numeric suffix are ignored.
func DiscoverShards(dir, prefix string) ([]Shard, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list shard directory %s: %w", dir, err)
	}

	var shards []Shard
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".csv") {
			continue
		}
		suffix, err := ExtractSuffix(name)
		if err != nil {
			continue
		}
		// The digits must make up the whole remainder between prefix and
		// extension, so eval_set1.csv does not match prefix train_set.
		if name != prefix+suffix+".csv" {
			continue
		}
		shards = append(shards, Shard{
			Path:   filepath.Join(dir, name),
			Suffix: suffix,
		})
	}

	sort.Slice(shards, func(i, j int) bool {
		a, _ := strconv.Atoi(shards[i].Suffix)
		b, _ := strconv.Atoi(shards[j].Suffix)
		return a < b
	})
	return shards, nil
}
