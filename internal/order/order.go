// Package order sorts the catalog into its presentation order.
package order

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/temirov/codeflat/internal/types"
	"github.com/temirov/codeflat/internal/utils"
)

// collationLocale is fixed so ordering never depends on the host locale.
var collationLocale = language.Und

// Order returns a new slice sorted by priority class ascending, then by
// relative path using locale-aware collation. Paths that collate equal are
// ordered by their bytes so the result is a total order. The input is not modified.
func Order(catalog []types.FileRecord) []types.FileRecord {
	ordered := append([]types.FileRecord(nil), catalog...)
	collator := collate.New(collationLocale)
	keys := make([]string, len(ordered))
	for index, record := range ordered {
		keys[index] = utils.NormalizeSeparators(record.RelativePath)
	}
	sort.Stable(byPriorityThenPath{records: ordered, keys: keys, collator: collator})
	return ordered
}

type byPriorityThenPath struct {
	records  []types.FileRecord
	keys     []string
	collator *collate.Collator
}

func (sorter byPriorityThenPath) Len() int { return len(sorter.records) }

func (sorter byPriorityThenPath) Swap(i, j int) {
	sorter.records[i], sorter.records[j] = sorter.records[j], sorter.records[i]
	sorter.keys[i], sorter.keys[j] = sorter.keys[j], sorter.keys[i]
}

func (sorter byPriorityThenPath) Less(i, j int) bool {
	return compare(sorter.collator, sorter.records[i].Priority, sorter.records[j].Priority, sorter.keys[i], sorter.keys[j]) < 0
}

func compare(collator *collate.Collator, leftPriority, rightPriority int, leftPath, rightPath string) int {
	if leftPriority != rightPriority {
		if leftPriority < rightPriority {
			return -1
		}
		return 1
	}
	if collated := collator.CompareString(leftPath, rightPath); collated != 0 {
		return collated
	}
	switch {
	case leftPath < rightPath:
		return -1
	case leftPath > rightPath:
		return 1
	default:
		return 0
	}
}
