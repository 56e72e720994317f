// Package statistics indexes time records by code reference and holds the
// currently installed snapshot.
package statistics

import (
	"github.com/perf-stats/pkg/model"
)

// LookupTier tells which probe resolved a lookup.
type LookupTier int

const (
	TierMiss      LookupTier = iota // no probe matched
	TierExact                       // the query itself matched
	TierShortName                   // the short-name fallback probe matched
)

// String returns the metric label of the tier.
func (t LookupTier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierShortName:
		return "short_name"
	default:
		return "miss"
	}
}

// Index maps code references to their time records.
// An Index is never modified after BuildIndex returns.
type Index struct {
	groups  map[model.CodeReference][]model.TimeRecord
	order   []model.CodeReference
	records int
}

// BuildIndex groups records by reference. Records of one reference keep
// their input order; references are kept in order of first appearance.
func BuildIndex(records []model.TimeRecord) *Index {
	idx := &Index{
		groups:  make(map[model.CodeReference][]model.TimeRecord),
		records: len(records),
	}
	for _, rec := range records {
		group, seen := idx.groups[rec.Reference]
		if !seen {
			idx.order = append(idx.order, rec.Reference)
		}
		idx.groups[rec.Reference] = append(group, rec)
	}
	return idx
}

// emptyIndex is the index installed before any load.
func emptyIndex() *Index {
	return BuildIndex(nil)
}

// Lookup returns the records for query, trying the exact reference first and
// then the same reference with its qualified name cut down to the short name.
// The returned slice is a copy and is never nil.
func (idx *Index) Lookup(query model.CodeReference) []model.TimeRecord {
	records, _ := idx.lookup(query)
	return records
}

func (idx *Index) lookup(query model.CodeReference) ([]model.TimeRecord, LookupTier) {
	if query.QualifiedName() == "" {
		return []model.TimeRecord{}, TierMiss
	}
	if group, ok := idx.groups[query]; ok {
		return cloneRecords(group), TierExact
	}
	probe := query.WithShortName()
	if probe != query {
		if group, ok := idx.groups[probe]; ok {
			return cloneRecords(group), TierShortName
		}
	}
	return []model.TimeRecord{}, TierMiss
}

// Len returns the number of records in the index.
func (idx *Index) Len() int {
	return idx.records
}

// References returns the distinct references in order of first appearance.
func (idx *Index) References() []model.CodeReference {
	refs := make([]model.CodeReference, len(idx.order))
	copy(refs, idx.order)
	return refs
}

// Groups calls fn for every reference in order of first appearance.
func (idx *Index) Groups(fn func(ref model.CodeReference, records []model.TimeRecord)) {
	for _, ref := range idx.order {
		fn(ref, idx.groups[ref])
	}
}

func cloneRecords(records []model.TimeRecord) []model.TimeRecord {
	out := make([]model.TimeRecord, len(records))
	copy(out, records)
	return out
}
