// Package reconcile implements the diff-and-upsert engine shared by the
// list-valued child collections (insurer documents, collage documents, export
// documents). Given the collection currently persisted for a parent scope and
// the collection a caller requests, it partitions the request into added,
// updated and removed records keyed by the record's natural key. The engine is
// pure: persistence and cache mirroring stay with the owning service.
package reconcile

// Diff holds the three-way partition of a requested collection against the
// current one. The partitions are pairwise disjoint by natural key; records
// that match and carry no field changes appear in none of them.
type Diff[T any] struct {
	Added   []T
	Updated []T
	Removed []T
}

// Empty reports whether no partition holds any record. An empty diff means
// the reconciliation must perform zero database writes and zero cache writes.
func (d Diff[T]) Empty() bool {
	return len(d.Added) == 0 && len(d.Updated) == 0 && len(d.Removed) == 0
}

// Options configures a Partition call.
type Options[T any, K comparable] struct {
	// Key extracts the natural key used to match current records against
	// requested ones within the parent scope.
	Key func(T) K

	// Changed reports whether a matched pair differs in at least one mutable
	// field (sort priority, group, ...). Matched records for which Changed is
	// false generate no writes.
	Changed func(current, requested T) bool

	// Merge produces the record to persist for a matched-and-changed pair:
	// identity and immutable fields from current, mutable fields from
	// requested. Timestamps are stamped later by the owning service.
	Merge func(current, requested T) T
}

// Partition computes the three-way diff between current and requested.
//
// Removed preserves the order of current; Updated preserves the order of
// current; Added preserves the order of requested. A natural key occurring
// twice in requested keeps only its first occurrence (callers enforce
// uniqueness upstream, this is the engine's tie-break).
func Partition[T any, K comparable](current, requested []T, opt Options[T, K]) Diff[T] {
	requestedByKey := make(map[K]T, len(requested))
	requestedOrder := make([]K, 0, len(requested))
	for _, req := range requested {
		k := opt.Key(req)
		if _, dup := requestedByKey[k]; dup {
			continue
		}
		requestedByKey[k] = req
		requestedOrder = append(requestedOrder, k)
	}

	currentKeys := make(map[K]struct{}, len(current))
	var diff Diff[T]

	for _, cur := range current {
		k := opt.Key(cur)
		currentKeys[k] = struct{}{}

		req, ok := requestedByKey[k]
		if !ok {
			diff.Removed = append(diff.Removed, cur)
			continue
		}
		if opt.Changed(cur, req) {
			diff.Updated = append(diff.Updated, opt.Merge(cur, req))
		}
	}

	for _, k := range requestedOrder {
		if _, exists := currentKeys[k]; !exists {
			diff.Added = append(diff.Added, requestedByKey[k])
		}
	}

	return diff
}

// Dedupe returns items with later occurrences of a repeated natural key
// removed, preserving first-occurrence order. Callers run this before
// NormalizePriorities; a repeated key must not consume a priority slot,
// or the persisted sequence would carry a gap.
func Dedupe[T any, K comparable](items []T, key func(T) K) []T {
	seen := make(map[K]struct{}, len(items))
	out := items[:0:0]
	for _, item := range items {
		k := key(item)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, item)
	}
	return out
}

// NormalizePriorities assigns a dense, 1-based sort priority to items in
// array order, overwriting any caller-supplied value. The request array order
// IS the new canonical order; priorities are never trusted from client input.
func NormalizePriorities[T any](items []T, set func(*T, int)) {
	for i := range items {
		set(&items[i], i+1)
	}
}

// --- Snapshot mirroring helpers ---
//
// The cached snapshot is a denormalized full-table list spanning every parent
// scope, so mirror keys must include the scope alongside the natural key.

// MirrorRemove returns snapshot without the records whose key matches one of
// removed. Order of the surviving records is preserved.
func MirrorRemove[T any, K comparable](snapshot, removed []T, key func(T) K) []T {
	if len(removed) == 0 {
		return snapshot
	}
	drop := make(map[K]struct{}, len(removed))
	for _, r := range removed {
		drop[key(r)] = struct{}{}
	}
	kept := snapshot[:0:0]
	for _, s := range snapshot {
		if _, gone := drop[key(s)]; !gone {
			kept = append(kept, s)
		}
	}
	return kept
}

// MirrorUpdate applies each updated record onto its snapshot counterpart in
// place via apply, which copies exactly the changed fields (and must re-apply
// the modification timestamp explicitly). Records without a counterpart are
// ignored; the snapshot is eventually consistent, not a source of truth.
func MirrorUpdate[T any, K comparable](snapshot, updated []T, key func(T) K, apply func(snap *T, upd T)) {
	if len(updated) == 0 {
		return
	}
	byKey := make(map[K]T, len(updated))
	for _, u := range updated {
		byKey[key(u)] = u
	}
	for i := range snapshot {
		if u, ok := byKey[key(snapshot[i])]; ok {
			apply(&snapshot[i], u)
		}
	}
}
