package protocol

import "reflect"

// CreateDeltaUpdate returns only the top-level keys whose values differ
// between the previous and current snapshot, shrinking GAME_STATE_UPDATE
// payloads. Keys present in current but absent from previous are included;
// keys removed from current are reported as nil.
func CreateDeltaUpdate(previous, current map[string]any) map[string]any {
	delta := make(map[string]any)
	for key, cur := range current {
		prev, ok := previous[key]
		if !ok || !deepEqual(prev, cur) {
			delta[key] = cur
		}
	}
	for key := range previous {
		if _, ok := current[key]; !ok {
			delta[key] = nil
		}
	}
	return delta
}

// deepEqual treats two values as equal when they are maps with the same
// key set and recursively equal values, or slices of equal length with
// recursively equal elements. Anything else falls back to plain value
// equality.
func deepEqual(a, b any) bool {
	am, aIsMap := a.(map[string]any)
	bm, bIsMap := b.(map[string]any)
	if aIsMap && bIsMap {
		if len(am) != len(bm) {
			return false
		}
		for k, av := range am {
			bv, ok := bm[k]
			if !ok || !deepEqual(av, bv) {
				return false
			}
		}
		return true
	}

	as, aIsSlice := a.([]any)
	bs, bIsSlice := b.([]any)
	if aIsSlice && bIsSlice {
		if len(as) != len(bs) {
			return false
		}
		for i := range as {
			if !deepEqual(as[i], bs[i]) {
				return false
			}
		}
		return true
	}

	return reflect.DeepEqual(a, b)
}
