package game

// PrependCapped returns a new slice with item at the head and at most max
// entries; entries past max are dropped from the tail.
func PrependCapped[T any](list []T, item T, max int) []T {
	n := len(list) + 1
	if n > max {
		n = max
	}
	out := make([]T, 0, n)
	out = append(out, item)
	for i := 0; len(out) < n; i++ {
		out = append(out, list[i])
	}
	return out
}

// AppendCapped returns a new slice with item at the tail and at most max
// entries; the oldest entries are dropped from the head.
func AppendCapped[T any](list []T, item T, max int) []T {
	start := 0
	if len(list)+1 > max {
		start = len(list) + 1 - max
	}
	out := make([]T, 0, len(list)-start+1)
	out = append(out, list[start:]...)
	return append(out, item)
}

// TrimHead keeps the last max entries, TrimTail the first max.
func TrimHead[T any](list []T, max int) []T {
	if len(list) <= max {
		return list
	}
	return list[len(list)-max:]
}

func TrimTail[T any](list []T, max int) []T {
	if len(list) <= max {
		return list
	}
	return list[:max]
}
