package game

import "testing"

func TestPrependCappedEvictsTail(t *testing.T) {
	var list []int
	for i := 1; i <= 60; i++ {
		list = PrependCapped(list, i, MaxGameHistory)
		if len(list) > MaxGameHistory {
			t.Fatalf("len = %d after %d inserts, want <= %d", len(list), i, MaxGameHistory)
		}
	}
	if len(list) != MaxGameHistory {
		t.Fatalf("len = %d, want %d", len(list), MaxGameHistory)
	}
	if list[0] != 60 {
		t.Fatalf("head = %d, want 60", list[0])
	}
	if list[len(list)-1] != 11 {
		t.Fatalf("tail = %d, want 11", list[len(list)-1])
	}
}

func TestPrependCappedDoesNotAlias(t *testing.T) {
	orig := []int{2, 3}
	got := PrependCapped(orig, 1, 10)
	got[1] = 99
	if orig[0] != 2 {
		t.Fatalf("original mutated: %v", orig)
	}
}

func TestAppendCappedFIFO(t *testing.T) {
	var list []int
	for i := 1; i <= 205; i++ {
		list = AppendCapped(list, i, MaxChatHistory)
	}
	if len(list) != MaxChatHistory {
		t.Fatalf("len = %d, want %d", len(list), MaxChatHistory)
	}
	if list[0] != 6 || list[len(list)-1] != 205 {
		t.Fatalf("unexpected window [%d..%d]", list[0], list[len(list)-1])
	}
	for i := 1; i < len(list); i++ {
		if list[i] != list[i-1]+1 {
			t.Fatalf("order broken at %d: %d after %d", i, list[i], list[i-1])
		}
	}
}

func TestTrimHelpers(t *testing.T) {
	list := []int{1, 2, 3, 4, 5}
	if got := TrimHead(list, 3); len(got) != 3 || got[0] != 3 {
		t.Fatalf("TrimHead = %v", got)
	}
	if got := TrimTail(list, 3); len(got) != 3 || got[2] != 3 {
		t.Fatalf("TrimTail = %v", got)
	}
	if got := TrimTail(list, 10); len(got) != 5 {
		t.Fatalf("TrimTail short list = %v", got)
	}
}
