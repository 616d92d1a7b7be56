package dispatcher

import (
	"fmt"
	"testing"
)

func TestMessageCachePrunesToRetainedTail(t *testing.T) {
	c := newMessageCache(5, 2)
	for i := range 5 {
		c.add(fmt.Sprintf("m%d", i))
	}
	if c.len() != 5 {
		t.Fatalf("len = %d, want 5 before crossing the limit", c.len())
	}
	c.add("m5")
	if c.len() != 2 {
		t.Fatalf("len = %d, want 2 after pruning", c.len())
	}
	if !c.contains("m4") || !c.contains("m5") {
		t.Fatal("expected the two most recent messages to survive")
	}
	if c.contains("m0") || c.contains("m3") {
		t.Fatal("expected older messages to be dropped")
	}
}

func TestMessageCacheIgnoresDuplicates(t *testing.T) {
	c := newMessageCache(3, 1)
	c.add("a")
	c.add("a")
	if c.len() != 1 {
		t.Fatalf("len = %d, want 1", c.len())
	}
}

func TestMessageCacheDefaults(t *testing.T) {
	c := newMessageCache(0, 0)
	if c.limit != defaultMessageLimit || c.retain != defaultMessageRetain {
		t.Fatalf("defaults = %d/%d", c.limit, c.retain)
	}
	c = newMessageCache(4, 9)
	if c.retain != 4 {
		t.Fatalf("retain = %d, want it clamped to the limit", c.retain)
	}
}
