package cache

import (
	"testing"
	"time"
)

func TestGetSet(t *testing.T) {
	c := New(10, time.Minute)
	defer c.Close()

	if _, ok := c.Get("https://example.com/a"); ok {
		t.Fatal("empty cache reported a hit")
	}
	c.Set("https://example.com/a", "<html>a</html>")
	got, ok := c.Get("https://example.com/a")
	if !ok || got != "<html>a</html>" {
		t.Errorf("Get = %q, %v", got, ok)
	}
}

func TestExpiry(t *testing.T) {
	c := New(10, 10*time.Millisecond)
	defer c.Close()

	c.Set("u", "page")
	time.Sleep(30 * time.Millisecond)
	if _, ok := c.Get("u"); ok {
		t.Error("expired entry returned")
	}
}

func TestCapacity(t *testing.T) {
	c := New(2, time.Minute)
	defer c.Close()

	c.Set("a", "1")
	c.Set("b", "2")
	c.Set("c", "3")
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("newest entry should be present")
	}
}

func TestCloseIdempotent(t *testing.T) {
	c := New(1, time.Minute)
	c.Close()
	c.Close()
}
