package signal

import "testing"

func TestValueGetSet(t *testing.T) {
	v := NewValue(1)
	if v.Get() != 1 {
		t.Fatalf("initial value = %d", v.Get())
	}
	v.Set(2)
	if v.Get() != 2 {
		t.Fatalf("value after set = %d", v.Get())
	}
}

func TestValueNotifiesObservers(t *testing.T) {
	v := NewValue("a")

	var seen []string
	unsubscribe := v.Subscribe(func(s string) { seen = append(seen, s) })

	v.Set("b")
	v.Set("c")
	unsubscribe()
	v.Set("d")

	if len(seen) != 2 || seen[0] != "b" || seen[1] != "c" {
		t.Errorf("observed %v, want [b c]", seen)
	}
}

func TestValueMultipleObservers(t *testing.T) {
	v := NewValue(0)

	first, second := 0, 0
	v.Subscribe(func(n int) { first = n })
	v.Subscribe(func(n int) { second = n })

	v.Set(7)
	if first != 7 || second != 7 {
		t.Errorf("observers saw %d and %d, want 7 and 7", first, second)
	}
}
