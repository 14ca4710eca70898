package entity

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func testAllowList() AllowList {
	return AllowList{
		"Bob":    {ChatID: "U-bob"},
		"Family": {ChatID: "C-family"},
	}
}

func TestAllowListContains(t *testing.T) {
	a := testAllowList()
	if !a.Contains("C-family") {
		t.Error("expected C-family to be allowed")
	}
	if a.Contains("U-alice") {
		t.Error("U-alice should not be allowed")
	}
	if a.Contains("") {
		t.Error("empty chat id should never be allowed")
	}
}

func TestAllowListResolve(t *testing.T) {
	a := testAllowList()
	id, ok := a.Resolve("Bob")
	if !ok || id != "U-bob" {
		t.Errorf("Resolve(Bob) = %q, %v", id, ok)
	}
	if _, ok := a.Resolve("Alice"); ok {
		t.Error("Resolve(Alice) should fail")
	}
}

func TestAllowListWithoutIsIdempotent(t *testing.T) {
	a := testAllowList()
	b := a.Without([]string{"Bob", "Nobody"})
	if _, ok := b["Bob"]; ok {
		t.Error("Bob not removed")
	}
	if _, ok := a["Bob"]; !ok {
		t.Error("Without must not mutate the receiver")
	}
	c := b.Without([]string{"Bob"})
	if !reflect.DeepEqual(b, c) {
		t.Errorf("removing an absent name changed the list: %v vs %v", b, c)
	}
}

func TestAllowListEntriesSorted(t *testing.T) {
	got := testAllowList().Entries()
	want := []ChatEntry{
		{DisplayName: "Bob", ChatID: "U-bob"},
		{DisplayName: "Family", ChatID: "C-family"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Entries() = %v, want %v", got, want)
	}
}

func TestConfigEntryCopyIsDeep(t *testing.T) {
	e := NewConfigEntry("token", "secret")
	e.AllowedChatIDs["Bob"] = AllowedChat{ChatID: "U-bob"}
	c := e.Copy()
	c.AllowedChatIDs["Alice"] = AllowedChat{ChatID: "U-alice"}
	if _, ok := e.AllowedChatIDs["Alice"]; ok {
		t.Error("Copy shares the allow-list map")
	}
}

func TestPendingChatLabel(t *testing.T) {
	p := PendingChat{ChatID: "Uabcdef123", Text: "hello"}
	if got := p.Label(); got != "Uabcd (hello)" {
		t.Errorf("Label() = %q", got)
	}
}

func TestChatIdNotFoundMessage(t *testing.T) {
	var err error = &ChatIdNotFound{Name: "Alice", AllowedNames: []string{"Bob"}}
	if !strings.Contains(err.Error(), "'Alice'") || !strings.Contains(err.Error(), "Bob") {
		t.Errorf("unexpected message %q", err.Error())
	}
	var nf *ChatIdNotFound
	if !errors.As(err, &nf) || nf.Name != "Alice" {
		t.Error("errors.As failed")
	}
}
