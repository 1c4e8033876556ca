package repository

import (
	"strings"
	"testing"
)

func TestRoomSortKey(t *testing.T) {
	if got := RoomSortKey(3); got != "ROOMID#3" {
		t.Errorf("RoomSortKey(3) = %q, want %q", got, "ROOMID#3")
	}
}

func TestAggregatePartitionKey(t *testing.T) {
	if got := AggregatePartitionKey("a1b2c3d4e5f60708"); got != "BOOKING#a1b2c3d4e5f60708" {
		t.Errorf("AggregatePartitionKey = %q", got)
	}
}

func TestLineSortKey(t *testing.T) {
	tests := []struct {
		name      string
		bookingID string
		firstName string
		index     int
		want      string
	}{
		{"first line", "a1b2", "Billy", 1, "ROOM#a1b2#Billy#1"},
		{"third line", "a1b2", "Anna", 3, "ROOM#a1b2#Anna#3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LineSortKey(tt.bookingID, tt.firstName, tt.index)
			if got != tt.want {
				t.Errorf("LineSortKey = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLineSortKeyPrefixMatchesLineKeys(t *testing.T) {
	prefix := LineSortKeyPrefix("a1b2")

	for _, sk := range []string{
		LineSortKey("a1b2", "Billy", 1),
		LineSortKey("a1b2", "Billy", 2),
	} {
		if !strings.HasPrefix(sk, prefix) {
			t.Errorf("line key %q does not start with prefix %q", sk, prefix)
		}
	}

	// A booking whose ID extends another's must not fall inside the range.
	other := LineSortKey("a1b2c3", "Billy", 1)
	if strings.HasPrefix(other, prefix) {
		t.Errorf("line key %q of a different booking matches prefix %q", other, prefix)
	}
}
