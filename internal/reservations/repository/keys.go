package repository

import "fmt"

// The stores share one logical key design: every document carries a
// partition key and a sort key, unique as a pair.
//
//	room type         pk="ROOM"                sk="ROOMID#<roomTypeID>"
//	booking aggregate pk="BOOKING#<bookingID>" sk="TOTAL"
//	booking line      pk="BOOKING"             sk="ROOM#<bookingID>#<firstName>#<index>"
//
// The line sort-key prefix "ROOM#<bookingID>#" gives a range lookup of all
// lines belonging to one booking.
const (
	RoomPartition    = "ROOM"
	LinePartition    = "BOOKING"
	AggregateSortKey = "TOTAL"
)

func RoomSortKey(roomTypeID int) string {
	return fmt.Sprintf("ROOMID#%d", roomTypeID)
}

func AggregatePartitionKey(bookingID string) string {
	return "BOOKING#" + bookingID
}

func LineSortKey(bookingID, firstName string, index int) string {
	return fmt.Sprintf("ROOM#%s#%s#%d", bookingID, firstName, index)
}

func LineSortKeyPrefix(bookingID string) string {
	return "ROOM#" + bookingID + "#"
}
