// Package cache owns the read-path key space. Every cached key is built
// from one of the prefixes below, so invalidating a prefix is enough to
// drop every derived entry. Callers outside this package only ever see
// prefix strings, never the underlying store.
package cache

func PrefixBooking(bookingID string) string {
	return "booking:" + bookingID
}

func PrefixRoomAvailability(roomID string) string {
	return "room:" + roomID + ":avail"
}

func PrefixUserBookings(userID string) string {
	return "user:" + userID + ":bookings"
}
