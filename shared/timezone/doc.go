// Package timezone keeps the application clock and the calendar dates bookings run on.
//
// Clock values (Now, Format) follow APP_TIMEZONE. Calendar dates (ParseDate, Today,
// DateOf) are zone-less and always carried as midnight UTC, so a DATE column read back
// from postgres compares equal to the value that was written.
package timezone
