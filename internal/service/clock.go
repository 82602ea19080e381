package service

import "time"

// Clock devuelve la hora actual; se inyecta para poder fijar el tiempo en tests.
type Clock func() time.Time

// SystemClock usa la hora del sistema en UTC.
func SystemClock() time.Time {
	return time.Now().UTC()
}

func clockOrSystem(c Clock) Clock {
	if c == nil {
		return SystemClock
	}
	return c
}
