package testutil

import (
	"time"
	_ "time/tzdata"
)

// MustLocation loads a time zone from the embedded database or panics
func MustLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}
