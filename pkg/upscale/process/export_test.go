package process

import "time"

func OverloadNow(f func() time.Time) func() {
	ref := now
	now = f
	return func() { now = ref }
}
