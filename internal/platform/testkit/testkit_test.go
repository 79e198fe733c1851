package testkit

import "testing"

func TestMustPanicAndNotPanic(t *testing.T) {
	MustPanic(t, func() { panic("boom") })
	MustNotPanic(t, func() {})
}

func TestMustContain(t *testing.T) {
	MustContain(t, "subject=Santé count=2", "count=2")
}

func TestMustNear(t *testing.T) {
	MustNear(t, "third", 1.0/3.0, 0.3333333333333333)
}
