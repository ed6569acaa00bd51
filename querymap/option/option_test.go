package option

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSomeAndNothing(t *testing.T) {
	some := Some(15)
	assert.True(t, some.IsSome())
	assert.False(t, some.IsNothing())
	assert.Equal(t, 15, some.Unwrap())

	nothing := Nothing[int]()
	assert.True(t, nothing.IsNothing())
	assert.False(t, nothing.IsSome())
}

func TestUnwrapPanicsOnNothing(t *testing.T) {
	assert.Panics(t, func() {
		Nothing[int]().Unwrap()
	})
}

func TestUnwrapOr(t *testing.T) {
	assert.Equal(t, 5, Some(5).UnwrapOr(15))
	assert.Equal(t, 15, Nothing[int]().UnwrapOr(15))
}

func TestUnwrapOrElse(t *testing.T) {
	assert.Equal(t, 5, Some(5).UnwrapOrElse(func() int { return 15 }))
	assert.Equal(t, 15, Nothing[int]().UnwrapOrElse(func() int { return 15 }))
}

func TestMap(t *testing.T) {
	doubled := Map(Some(5), func(v int) int { return v * 2 })
	assert.Equal(t, 10, doubled.Unwrap())

	assert.True(t, Map(Nothing[int](), func(v int) int { return v * 2 }).IsNothing())
}

func TestOr(t *testing.T) {
	assert.Equal(t, 1, Some(1).Or(Some(2)).Unwrap())
	assert.Equal(t, 2, Nothing[int]().Or(Some(2)).Unwrap())
}

func TestString(t *testing.T) {
	assert.Equal(t, "Some(5)", Some(5).String())
	assert.Equal(t, "Nothing", Nothing[int]().String())
}
