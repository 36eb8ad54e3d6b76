package enum

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("create a enum of string", func(t *testing.T) {
		type EnumString string

		bar := New(EnumString("bar"))
		foo := New(EnumString("foo"))
		require.Equal(t, EnumString("bar"), bar)

		v, err := ToEnum[EnumString]("bar")
		require.NoError(t, err)
		require.Equal(t, bar, v)

		_, err = ToEnum[EnumString]("Bar")
		require.Error(t, err)

		require.Equal(t, []EnumString{bar, foo}, Values[EnumString]())
	})

	t.Run("register twice", func(t *testing.T) {
		type EnumTwice string

		New(EnumTwice("a"))
		New(EnumTwice("a"))
		require.Len(t, Values[EnumTwice](), 1)
	})

	t.Run("unknown type", func(t *testing.T) {
		type EnumUnknown string

		_, err := ToEnum[EnumUnknown]("a")
		require.Error(t, err)
		require.Nil(t, Values[EnumUnknown]())
	})
}
