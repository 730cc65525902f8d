package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	ts, err := NewTimeStringFromString("10:30")
	require.NoError(t, err)
	assert.Equal(t, "10:30", ts.String())

	for _, bad := range []string{"", "25:00", "10:60", "1030", "10:30:00", "abc"} {
		_, err := NewTimeStringFromString(bad)
		assert.ErrorIs(t, err, ErrInvalidTimeString, "input %q", bad)
	}
}

func TestTimeString_AddMinutes(t *testing.T) {
	ts := TimeString("10:30")

	shifted, err := ts.AddMinutes(60)
	require.NoError(t, err)
	assert.Equal(t, TimeString("11:30"), shifted)

	shifted, err = ts.AddMinutes(45)
	require.NoError(t, err)
	assert.Equal(t, TimeString("11:15"), shifted)

	shifted, err = ts.AddMinutes(-30)
	require.NoError(t, err)
	assert.Equal(t, TimeString("10:00"), shifted)
}

func TestTimeString_Ordering(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("10:30"))
	assert.True(t, TimeString("10:30").IsAfter("09:00"))
	assert.False(t, TimeString("10:30").IsBefore("10:30"))
	assert.False(t, TimeString("10:30").IsAfter("10:30"))
	// Лексикографическое сравнение корректно только благодаря ведущим нулям
	assert.True(t, TimeString("09:59").IsBefore("21:00"))
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan("14:30:00"))
	assert.Equal(t, TimeString("14:30"), ts)

	require.NoError(t, ts.Scan([]byte("09:00")))
	assert.Equal(t, TimeString("09:00"), ts)

	require.NoError(t, ts.Scan(time.Date(2026, 1, 1, 18, 45, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("18:45"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan(12345))
}

func TestTimeString_Value(t *testing.T) {
	v, err := TimeString("10:30").Value()
	require.NoError(t, err)
	assert.Equal(t, "10:30", v)

	v, err = TimeString("").Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = TimeString("25:99").Value()
	assert.ErrorIs(t, err, ErrInvalidTimeString)
}
