package idx_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/talentgate/authcore/pkg/idx"
)

func TestNewProducesValidULIDs(t *testing.T) {
	t.Parallel()

	a := idx.New()
	b := idx.New()

	require.False(t, a.IsZero())
	require.False(t, b.IsZero())
	require.NotEqual(t, a, b)

	_, err := idx.Parse(a.String())
	require.NoError(t, err)
}

func TestNewAtOrdersByTime(t *testing.T) {
	t.Parallel()

	early := idx.NewAt(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	late := idx.NewAt(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	require.Less(t, early.String(), late.String())
	require.Equal(t, 2024, early.Time().Year())
}

func TestParseRejectsGarbage(t *testing.T) {
	t.Parallel()

	for _, bad := range []string{"", "   ", "not-a-ulid", "0123"} {
		_, err := idx.Parse(bad)
		require.ErrorIs(t, err, idx.ErrInvalid)
	}
}

func TestMustParseRoundTrip(t *testing.T) {
	t.Parallel()

	id := idx.New()
	require.Equal(t, id, idx.MustParse(id.String()))
}
