package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAddAndRemoveFavourite stars a practice area page into a new
// favourites group, verifies it appears in the favourites list, then
// removes it so the pool user stays clean for the next run
func TestAddAndRemoveFavourite(t *testing.T) {
	utc := NewUITestContext(t)
	defer utc.Cleanup()

	require.NoError(t, utc.LoginAs())
	require.NoError(t, utc.Dashboard().WaitLoaded())
	require.NoError(t, utc.Dashboard().OpenPracticeArea(practiceAreaUnderTest))
	require.NoError(t, utc.PracticeArea().WaitLoaded())

	favourites := utc.Favourites()
	groupName := uniqueGroupName("uiauto")

	require.NoError(t, favourites.AddCurrentPage(groupName))
	utc.Screenshot("favourite_added")

	starred, err := favourites.IsStarred()
	require.NoError(t, err)
	assert.True(t, starred, "star icon should show active state after adding")

	require.NoError(t, favourites.OpenFavourites())
	utc.Screenshot("favourites_list")

	contains, err := favourites.Contains(practiceAreaUnderTest)
	require.NoError(t, err)
	require.True(t, contains, "favourites list should contain %q", practiceAreaUnderTest)

	require.NoError(t, favourites.Remove(practiceAreaUnderTest))
	utc.Screenshot("favourite_removed")

	contains, err = favourites.Contains(practiceAreaUnderTest)
	require.NoError(t, err)
	assert.False(t, contains, "favourite should be gone after removal")
}
