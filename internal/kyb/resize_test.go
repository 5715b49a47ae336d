package kyb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResizeOwnersPreservesExistingEntries(t *testing.T) {
	owners := BeneficialOwners{
		NumberOfOwners: 1,
		OwnersList:     []BeneficialOwner{{FullName: "Ada Lovelace", OwnershipPercentage: 60}},
	}

	grown := ResizeOwners(owners, 3)
	require.Len(t, grown.OwnersList, 3)
	assert.Equal(t, 3, grown.NumberOfOwners)
	assert.Equal(t, "Ada Lovelace", grown.OwnersList[0].FullName)
	assert.Equal(t, float64(60), grown.OwnersList[0].OwnershipPercentage)
	assert.Equal(t, float64(25), grown.OwnersList[1].OwnershipPercentage)
	assert.Equal(t, float64(25), grown.OwnersList[2].OwnershipPercentage)
}

func TestResizeTruncatesExtras(t *testing.T) {
	directors := Directors{
		NumberOfDirectors: 3,
		DirectorsList: []Director{
			{FullName: "One", Position: "Director"},
			{FullName: "Two", Position: "Senior Manager"},
			{FullName: "Three", Position: "Director"},
		},
	}

	shrunk := ResizeDirectors(directors, 1)
	require.Len(t, shrunk.DirectorsList, 1)
	assert.Equal(t, "One", shrunk.DirectorsList[0].FullName)
	assert.Equal(t, 1, shrunk.NumberOfDirectors)
}

func TestResizePadsWithDefaults(t *testing.T) {
	grown := ResizeDirectors(Directors{}, 2)
	require.Len(t, grown.DirectorsList, 2)
	for _, d := range grown.DirectorsList {
		assert.Equal(t, "Director", d.Position)
		assert.Empty(t, d.FullName)
	}

	sigs := ResizeSignatories(AuthorizedSignatories{}, 2)
	require.Len(t, sigs.SignatoriesList, 2)
	assert.Equal(t, AuthorizedSignatory{}, sigs.SignatoriesList[0])
}

func TestResizeNegativeCountClearsList(t *testing.T) {
	owners := ResizeOwners(BeneficialOwners{OwnersList: []BeneficialOwner{{FullName: "X", OwnershipPercentage: 30}}}, -2)
	assert.Empty(t, owners.OwnersList)
	assert.Zero(t, owners.NumberOfOwners)
}
