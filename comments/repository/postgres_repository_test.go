package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortColumn_HotOrBlank_MapsToLikeCount(t *testing.T) {
	assert.Equal(t, "like_count", sortColumn("hot"))
	assert.Equal(t, "like_count", sortColumn(""))
}

func TestSortColumn_ID_MapsToCreatedDate(t *testing.T) {
	assert.Equal(t, "created_date", sortColumn("id"))
}

func TestSortColumn_OtherField_QuotedVerbatim(t *testing.T) {
	assert.Equal(t, `"last_updated"`, sortColumn("last_updated"))
}

func TestSortColumn_HostileField_StaysInert(t *testing.T) {
	got := sortColumn(`x"; DROP TABLE comments; --`)
	assert.Equal(t, `"x""; DROP TABLE comments; --"`, got)
}
