package people

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecords() []PersonRecord {
	return []PersonRecord{
		{
			PersonID: "p1",
			FullName: "Ayşe Yılmaz",
			Phone:    "+905551234567",
			Locale:   "tr-TR",
		},
		{
			PersonID:      "p2",
			FullName:      "Mehmet Demir",
			PreferredName: "Memo",
			Phone:         "05559876543",
		},
	}
}

func testFinder() *Finder {
	return NewFinder(PhoneNormalizer{CountryCode: "90", TrunkPrefix: "0"}, 0.85)
}

func TestFindByPhone_NormalizesBothSides(t *testing.T) {
	f := testFinder()
	records := testRecords()

	rec := f.FindByPhone(records, "05551234567")
	require.NotNil(t, rec)
	assert.Equal(t, "p1", rec.PersonID)

	// Stored phone in local format still matches an E.164 query.
	rec = f.FindByPhone(records, "+905559876543")
	require.NotNil(t, rec)
	assert.Equal(t, "p2", rec.PersonID)
}

func TestFindByPhone_NoMatch(t *testing.T) {
	f := testFinder()
	assert.Nil(t, f.FindByPhone(testRecords(), "+905550000000"))
	assert.Nil(t, f.FindByPhone(testRecords(), ""))
}

func TestFindByName_ExactAndPreferred(t *testing.T) {
	f := testFinder()
	records := testRecords()

	rec := f.FindByName(records, "Ayşe Yılmaz")
	require.NotNil(t, rec)
	assert.Equal(t, "p1", rec.PersonID)

	rec = f.FindByName(records, "Memo")
	require.NotNil(t, rec)
	assert.Equal(t, "p2", rec.PersonID)
}

func TestFindByName_BelowThreshold(t *testing.T) {
	f := testFinder()
	assert.Nil(t, f.FindByName(testRecords(), "Zeynep Kaya"))
	assert.Nil(t, f.FindByName(testRecords(), ""))
}

func TestFindByName_AsciiVariantFallsUnderThreshold(t *testing.T) {
	// "Ayse Yilmaz" against "Ayşe Yılmaz" scores ~0.82 under the block
	// ratio, below the 0.85 contract threshold.
	f := testFinder()
	assert.Nil(t, f.FindByName(testRecords(), "Ayse Yilmaz"))
}

func TestFindByName_TieKeepsFirstSeen(t *testing.T) {
	f := testFinder()
	records := []PersonRecord{
		{PersonID: "first", FullName: "Can Demir"},
		{PersonID: "second", FullName: "Can Demir"},
	}
	rec := f.FindByName(records, "Can Demir")
	require.NotNil(t, rec)
	assert.Equal(t, "first", rec.PersonID)
}

func TestResolve_PhoneWinsOverName(t *testing.T) {
	f := testFinder()
	records := testRecords()

	// Phone points at p1, name points at p2; phone is authoritative.
	rec, match := f.Resolve(records, "05551234567", "Mehmet Demir")
	require.NotNil(t, rec)
	assert.Equal(t, "p1", rec.PersonID)
	assert.Equal(t, MatchPhone, match)
}

func TestResolve_FallsBackToNameOnPhoneMiss(t *testing.T) {
	f := testFinder()
	rec, match := f.Resolve(testRecords(), "+905550000000", "Mehmet Demir")
	require.NotNil(t, rec)
	assert.Equal(t, "p2", rec.PersonID)
	assert.Equal(t, MatchName, match)
}

func TestResolve_NothingSupplied(t *testing.T) {
	f := testFinder()
	rec, match := f.Resolve(testRecords(), "", "")
	assert.Nil(t, rec)
	assert.Equal(t, MatchNone, match)
}

func TestExtractCandidateName(t *testing.T) {
	cases := []struct {
		message string
		want    string
	}{
		{"Merhaba, benim adım Ayşe Yılmaz", "Ayşe Yılmaz"},
		{"ben Mehmet Demir", "Mehmet Demir"},
		{"Merhaba nasılsın?", ""},
		{"", ""},
		{"ben Al", ""}, // capture too short
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ExtractCandidateName(c.message), "message %q", c.message)
	}
}

func TestToFacts_EmptyDefaults(t *testing.T) {
	facts := ToFacts(PersonRecord{PersonID: "p9"})
	assert.Equal(t, "p9", facts.PersonID)
	assert.Equal(t, "", facts.FullName)
	assert.Equal(t, "", facts.Locale)
	assert.Equal(t, "", facts.ProfileText)
}

func TestToFacts_FullProjection(t *testing.T) {
	rec := testRecords()[0]
	facts := ToFacts(rec)
	assert.Equal(t, rec.PersonID, facts.PersonID)
	assert.Equal(t, rec.FullName, facts.FullName)
	assert.Equal(t, rec.Phone, facts.Phone)
	assert.Equal(t, rec.Locale, facts.Locale)
}
