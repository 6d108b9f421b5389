package service

import (
	"testing"

	"github.com/ciftci/ciftci-backend/internal/app/model"
	"github.com/ciftci/ciftci-backend/internal/app/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupLocationServiceTest(t *testing.T) (LocationService, *gorm.DB) {
	testDB := setupTestDB(t)
	svc := NewLocationService(
		testDB,
		repository.NewLocationRepository(testDB),
		repository.NewUserRepository(testDB),
		repository.NewProductRepository(testDB),
	)
	return svc, testDB
}

func TestLocationService_Search(t *testing.T) {
	svc, testDB := setupLocationServiceTest(t)

	for _, loc := range []model.Location{
		{Province: "Konya", District: "Karatay", Village: "Karakaya"},
		{Province: "Konya", District: "Meram", Village: "Karahuyuk"},
		{Province: "Karaman", District: "Merkez", Village: ""},
		{Province: "Bursa", District: "Karacabey", Village: "Ova"},
	} {
		loc := loc
		require.NoError(t, testDB.Create(&loc).Error)
	}

	t.Run("term too short", func(t *testing.T) {
		_, err := svc.Search("k", 10)
		assert.ErrorIs(t, err, ErrSearchTermTooShort)

		_, err = svc.Search("  a  ", 10)
		assert.ErrorIs(t, err, ErrSearchTermTooShort)
	})

	t.Run("provinces then districts then villages", func(t *testing.T) {
		results, err := svc.Search("KARA", 10)
		require.NoError(t, err)

		expected := []LocationSearchResult{
			{Text: "Karaman", Type: "province"},
			{Text: "Karacabey, Bursa", Type: "district"},
			{Text: "Karatay, Konya", Type: "district"},
			{Text: "Karahuyuk, Meram, Konya", Type: "village"},
			{Text: "Karakaya, Karatay, Konya", Type: "village"},
		}
		assert.Equal(t, expected, results)
	})

	t.Run("capped at limit", func(t *testing.T) {
		results, err := svc.Search("kara", 3)
		require.NoError(t, err)
		assert.Len(t, results, 3)
		assert.Equal(t, "province", results[0].Type)
	})

	t.Run("default limit", func(t *testing.T) {
		results, err := svc.Search("kara", 0)
		require.NoError(t, err)
		assert.Len(t, results, 5)
	})
}

func TestLocationService_CreateLocationIsIdempotent(t *testing.T) {
	svc, _ := setupLocationServiceTest(t)

	input := LocationInput{Province: "Hatay", District: "Antakya", Village: "Harbiye", Latitude: 36.1, Longitude: 36.1}

	first, created, err := svc.CreateLocation(input)
	require.NoError(t, err)
	assert.True(t, created)

	input.Latitude = 99
	second, created, err := svc.CreateLocation(input)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.InDelta(t, 36.1, second.Latitude, 1e-9)

	all, err := svc.GetLocations()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestLocationService_HierarchyLookups(t *testing.T) {
	svc, testDB := setupLocationServiceTest(t)

	for _, loc := range []model.Location{
		{Province: "Konya", District: "Meram", Village: "B"},
		{Province: "Konya", District: "Meram", Village: "A"},
		{Province: "Konya", District: "Ereğli"},
		{Province: "Adana", District: "Seyhan"},
	} {
		loc := loc
		require.NoError(t, testDB.Create(&loc).Error)
	}

	provinces, err := svc.GetProvinces()
	require.NoError(t, err)
	assert.Equal(t, []string{"Adana", "Konya"}, provinces)

	districts, err := svc.GetDistricts("Konya")
	require.NoError(t, err)
	assert.Equal(t, []string{"Ereğli", "Meram"}, districts)

	villages, err := svc.GetVillages("Konya", "Meram")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, villages)
}

func TestLocationService_UpdateAndDelete(t *testing.T) {
	svc, testDB := setupLocationServiceTest(t)

	used, _, err := svc.CreateLocation(LocationInput{Province: "Konya", District: "Meram"})
	require.NoError(t, err)
	free, _, err := svc.CreateLocation(LocationInput{Province: "Konya", District: "Selçuklu"})
	require.NoError(t, err)

	farmer := createUser(t, testDB, "farmer", model.UserTypeFarmer)
	require.NoError(t, testDB.Model(farmer).Update("location_id", used.ID).Error)

	t.Run("update", func(t *testing.T) {
		updated, err := svc.UpdateLocation(free.ID, LocationInput{Province: "Konya", District: "Selçuklu", Latitude: 38, Longitude: 32.5})
		require.NoError(t, err)
		assert.InDelta(t, 38.0, updated.Latitude, 1e-9)

		_, err = svc.UpdateLocation(9999, LocationInput{Province: "X", District: "Y"})
		assert.ErrorIs(t, err, ErrLocationNotFound)
	})

	t.Run("delete is restricted while referenced", func(t *testing.T) {
		assert.ErrorIs(t, svc.DeleteLocation(used.ID), ErrLocationInUse)

		_, err := svc.GetLocation(used.ID)
		assert.NoError(t, err)
	})

	t.Run("delete unreferenced", func(t *testing.T) {
		require.NoError(t, svc.DeleteLocation(free.ID))
		_, err := svc.GetLocation(free.ID)
		assert.ErrorIs(t, err, ErrLocationNotFound)

		assert.ErrorIs(t, svc.DeleteLocation(free.ID), ErrLocationNotFound)
	})
}
