package repository

import (
	"testing"

	"github.com/ciftci/ciftci-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCategoryRepository_DeleteWithSubCategories(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewCategoryRepository(testDB)

	sebze := createCategory(t, testDB, "Sebze")
	meyve := createCategory(t, testDB, "Meyve")
	createSubCategory(t, testDB, "Domates", sebze.ID)
	createSubCategory(t, testDB, "Biber", sebze.ID)
	elma := createSubCategory(t, testDB, "Elma", meyve.ID)

	require.NoError(t, repo.DeleteWithSubCategories(sebze.ID))

	subs, err := repo.FindAllSub()
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, elma.ID, subs[0].ID)
	require.NotNil(t, subs[0].Category)
	assert.Equal(t, "Meyve", subs[0].Category.Name)

	assert.ErrorIs(t, repo.DeleteWithSubCategories(sebze.ID), gorm.ErrRecordNotFound)
}

func TestCategoryRepository_SubCategoryCRUD(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewCategoryRepository(testDB)

	sebze := createCategory(t, testDB, "Sebze")
	meyve := createCategory(t, testDB, "Meyve")

	sub := &model.ProductSubCategory{Name: "Domates", CategoryID: sebze.ID}
	require.NoError(t, repo.CreateSub(sub))

	sub.CategoryID = meyve.ID
	sub.Name = "Çilek"
	require.NoError(t, repo.UpdateSub(sub))

	found, err := repo.FindSubByID(sub.ID)
	require.NoError(t, err)
	assert.Equal(t, "Çilek", found.Name)
	assert.Equal(t, "Meyve", found.Category.Name)

	bySebze, err := repo.FindSubsByCategory(sebze.ID)
	require.NoError(t, err)
	assert.Empty(t, bySebze)

	require.NoError(t, repo.DeleteSub(sub.ID))
	assert.ErrorIs(t, repo.DeleteSub(sub.ID), gorm.ErrRecordNotFound)
}
