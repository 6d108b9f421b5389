package service

import (
	"testing"

	"github.com/ciftci/ciftci-backend/internal/app/model"
	"github.com/ciftci/ciftci-backend/internal/app/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCategoryServiceTest(t *testing.T) (CategoryService, *gorm.DB) {
	testDB := setupTestDB(t)
	return NewCategoryService(testDB, repository.NewCategoryRepository(testDB), repository.NewProductRepository(testDB)), testDB
}

func TestCategoryService_CategoriesWithSubs(t *testing.T) {
	svc, _ := setupCategoryServiceTest(t)

	fruit, err := svc.CreateCategory(CategoryInput{Name: "Meyve"})
	require.NoError(t, err)
	grain, err := svc.CreateCategory(CategoryInput{Name: "Tahıl"})
	require.NoError(t, err)

	apple, err := svc.CreateSubCategory(SubCategoryInput{Name: "Elma", CategoryID: fruit.ID})
	require.NoError(t, err)
	require.NotNil(t, apple.Category)
	assert.Equal(t, "Meyve", apple.Category.Name)

	_, err = svc.CreateSubCategory(SubCategoryInput{Name: "Hayalet", CategoryID: 9999})
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	categories, err := svc.GetCategories()
	require.NoError(t, err)
	require.Len(t, categories, 2)
	for _, c := range categories {
		switch c.ID {
		case fruit.ID:
			require.Len(t, c.SubCategories, 1)
			assert.Equal(t, "Elma", c.SubCategories[0].Name)
		case grain.ID:
			assert.NotNil(t, c.SubCategories)
			assert.Empty(t, c.SubCategories)
		}
	}

	subs, err := svc.GetSubCategoriesByCategory(fruit.ID)
	require.NoError(t, err)
	assert.Len(t, subs, 1)

	_, err = svc.GetSubCategoriesByCategory(9999)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestCategoryService_UpdateSubCategoryMovesCategory(t *testing.T) {
	svc, _ := setupCategoryServiceTest(t)

	fruit, err := svc.CreateCategory(CategoryInput{Name: "Meyve"})
	require.NoError(t, err)
	veg, err := svc.CreateCategory(CategoryInput{Name: "Sebze"})
	require.NoError(t, err)
	sub, err := svc.CreateSubCategory(SubCategoryInput{Name: "Domates", CategoryID: fruit.ID})
	require.NoError(t, err)

	moved, err := svc.UpdateSubCategory(sub.ID, SubCategoryInput{Name: "Domates", CategoryID: veg.ID})
	require.NoError(t, err)
	assert.Equal(t, veg.ID, moved.CategoryID)
	assert.Equal(t, "Sebze", moved.Category.Name)

	_, err = svc.UpdateSubCategory(sub.ID, SubCategoryInput{Name: "Domates", CategoryID: 9999})
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	_, err = svc.UpdateSubCategory(9999, SubCategoryInput{Name: "X", CategoryID: veg.ID})
	assert.ErrorIs(t, err, ErrSubCategoryNotFound)
}

func TestCategoryService_DeleteRules(t *testing.T) {
	svc, testDB := setupCategoryServiceTest(t)
	farmer := createUser(t, testDB, "farmer", model.UserTypeFarmer)

	used := createCategory(t, testDB, "Meyve")
	usedSub := createSubCategory(t, testDB, "Elma", used.ID)
	product := createProduct(t, testDB, "Amasya elması", farmer, used, model.ProductStatusAvailable)
	require.NoError(t, testDB.Model(product).Update("sub_category_id", usedSub.ID).Error)

	free := createCategory(t, testDB, "Baklagil")
	freeSub := createSubCategory(t, testDB, "Nohut", free.ID)

	t.Run("category with products is kept", func(t *testing.T) {
		assert.ErrorIs(t, svc.DeleteCategory(used.ID), ErrCategoryInUse)
		_, err := svc.GetCategory(used.ID)
		assert.NoError(t, err)
	})

	t.Run("subcategory with products is kept", func(t *testing.T) {
		assert.ErrorIs(t, svc.DeleteSubCategory(usedSub.ID), ErrSubCategoryInUse)
	})

	t.Run("free category cascades to subcategories", func(t *testing.T) {
		require.NoError(t, svc.DeleteCategory(free.ID))

		_, err := svc.GetCategory(free.ID)
		assert.ErrorIs(t, err, ErrCategoryNotFound)
		_, err = svc.GetSubCategory(freeSub.ID)
		assert.ErrorIs(t, err, ErrSubCategoryNotFound)
	})

	t.Run("missing ids", func(t *testing.T) {
		assert.ErrorIs(t, svc.DeleteCategory(9999), ErrCategoryNotFound)
		assert.ErrorIs(t, svc.DeleteSubCategory(9999), ErrSubCategoryNotFound)
	})
}
