package services_test

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockFeed struct {
	mock.Mock
}

func (m *MockFeed) FetchProducts(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)
	products, _ := args.Get(0).([]models.Product)
	return products, args.Error(1)
}

func TestCatalogRefreshStoresFeed(t *testing.T) {
	feed := new(MockFeed)
	feed.On("FetchProducts", mock.Anything).Return([]models.Product{shirt(), jeans()}, nil)

	catalog := services.NewCatalogService(repositories.NewMockProductRepository(), feed)
	require.NoError(t, catalog.Refresh(context.Background()))

	products, err := catalog.Products(models.SeasonAll)
	require.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Empty(t, catalog.Notice())
	feed.AssertExpectations(t)
}

func TestCatalogFallsBackToDemoProducts(t *testing.T) {
	feed := new(MockFeed)
	feed.On("FetchProducts", mock.Anything).Return(nil, errors.New("network down"))

	catalog := services.NewCatalogService(repositories.NewMockProductRepository(), feed)
	err := catalog.Refresh(context.Background())
	assert.ErrorIs(t, err, services.ErrFeedUnavailable)
	assert.Equal(t, services.NoticeDemoCatalog, catalog.Notice())

	products, err := catalog.Products(models.SeasonAll)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Formal Shirt", products[0].Name)
	assert.Equal(t, 599, products[0].Price)
	assert.Equal(t, "Casual Jeans", products[1].Name)
	assert.Equal(t, 799, products[1].Price)
}

func TestCatalogKeepsLastSnapshotOnFailure(t *testing.T) {
	feed := new(MockFeed)
	feed.On("FetchProducts", mock.Anything).Return([]models.Product{shirt()}, nil).Once()
	feed.On("FetchProducts", mock.Anything).Return([]models.Product{}, nil).Once()

	catalog := services.NewCatalogService(repositories.NewMockProductRepository(), feed)
	require.NoError(t, catalog.Refresh(context.Background()))

	err := catalog.Refresh(context.Background())
	assert.ErrorIs(t, err, services.ErrFeedUnavailable)
	assert.Equal(t, services.NoticeCachedCatalog, catalog.Notice())

	products, err := catalog.Products(models.SeasonAll)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "p1", products[0].ID)
}

func TestCatalogWithoutFeedUsesDemo(t *testing.T) {
	catalog := services.NewCatalogService(repositories.NewMockProductRepository(), nil)
	assert.ErrorIs(t, catalog.Refresh(context.Background()), services.ErrFeedUnavailable)
	assert.Equal(t, services.NoticeDemoCatalog, catalog.Notice())
}

func TestCatalogSeasonFilter(t *testing.T) {
	allSeason := models.Product{ID: "p9", Name: "Dupatta", Price: 199, Season: models.SeasonAll, MinimumOrder: 1}
	feed := new(MockFeed)
	feed.On("FetchProducts", mock.Anything).Return([]models.Product{shirt(), jeans(), allSeason}, nil)

	catalog := services.NewCatalogService(repositories.NewMockProductRepository(), feed)
	require.NoError(t, catalog.Refresh(context.Background()))

	summer, err := catalog.Products(models.SeasonSummer)
	require.NoError(t, err)
	ids := []string{}
	for _, p := range summer {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"p1", "p9"}, ids)

	rainy, err := catalog.Products(models.SeasonRainy)
	require.NoError(t, err)
	require.Len(t, rainy, 1)
	assert.Equal(t, "p9", rainy[0].ID)
}

func TestCatalogProductNotFound(t *testing.T) {
	catalog := services.NewCatalogService(repositories.NewMockProductRepository(), nil)
	_ = catalog.Refresh(context.Background())

	p, err := catalog.Product("d1")
	require.NoError(t, err)
	assert.Equal(t, "Formal Shirt", p.Name)

	_, err = catalog.Product("nope")
	assert.ErrorIs(t, err, services.ErrProductNotFound)
}
