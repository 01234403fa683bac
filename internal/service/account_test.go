package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"digital-downloads-store/internal/config"
	"digital-downloads-store/internal/model"
	"digital-downloads-store/internal/repository"
	"digital-downloads-store/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAccountService(t *testing.T) (AccountService, *gorm.DB, string) {
	t.Helper()
	db := newTestDB(t)

	privateDir := t.TempDir()
	store, err := storage.NewStore(config.Files{PrivateDir: privateDir, PreviewDir: t.TempDir()})
	require.NoError(t, err)

	svc := NewAccountService(
		repository.NewOrderRepository(db),
		repository.NewProductRepository(db),
		store,
	)
	return svc, db, privateDir
}

func placeFile(t *testing.T, db *gorm.DB, dir string, product *model.Product) {
	t.Helper()
	stored := "stored-" + product.Slug + ".zip"
	require.NoError(t, os.WriteFile(filepath.Join(dir, stored), []byte("bytes"), 0o644))
	require.NoError(t, db.Model(product).Updates(map[string]interface{}{
		"file_path": stored,
		"file_name": product.Slug + ".zip",
	}).Error)
	product.FilePath = stored
}

func TestDownload_RequiresPurchase(t *testing.T) {
	svc, db, dir := setupAccountService(t)
	user := seedUser(t, db, "user@example.com")
	product := seedProduct(t, db, "Paid Pack", "19.00")
	placeFile(t, db, dir, product)

	_, err := svc.Download(context.Background(), user.ID, product.ID)

	assert.ErrorIs(t, err, ErrPurchaseRequired)
}

func TestDownload_BuyerGetsFile(t *testing.T) {
	svc, db, dir := setupAccountService(t)
	user := seedUser(t, db, "buyer@example.com")
	product := seedProduct(t, db, "Paid Pack", "19.00")
	placeFile(t, db, dir, product)
	seedCompletedOrder(t, db, user.ID, product)

	download, err := svc.Download(context.Background(), user.ID, product.ID)
	require.NoError(t, err)

	assert.Equal(t, "paid-pack.zip", download.Name)
	assert.FileExists(t, download.Path)

	var refreshed model.Product
	require.NoError(t, db.First(&refreshed, product.ID).Error)
	assert.EqualValues(t, 1, refreshed.DownloadCount)
}

func TestDownload_FreeProductForAnyUser(t *testing.T) {
	svc, db, dir := setupAccountService(t)
	user := seedUser(t, db, "user@example.com")
	product := seedProduct(t, db, "Free Pack", "0.00")
	require.NoError(t, db.Model(product).Update("is_free", true).Error)
	placeFile(t, db, dir, product)

	_, err := svc.Download(context.Background(), user.ID, product.ID)

	assert.NoError(t, err)
}

func TestDownload_MissingFile(t *testing.T) {
	svc, db, _ := setupAccountService(t)
	user := seedUser(t, db, "buyer@example.com")
	product := seedProduct(t, db, "Paid Pack", "19.00")
	seedCompletedOrder(t, db, user.ID, product)

	_, err := svc.Download(context.Background(), user.ID, product.ID)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDashboard_ListsPurchases(t *testing.T) {
	svc, db, _ := setupAccountService(t)
	user := seedUser(t, db, "buyer@example.com")
	a := seedProduct(t, db, "Pack A", "10.00")
	b := seedProduct(t, db, "Pack B", "15.00")
	seedCompletedOrder(t, db, user.ID, a, b)

	// pending orders never count as purchases
	pending := &model.Order{UserID: user.ID, Status: model.OrderStatusPending, Total: a.Price}
	pending.Items = []model.OrderItem{{ProductID: a.ID, Price: a.Price, Quantity: 1}}
	require.NoError(t, db.Create(pending).Error)

	dashboard, err := svc.Dashboard(context.Background(), user, 1)
	require.NoError(t, err)

	assert.EqualValues(t, 1, dashboard.Orders.Total)
	assert.ElementsMatch(t, []uint{a.ID, b.ID}, dashboard.PurchasedProductIDs)
}
