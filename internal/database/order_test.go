package database

import (
	"os"
	"path/filepath"
	"testing"

	"afdian-bridge/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestStore creates an order store on a temp-dir SQLite database.
func newTestStore(t *testing.T) *OrderStore {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "order-store-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	db, err := gorm.Open(sqlite.Open(filepath.Join(tmpDir, "orders.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	if err := db.AutoMigrate(&models.Order{}); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return NewOrderStore(db)
}

func TestSaveOrderUpsertIsIdempotent(t *testing.T) {
	store := newTestStore(t)

	first := &models.Order{OutTradeNo: "X1", Status: 1, TotalAmount: 9.9, Remark: "42", CreateTime: 1690000000}
	if err := store.SaveOrder(first); err != nil {
		t.Fatal(err)
	}

	second := &models.Order{OutTradeNo: "X1", Status: 2, TotalAmount: 19.9, CreateTime: 1690000000}
	if err := store.SaveOrder(second); err != nil {
		t.Fatal(err)
	}

	orders, err := store.GetAllOrders()
	if err != nil {
		t.Fatal(err)
	}
	if len(orders) != 1 {
		t.Fatalf("got %d rows, want 1", len(orders))
	}

	got := orders[0]
	if got.Status != 2 {
		t.Errorf("status = %d, want 2", got.Status)
	}
	if got.TotalAmount != 19.9 {
		t.Errorf("total_amount = %v, want 19.9", got.TotalAmount)
	}
	// Whole-row replace: fields absent from the second save are cleared
	if got.Remark != "" {
		t.Errorf("remark = %q, want empty after replacement", got.Remark)
	}
}

func TestGetAllOrdersDescendingByCreateTime(t *testing.T) {
	store := newTestStore(t)

	times := []int64{1690000100, 1690000300, 1690000200}
	for i, ts := range times {
		order := &models.Order{OutTradeNo: "X" + string(rune('A'+i)), CreateTime: ts}
		if err := store.SaveOrder(order); err != nil {
			t.Fatal(err)
		}
	}

	orders, err := store.GetAllOrders()
	if err != nil {
		t.Fatal(err)
	}
	if len(orders) != 3 {
		t.Fatalf("got %d rows, want 3", len(orders))
	}
	for i := 1; i < len(orders); i++ {
		if orders[i-1].CreateTime < orders[i].CreateTime {
			t.Fatalf("orders not in descending create_time order: %v", orders)
		}
	}
}

func TestGetOrderByID(t *testing.T) {
	store := newTestStore(t)

	if err := store.SaveOrder(&models.Order{OutTradeNo: "X1", CreateTime: 1}); err != nil {
		t.Fatal(err)
	}

	order, err := store.GetOrderByID("X1")
	if err != nil {
		t.Fatal(err)
	}
	if order == nil || order.OutTradeNo != "X1" {
		t.Fatalf("unexpected order: %+v", order)
	}

	missing, err := store.GetOrderByID("nope")
	if err != nil {
		t.Fatal(err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown id, got %+v", missing)
	}
}

func TestGetOrdersByUserAndStatus(t *testing.T) {
	store := newTestStore(t)

	seed := []*models.Order{
		{OutTradeNo: "X1", UserID: "u1", Status: 2, CreateTime: 3},
		{OutTradeNo: "X2", UserID: "u1", Status: 1, CreateTime: 2},
		{OutTradeNo: "X3", UserID: "u2", Status: 2, CreateTime: 1},
	}
	for _, o := range seed {
		if err := store.SaveOrder(o); err != nil {
			t.Fatal(err)
		}
	}

	byUser, err := store.GetOrdersByUser("u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(byUser) != 2 || byUser[0].OutTradeNo != "X1" || byUser[1].OutTradeNo != "X2" {
		t.Errorf("unexpected user orders: %+v", byUser)
	}

	byStatus, err := store.GetOrdersByStatus(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(byStatus) != 2 || byStatus[0].OutTradeNo != "X1" || byStatus[1].OutTradeNo != "X3" {
		t.Errorf("unexpected status orders: %+v", byStatus)
	}
}

func TestSaveCoercedPayloadStoresZeroAmount(t *testing.T) {
	store := newTestStore(t)

	payload := &models.OrderPayload{OutTradeNo: "X1", TotalAmount: "abc", CreateTime: 1}
	if err := store.SaveOrder(payload.ToOrder()); err != nil {
		t.Fatal(err)
	}

	order, err := store.GetOrderByID("X1")
	if err != nil {
		t.Fatal(err)
	}
	if order.TotalAmount != 0.0 {
		t.Errorf("total_amount = %v, want 0.0", order.TotalAmount)
	}
}
