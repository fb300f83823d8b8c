package database

import (
	"errors"

	"afdian-bridge/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderStore persists Afdian orders. The only mutation is a whole-row upsert
// keyed by out_trade_no; the platform is the source of truth, so the latest
// notification always wins.
type OrderStore struct {
	db *gorm.DB
}

// NewOrderStore creates an order store on the given connection.
func NewOrderStore(db *gorm.DB) *OrderStore {
	return &OrderStore{db: db}
}

// SaveOrder 保存订单（按 out_trade_no 整行覆盖）
func (s *OrderStore) SaveOrder(order *models.Order) error {
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "out_trade_no"}},
		UpdateAll: true,
	}).Create(order).Error
}

// GetAllOrders 获取所有订单（按时间降序）
func (s *OrderStore) GetAllOrders() ([]models.Order, error) {
	var orders []models.Order
	err := s.db.Order("create_time DESC").Find(&orders).Error
	return orders, err
}

// GetOrderByID 根据订单号获取订单; returns nil when the order is unknown.
func (s *OrderStore) GetOrderByID(outTradeNo string) (*models.Order, error) {
	var order models.Order
	err := s.db.Where("out_trade_no = ?", outTradeNo).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetOrdersByUser 获取指定用户的所有订单
func (s *OrderStore) GetOrdersByUser(userID string) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.Where("user_id = ?", userID).Order("create_time DESC").Find(&orders).Error
	return orders, err
}

// GetOrdersByStatus 按订单状态筛选
func (s *OrderStore) GetOrdersByStatus(status int) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.Where("status = ?", status).Order("create_time DESC").Find(&orders).Error
	return orders, err
}
