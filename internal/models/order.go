package models

// Order is a single Afdian transaction, keyed by the platform-assigned
// out_trade_no. Saving an existing out_trade_no replaces the whole row.
type Order struct {
	OutTradeNo    string  `json:"out_trade_no" gorm:"primaryKey;size:64"`
	UserID        string  `json:"user_id" gorm:"size:64;index"`
	UserName      string  `json:"user_name"`
	UserPrivateID string  `json:"user_private_id"`
	PlanID        string  `json:"plan_id" gorm:"size:64"`
	PlanTitle     string  `json:"plan_title"`
	Month         int     `json:"month"`
	TotalAmount   float64 `json:"total_amount"`
	ShowAmount    float64 `json:"show_amount"`
	Status        int     `json:"status"`
	ProductType   int     `json:"product_type"`
	Discount      float64 `json:"discount"`
	Remark        string  `json:"remark" gorm:"index"`
	RedeemID      string  `json:"redeem_id"`

	// Line items serialized as a JSON array string
	SkuDetail string `json:"sku_detail" gorm:"type:text"`

	// Physical delivery address (product_type 1)
	AddressPerson  string `json:"address_person"`
	AddressPhone   string `json:"address_phone"`
	AddressAddress string `json:"address_address"`

	// Unix timestamp assigned by the platform
	CreateTime int64 `json:"create_time" gorm:"index"`
}

// TableName 指定表名
func (Order) TableName() string {
	return "afdian_orders"
}
