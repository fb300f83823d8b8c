package models

import (
	"encoding/json"
	"strconv"
)

// FlexString accepts a JSON string or a bare number. The platform is not
// consistent about quoting monetary fields.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler
func (s *FlexString) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = FlexString(v)
		return nil
	}
	if string(data) == "null" {
		*s = ""
		return nil
	}
	*s = FlexString(data)
	return nil
}

// Float converts the value, falling back to 0.0 when it does not parse.
func (s FlexString) Float() float64 {
	f, err := strconv.ParseFloat(string(s), 64)
	if err != nil {
		return 0.0
	}
	return f
}

// SkuItem is one purchased line item inside an order.
type SkuItem struct {
	SkuID string `json:"sku_id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// OrderPayload is the order object as the platform delivers it, either in a
// webhook notification or in a query-order response. All defaulting happens
// in ToOrder, not at read sites.
type OrderPayload struct {
	OutTradeNo     string     `json:"out_trade_no"`
	UserID         string     `json:"user_id"`
	UserName       string     `json:"user_name"`
	UserPrivateID  string     `json:"user_private_id"`
	PlanID         string     `json:"plan_id"`
	PlanTitle      string     `json:"plan_title"`
	Month          int        `json:"month"`
	TotalAmount    FlexString `json:"total_amount"`
	ShowAmount     FlexString `json:"show_amount"`
	Status         int        `json:"status"`
	ProductType    int        `json:"product_type"`
	Discount       FlexString `json:"discount"`
	Remark         string     `json:"remark"`
	RedeemID       string     `json:"redeem_id"`
	SkuDetail      []SkuItem  `json:"sku_detail"`
	AddressPerson  string     `json:"address_person"`
	AddressPhone   string     `json:"address_phone"`
	AddressAddress string     `json:"address_address"`
	CreateTime     int64      `json:"create_time"`
}

// ToOrder builds the typed row, applying safe defaults: empty strings and
// zeros for missing fields, 0.0 for unparsable amounts, "[]" for a missing
// sku list.
func (p *OrderPayload) ToOrder() *Order {
	skuDetail := "[]"
	if len(p.SkuDetail) > 0 {
		if data, err := json.Marshal(p.SkuDetail); err == nil {
			skuDetail = string(data)
		}
	}

	return &Order{
		OutTradeNo:     p.OutTradeNo,
		UserID:         p.UserID,
		UserName:       p.UserName,
		UserPrivateID:  p.UserPrivateID,
		PlanID:         p.PlanID,
		PlanTitle:      p.PlanTitle,
		Month:          p.Month,
		TotalAmount:    p.TotalAmount.Float(),
		ShowAmount:     p.ShowAmount.Float(),
		Status:         p.Status,
		ProductType:    p.ProductType,
		Discount:       p.Discount.Float(),
		Remark:         p.Remark,
		RedeemID:       p.RedeemID,
		SkuDetail:      skuDetail,
		AddressPerson:  p.AddressPerson,
		AddressPhone:   p.AddressPhone,
		AddressAddress: p.AddressAddress,
		CreateTime:     p.CreateTime,
	}
}

// Skus decodes the stored sku_detail column back into line items.
func (o *Order) Skus() []SkuItem {
	var items []SkuItem
	if o.SkuDetail == "" {
		return items
	}
	if err := json.Unmarshal([]byte(o.SkuDetail), &items); err != nil {
		return nil
	}
	return items
}

// WebhookNotification is the inbound webhook envelope. A notification with no
// order is a connectivity test from the platform.
type WebhookNotification struct {
	Data struct {
		Order *OrderPayload `json:"order"`
	} `json:"data"`
}
