package models

import (
	"encoding/json"
	"testing"
)

func TestFlexStringAcceptsStringAndNumber(t *testing.T) {
	var v struct {
		A FlexString `json:"a"`
		B FlexString `json:"b"`
		C FlexString `json:"c"`
	}
	if err := json.Unmarshal([]byte(`{"a":"9.9","b":5,"c":null}`), &v); err != nil {
		t.Fatal(err)
	}
	if v.A.Float() != 9.9 {
		t.Errorf("a = %v, want 9.9", v.A.Float())
	}
	if v.B.Float() != 5 {
		t.Errorf("b = %v, want 5", v.B.Float())
	}
	if v.C.Float() != 0 {
		t.Errorf("c = %v, want 0", v.C.Float())
	}
}

func TestFlexStringFloatFallback(t *testing.T) {
	if got := FlexString("abc").Float(); got != 0.0 {
		t.Errorf("Float(abc) = %v, want 0.0", got)
	}
	if got := FlexString("").Float(); got != 0.0 {
		t.Errorf("Float() = %v, want 0.0", got)
	}
}

func TestToOrderDefaults(t *testing.T) {
	p := &OrderPayload{OutTradeNo: "X1"}
	order := p.ToOrder()

	if order.OutTradeNo != "X1" {
		t.Errorf("out_trade_no = %q", order.OutTradeNo)
	}
	if order.TotalAmount != 0.0 || order.ShowAmount != 0.0 || order.Discount != 0.0 {
		t.Error("missing amounts should default to 0.0")
	}
	if order.Month != 0 || order.Status != 0 {
		t.Error("missing ints should default to 0")
	}
	if order.SkuDetail != "[]" {
		t.Errorf("sku_detail = %q, want []", order.SkuDetail)
	}
}

func TestToOrderSkuRoundTrip(t *testing.T) {
	p := &OrderPayload{
		OutTradeNo: "X1",
		SkuDetail: []SkuItem{
			{SkuID: "s1", Name: "Sticker", Count: 2},
		},
	}
	order := p.ToOrder()

	skus := order.Skus()
	if len(skus) != 1 {
		t.Fatalf("got %d skus, want 1", len(skus))
	}
	if skus[0].Name != "Sticker" || skus[0].Count != 2 || skus[0].SkuID != "s1" {
		t.Errorf("unexpected sku: %+v", skus[0])
	}
}

func TestWebhookNotificationEnvelope(t *testing.T) {
	body := `{"data":{"order":{"out_trade_no":"X1","create_time":1690000000,"total_amount":"9.9"}}}`
	var n WebhookNotification
	if err := json.Unmarshal([]byte(body), &n); err != nil {
		t.Fatal(err)
	}
	if n.Data.Order == nil {
		t.Fatal("order missing")
	}

	order := n.Data.Order.ToOrder()
	if order.OutTradeNo != "X1" || order.CreateTime != 1690000000 || order.TotalAmount != 9.9 {
		t.Errorf("unexpected order: %+v", order)
	}
}

func TestWebhookNotificationWithoutOrder(t *testing.T) {
	var n WebhookNotification
	if err := json.Unmarshal([]byte(`{"data":{}}`), &n); err != nil {
		t.Fatal(err)
	}
	if n.Data.Order != nil {
		t.Error("expected nil order for connectivity test body")
	}
}
