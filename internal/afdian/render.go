package afdian

import (
	"fmt"
	"strings"
	"time"

	"afdian-bridge/internal/models"
)

func formatTime(ts int64) string {
	if ts == 0 {
		return ""
	}
	return time.Unix(ts, 0).Format("2006-01-02 15:04:05")
}

func appendField(lines []string, label, value string) []string {
	if value == "" || value == "0" || value == "N/A" {
		return lines
	}
	return append(lines, fmt.Sprintf("- %s: %s", label, value))
}

// FormatOrder renders an order into the human-readable notification text.
// Empty fields are skipped.
func FormatOrder(order *models.Order) string {
	lines := []string{"Order received:"}
	lines = appendField(lines, "Trade No", order.OutTradeNo)
	lines = appendField(lines, "Plan", order.PlanTitle)
	lines = appendField(lines, "User", order.UserName)
	lines = appendField(lines, "User ID", order.UserID)
	lines = appendField(lines, "Plan ID", order.PlanID)
	if order.Month > 0 {
		lines = append(lines, fmt.Sprintf("- Duration: %d month(s)", order.Month))
	}
	if order.TotalAmount > 0 {
		lines = append(lines, fmt.Sprintf("- Total: %.2f", order.TotalAmount))
	}
	lines = append(lines, fmt.Sprintf("- Status: %d", order.Status))
	if order.Discount > 0 {
		lines = append(lines, fmt.Sprintf("- Discount: %.2f", order.Discount))
	}
	lines = appendField(lines, "Remark", order.Remark)
	lines = appendField(lines, "Redeem ID", order.RedeemID)
	lines = appendField(lines, "Created", formatTime(order.CreateTime))

	if skus := order.Skus(); len(skus) > 0 {
		lines = append(lines, "SKU list:")
		for _, sku := range skus {
			lines = append(lines, fmt.Sprintf("  - %s x %d (SKU ID: %s)", sku.Name, sku.Count, sku.SkuID))
		}
	}

	return strings.Join(lines, "\n")
}

// FormatSponsors renders each backer entry of a sponsor query.
func FormatSponsors(data *SponsorData) []string {
	formatted := make([]string, 0, len(data.List))
	for _, item := range data.List {
		lines := []string{
			fmt.Sprintf("Sponsor: %s (ID: %s)", item.User.Name, item.User.UserID),
			fmt.Sprintf("Current plan: %s (%.2f)", item.CurrentPlan.Name, item.CurrentPlan.Price.Float()),
			fmt.Sprintf("First paid: %s", formatTime(item.FirstPayTime)),
			fmt.Sprintf("Last paid: %s", formatTime(item.LastPayTime)),
			fmt.Sprintf("Total sponsored: %.2f", item.AllSumAmount.Float()),
		}
		formatted = append(formatted, strings.Join(lines, "\n"))
	}
	return formatted
}
