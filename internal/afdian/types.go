package afdian

import (
	"encoding/json"
	"fmt"

	"afdian-bridge/internal/models"
)

// Response is the platform's common reply envelope. ec 0 is success; the
// client reports transport failures as ec -1 so callers can branch without
// handling an error path for every call.
type Response struct {
	EC   int             `json:"ec"`
	EM   string          `json:"em"`
	Data json.RawMessage `json:"data,omitempty"`
}

// APIError carries a failed envelope back to the caller.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("afdian api error %d: %s", e.Code, e.Message)
}

// Request parameter objects. Field order matters: the JSON produced here is
// the exact string covered by the signature, and the platform verifies it
// byte for byte.

type pingParams struct {
	A int `json:"a"`
}

type queryOrderParams struct {
	Page       int    `json:"page"`
	PerPage    int    `json:"per_page"`
	OutTradeNo string `json:"out_trade_no,omitempty"`
}

type querySponsorParams struct {
	Page    int    `json:"page"`
	UserID  string `json:"user_id"`
	PerPage int    `json:"per_page"`
}

// requestBody is the signed outbound POST body.
type requestBody struct {
	UserID string `json:"user_id"`
	Params string `json:"params"`
	TS     int64  `json:"ts"`
	Sign   string `json:"sign"`
}

type orderListData struct {
	List       []models.OrderPayload `json:"list"`
	TotalCount int                   `json:"total_count"`
	TotalPage  int                   `json:"total_page"`
}

// SponsorPlan is a purchasable tier as reported in sponsor queries.
type SponsorPlan struct {
	Name  string            `json:"name"`
	Price models.FlexString `json:"price"`
}

// SponsorUser identifies a backer.
type SponsorUser struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// Sponsor is one backer entry from /query-sponsor.
type Sponsor struct {
	User         SponsorUser       `json:"user"`
	AllSumAmount models.FlexString `json:"all_sum_amount"`
	CurrentPlan  SponsorPlan       `json:"current_plan"`
	SponsorPlans []SponsorPlan     `json:"sponsor_plans"`
	FirstPayTime int64             `json:"first_pay_time"`
	LastPayTime  int64             `json:"last_pay_time"`
}

// SponsorData is the data object of a /query-sponsor response.
type SponsorData struct {
	TotalCount int       `json:"total_count"`
	TotalPage  int       `json:"total_page"`
	List       []Sponsor `json:"list"`
}
