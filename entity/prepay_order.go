package entity

import "fmt"

// PrepayOrder is an order placed through the prepay endpoint.
type PrepayOrder struct {
	// Description shown to the payer
	Description string `json:"description"`
	// OutTradeNo is the merchant order number, unique per merchant (6-32 characters)
	OutTradeNo string `json:"out_trade_no"`
	// Amount in fen (e.g. 100 = 1.00 CNY)
	Amount int `json:"amount"`
	// PayerOpenId identifies the payer within the merchant app
	PayerOpenId string `json:"payer_openid"`
	// ClientIp of the payer, required by the V2 unified order
	ClientIp string `json:"client_ip"`
	// NotifyUrl overrides the configured callback url
	NotifyUrl string `json:"notify_url,omitempty"`
}

func (o *PrepayOrder) Validate() error {
	if o.OutTradeNo == "" {
		return fmt.Errorf("empty out_trade_no")
	}
	if o.Description == "" {
		return fmt.Errorf("empty description")
	}
	if o.Amount <= 0 {
		return fmt.Errorf("invalid amount %d", o.Amount)
	}
	if o.PayerOpenId == "" {
		return fmt.Errorf("empty payer openid")
	}
	return nil
}
