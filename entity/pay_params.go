package entity

import "fmt"

const (
	SignTypeMD5 = "MD5"
	SignTypeRSA = "RSA"
)

// PrepayResult is a successful order response from the gateway.
type PrepayResult map[string]any

// PrepayId returns the prepay_id value, or an empty string when absent.
func (p PrepayResult) PrepayId() string {
	value, ok := p["prepay_id"]
	if !ok || value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}

// PayerParams are handed to the payer's client to open the payment sheet.
type PayerParams struct {
	TimeStamp string `json:"timeStamp"`
	NonceStr  string `json:"nonceStr"`
	Package   string `json:"package"`
	SignType  string `json:"signType"`
	PaySign   string `json:"paySign"`
}
