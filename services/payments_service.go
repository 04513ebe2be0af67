package services

import (
	"context"
	"paygate/entity"
)

type Payments interface {
	Prepay(ctx context.Context, order *entity.PrepayOrder) (*entity.PayerParams, error)
	Notify(ctx context.Context, body []byte, headers entity.NotifyHeaders) (map[string]any, error)
	ApiVersion() string
}
