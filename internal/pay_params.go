package internal

import (
	"paygate/entity"
	"paygate/services"
	"strconv"
	"time"
)

// PayParamsBuilder produces the signed parameters a payer's client needs to open the payment sheet.
type PayParamsBuilder struct {
	appId  string
	signer services.PaySigner
	nonce  services.NonceSource
	now    func() time.Time
}

func NewPayParamsBuilder(appId string, signer services.PaySigner, nonce services.NonceSource) *PayParamsBuilder {
	return &PayParamsBuilder{
		appId:  appId,
		signer: signer,
		nonce:  nonce,
		now:    time.Now,
	}
}

func (b *PayParamsBuilder) Build(prepay entity.PrepayResult) (*entity.PayerParams, error) {
	prepayId := prepay.PrepayId()
	if prepayId == "" {
		return nil, ErrMissingPrepayId
	}

	timestamp := strconv.FormatInt(b.now().Unix(), 10)
	nonce := b.nonce.RandomString(b.signer.NonceLength())
	pkg := "prepay_id=" + prepayId

	signature, err := b.signer.PaySign(b.appId, timestamp, nonce, pkg)
	if err != nil {
		return nil, err
	}
	return &entity.PayerParams{
		TimeStamp: timestamp,
		NonceStr:  nonce,
		Package:   pkg,
		SignType:  b.signer.SignType(),
		PaySign:   signature,
	}, nil
}
