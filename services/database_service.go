package services

import (
	"context"
	"paygate/entity"
)

// Database is the optional log and audit sink.
type Database interface {
	WriteLogMessage(data Data) error
	SaveNotifyRecord(ctx context.Context, record *entity.NotifyRecord) error
}

type Data interface {
	DataType() string
}
