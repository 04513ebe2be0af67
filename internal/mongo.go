package internal

import (
	"context"
	"fmt"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"log"
	"paygate/config"
	"paygate/entity"
	"paygate/services"
	"time"
)

const (
	collectionLog    = "payment_log"
	collectionNotify = "payment_notify"
)

type MongoDB struct {
	ctx              context.Context
	clientOptions    *options.ClientOptions
	database         string
	logRecordsNumber int64
}

func NewMongoClient(conf *config.Config) (*MongoDB, error) {
	if !conf.Mongo.Enabled {
		return nil, nil
	}
	connectionUri := fmt.Sprintf("mongodb://%s:%s", conf.Mongo.Host, conf.Mongo.Port)
	clientOptions := options.Client().ApplyURI(connectionUri)
	if conf.Mongo.User != "" {
		clientOptions.SetAuth(options.Credential{
			Username:   conf.Mongo.User,
			Password:   conf.Mongo.Password,
			AuthSource: conf.Mongo.Database,
		})
	}
	client := &MongoDB{
		ctx:              context.Background(),
		clientOptions:    clientOptions,
		database:         conf.Mongo.Database,
		logRecordsNumber: conf.LogRecords,
	}
	return client, nil
}

func (m *MongoDB) connect(ctx context.Context) (*mongo.Client, error) {
	connection, err := mongo.Connect(ctx, m.clientOptions)
	if err != nil {
		return nil, err
	}
	return connection, nil
}

func (m *MongoDB) disconnect(ctx context.Context, connection *mongo.Client) {
	err := connection.Disconnect(ctx)
	if err != nil {
		log.Println("mongodb disconnect error", err)
	}
}

// WriteLogMessage stores a log record; with log_records set, the collection is
// created capped to that many documents.
func (m *MongoDB) WriteLogMessage(data services.Data) error {
	ctx, cancel := context.WithTimeout(m.ctx, 5*time.Second)
	defer cancel()

	connection, err := m.connect(ctx)
	if err != nil {
		return err
	}
	defer m.disconnect(ctx, connection)

	database := connection.Database(m.database)
	if m.logRecordsNumber > 0 {
		m.ensureCapped(ctx, database)
	}
	_, err = database.Collection(collectionLog).InsertOne(ctx, data)
	return err
}

func (m *MongoDB) ensureCapped(ctx context.Context, database *mongo.Database) {
	names, err := database.ListCollectionNames(ctx, bson.D{{"name", collectionLog}})
	if err != nil || len(names) > 0 {
		return
	}
	opts := options.CreateCollection().
		SetCapped(true).
		SetMaxDocuments(m.logRecordsNumber).
		SetSizeInBytes(m.logRecordsNumber * 1024)
	if err = database.CreateCollection(ctx, collectionLog, opts); err != nil {
		log.Println("mongodb create capped collection error", err)
	}
}

func (m *MongoDB) SaveNotifyRecord(ctx context.Context, record *entity.NotifyRecord) error {
	connection, err := m.connect(ctx)
	if err != nil {
		return err
	}
	defer m.disconnect(ctx, connection)

	collection := connection.Database(m.database).Collection(collectionNotify)
	_, err = collection.InsertOne(ctx, record)
	return err
}
