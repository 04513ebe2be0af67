package entity

import "time"

// LogMessage is a log record written to the database sink.
type LogMessage struct {
	Time      time.Time `json:"time" bson:"time"`
	Level     string    `json:"level" bson:"level"`
	Category  string    `json:"category" bson:"category"`
	Text      string    `json:"text" bson:"text"`
	RequestId string    `json:"request_id,omitempty" bson:"request_id,omitempty"`
}

func (m *LogMessage) DataType() string {
	return "log"
}

// NotifyRecord is a verified callback payload kept for audit.
type NotifyRecord struct {
	Time       time.Time      `json:"time" bson:"time"`
	ApiVersion string         `json:"api_version" bson:"api_version"`
	RequestId  string         `json:"request_id,omitempty" bson:"request_id,omitempty"`
	Payload    map[string]any `json:"payload" bson:"payload"`
}

func (r *NotifyRecord) DataType() string {
	return "notify"
}
