// Package kafka holds the Kafka producer configuration, the kafka-go
// transport setup and the Event envelope. Publishing lives in
// kafka/producer.
//
//	kafka:
//	  enabled: true
//	  brokers: ["localhost:9092"]
//	  compression: snappy
//	  async: true
package kafka
