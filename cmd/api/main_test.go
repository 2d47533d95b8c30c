package main

import (
	"testing"
	"time"

	"ordermgmt/internal/config"
	"ordermgmt/internal/infra/events"
	"ordermgmt/internal/infra/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPublisher(t *testing.T) {
	log := logger.Nop()

	pub, err := newPublisher(config.EventsConfig{Broker: config.BrokerNone}, log)
	require.NoError(t, err)
	assert.Nil(t, pub)

	pub, err = newPublisher(config.EventsConfig{Broker: config.BrokerLog}, log)
	require.NoError(t, err)
	assert.IsType(t, &events.LogPublisher{}, pub)

	pub, err = newPublisher(config.EventsConfig{Broker: config.BrokerKafka, KafkaTopic: "orders", KafkaBrokers: []string{"localhost:9092"}}, log)
	require.NoError(t, err)
	assert.IsType(t, &events.KafkaPublisher{}, pub)
	assert.NoError(t, pub.Close())
}

func TestSweepInterval(t *testing.T) {
	assert.Equal(t, 30*time.Minute, sweepInterval(2*time.Hour))
	assert.Equal(t, time.Second, sweepInterval(time.Nanosecond))
	assert.Equal(t, time.Second, sweepInterval(3*time.Second))
}
