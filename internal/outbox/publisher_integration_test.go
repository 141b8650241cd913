//go:build integration

package outbox_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"

	"wellflow/internal/outbox"
	"wellflow/internal/ownership/models"
	"wellflow/pkg/domain"
	"wellflow/pkg/testutil/containers"
)

const testTopic = "wellflow.domain-events.test"

type KafkaPublisherSuite struct {
	suite.Suite
	redpanda  *containers.RedpandaContainer
	publisher *outbox.KafkaPublisher
	ctx       context.Context
	now       time.Time
}

func TestKafkaPublisherSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(KafkaPublisherSuite))
}

func (s *KafkaPublisherSuite) SetupSuite() {
	s.ctx = context.Background()
	s.now = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	s.redpanda = containers.NewRedpandaContainer(s.T())

	adminConn, err := kgo.NewClient(kgo.SeedBrokers(s.redpanda.Broker))
	s.Require().NoError(err)
	defer adminConn.Close()

	admin := kadm.NewClient(adminConn)
	_, err = admin.CreateTopics(s.ctx, 1, 1, nil, testTopic)
	s.Require().NoError(err)

	s.publisher, err = outbox.NewKafkaPublisher([]string{s.redpanda.Broker}, testTopic)
	s.Require().NoError(err)
	s.T().Cleanup(s.publisher.Close)
}

func (s *KafkaPublisherSuite) stageEvents(store outbox.Store, count int) {
	for i := 0; i < count; i++ {
		order, err := models.NewDivisionOrder(
			domain.NewDivisionOrderID(),
			domain.OrganizationID(uuid.New()),
			domain.WellID(uuid.New()),
			domain.PartnerID(uuid.New()),
			domain.MustDecimalInterest("0.25"),
			time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), nil,
			s.now,
		)
		s.Require().NoError(err)
		s.Require().NoError(store.Append(s.ctx, order.DrainEvents()))
	}
}

// consume reads want records from the topic or fails after the deadline.
func (s *KafkaPublisherSuite) consume(want int) []*kgo.Record {
	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(s.redpanda.Broker),
		kgo.ConsumeTopics(testTopic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer consumer.Close()

	deadline, cancel := context.WithTimeout(s.ctx, 30*time.Second)
	defer cancel()

	var records []*kgo.Record
	for len(records) < want {
		fetches := consumer.PollFetches(deadline)
		s.Require().NoError(fetches.Err())
		fetches.EachRecord(func(record *kgo.Record) {
			records = append(records, record)
		})
	}
	return records
}

func (s *KafkaPublisherSuite) TestRelayDrainsStagedEventsToKafka() {
	store := outbox.NewInMemoryStore()
	s.stageEvents(store, 3)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	relay := outbox.NewRelay(store, s.publisher, logger, nil, time.Second)
	s.Require().NoError(relay.Drain(s.ctx))

	remaining, err := store.ListUnpublished(s.ctx, 10)
	s.Require().NoError(err)
	s.Empty(remaining, "drained entries should be marked published")

	records := s.consume(3)
	for _, record := range records {
		var envelope struct {
			ID          uuid.UUID       `json:"id"`
			Name        string          `json:"name"`
			AggregateID string          `json:"aggregate_id"`
			OccurredAt  time.Time       `json:"occurred_at"`
			Data        json.RawMessage `json:"data"`
		}
		s.Require().NoError(json.Unmarshal(record.Value, &envelope))
		s.Equal("division_order.created", envelope.Name)
		s.Equal(envelope.AggregateID, string(record.Key), "records are keyed by aggregate id")
		s.NotEmpty(envelope.Data)
	}
}
