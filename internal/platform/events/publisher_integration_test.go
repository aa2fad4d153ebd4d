//go:build integration

package events_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"dossier/internal/platform/config"
	"dossier/internal/platform/events"
	"dossier/internal/profile/ports"
	id "dossier/pkg/domain"
	"dossier/pkg/testutil/containers"
)

type PublisherSuite struct {
	suite.Suite
	brokers   []string
	topic     string
	publisher *events.Publisher
}

func TestPublisherSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PublisherSuite))
}

func (s *PublisherSuite) SetupSuite() {
	mgr := containers.GetManager()
	redpanda := mgr.GetRedpanda(s.T())
	s.brokers = redpanda.Brokers
	s.topic = "dossier.profile.events.test"

	publisher, err := events.NewPublisher(context.Background(), config.KafkaConfig{
		Brokers: s.brokers,
		Topic:   s.topic,
	}, nil)
	s.Require().NoError(err)
	s.Require().NotNil(publisher)
	s.publisher = publisher
}

func (s *PublisherSuite) TearDownSuite() {
	s.publisher.Close()
}

func (s *PublisherSuite) consume(ctx context.Context, want int) []*kgo.Record {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(s.brokers...),
		kgo.ConsumeTopics(s.topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer client.Close()

	deadline := time.Now().Add(15 * time.Second)
	var records []*kgo.Record
	for len(records) < want && time.Now().Before(deadline) {
		pollCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		fetches := client.PollFetches(pollCtx)
		cancel()
		fetches.EachRecord(func(r *kgo.Record) {
			records = append(records, r)
		})
	}
	return records
}

// TestEmitProducesKeyedEvent verifies the produced record carries the subject
// key and the JSON event payload.
func (s *PublisherSuite) TestEmitProducesKeyedEvent() {
	ctx := context.Background()
	subjectID := id.NewSubjectID()
	emitted := ports.Event{
		Action:    "raw_data_ingested",
		SubjectID: subjectID,
		Source:    id.SourceDocument,
		Timestamp: time.Now().UTC(),
	}

	err := s.publisher.Emit(ctx, emitted)
	s.Require().NoError(err)

	records := s.consume(ctx, 1)
	s.Require().NotEmpty(records)

	// Take the record for our subject; other tests share the topic.
	var record *kgo.Record
	for _, r := range records {
		if string(r.Key) == subjectID.String() {
			record = r
		}
	}
	s.Require().NotNil(record, "should find the emitted record by subject key")

	var event ports.Event
	s.Require().NoError(json.Unmarshal(record.Value, &event))
	s.Equal("raw_data_ingested", event.Action)
	s.Equal(subjectID, event.SubjectID)
	s.Equal(id.SourceDocument, event.Source)
}

// TestPerSubjectOrdering verifies events for one subject land in emit order.
func (s *PublisherSuite) TestPerSubjectOrdering() {
	ctx := context.Background()
	subjectID := id.NewSubjectID()
	actions := []string{"raw_data_ingested", "profile_merged", "enrichment_completed"}

	for _, action := range actions {
		err := s.publisher.Emit(ctx, ports.Event{
			Action:    action,
			SubjectID: subjectID,
			Timestamp: time.Now().UTC(),
		})
		s.Require().NoError(err)
	}

	records := s.consume(ctx, 3)
	var got []string
	for _, r := range records {
		if string(r.Key) != subjectID.String() {
			continue
		}
		var event ports.Event
		s.Require().NoError(json.Unmarshal(r.Value, &event))
		got = append(got, event.Action)
	}
	s.Equal(actions, got)
}

// TestNilPublisherIsNoOp verifies the disabled-Kafka path.
func (s *PublisherSuite) TestNilPublisherIsNoOp() {
	var publisher *events.Publisher
	err := publisher.Emit(context.Background(), ports.Event{Action: "ignored"})
	s.NoError(err)
	publisher.Close()
}
