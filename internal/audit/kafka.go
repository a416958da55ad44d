package audit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

// KafkaConfig names the brokers, topic and consumer group.
type KafkaConfig struct {
	Brokers []string
	Topic   string
	Group   string
}

// KafkaQueue publishes jobs to a topic keyed by subject id and consumes them
// through a consumer group, so any replica's workers can run a job.
type KafkaQueue struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger

	jobs     chan Job
	stop     context.CancelFunc
	done     chan struct{}
	closeMux sync.Once
}

func NewKafkaQueue(cfg KafkaConfig, logger *slog.Logger) (*KafkaQueue, error) {
	if len(cfg.Brokers) == 0 || cfg.Topic == "" || cfg.Group == "" {
		return nil, errors.New("kafka queue needs brokers, topic and group")
	}
	if logger == nil {
		logger = slog.Default()
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.Topic),
		kgo.ConsumerGroup(cfg.Group),
		kgo.ConsumeTopics(cfg.Topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka client: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	q := &KafkaQueue{
		client: client,
		topic:  cfg.Topic,
		logger: logger,
		jobs:   make(chan Job),
		stop:   cancel,
		done:   make(chan struct{}),
	}
	go q.consume(ctx)
	return q, nil
}

// EnsureTopic creates the topic when it does not exist yet.
func (q *KafkaQueue) EnsureTopic(ctx context.Context, partitions int32, replication int16) error {
	adm := kadm.NewClient(q.client)
	resp, err := adm.CreateTopics(ctx, partitions, replication, nil, q.topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", q.topic, err)
	}
	for _, r := range resp {
		if r.Err != nil && !errors.Is(r.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", r.Topic, r.Err)
		}
	}
	return nil
}

func (q *KafkaQueue) Enqueue(ctx context.Context, job Job) error {
	select {
	case <-q.done:
		return ErrQueueClosed
	default:
	}
	raw, err := encodeJob(job)
	if err != nil {
		return fmt.Errorf("encode audit job: %w", err)
	}
	rec := &kgo.Record{Key: []byte(job.Key()), Value: raw}
	if err := q.client.ProduceSync(ctx, rec).FirstErr(); err != nil {
		return fmt.Errorf("produce audit job %s: %w", job.ID, err)
	}
	return nil
}

func (q *KafkaQueue) Jobs() <-chan Job {
	return q.jobs
}

func (q *KafkaQueue) Close() error {
	q.closeMux.Do(func() {
		q.stop()
		<-q.done
		q.client.Close()
	})
	return nil
}

func (q *KafkaQueue) consume(ctx context.Context) {
	defer close(q.done)
	defer close(q.jobs)
	for {
		fetches := q.client.PollFetches(ctx)
		if fetches.IsClientClosed() || ctx.Err() != nil {
			return
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			q.logger.Warn("audit queue fetch error", "topic", topic, "partition", partition, "error", err)
		})
		var stopped bool
		fetches.EachRecord(func(rec *kgo.Record) {
			if stopped {
				return
			}
			job, err := decodeJob(rec.Value)
			if err != nil {
				q.logger.Warn("dropping undecodable audit job", "offset", rec.Offset, "error", err)
				return
			}
			select {
			case q.jobs <- job:
			case <-ctx.Done():
				stopped = true
			}
		})
		if stopped {
			return
		}
	}
}
