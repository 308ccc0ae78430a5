package kafka

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// TopicSpec describes the dispatch topic to provision. The engine runs with
// a single intake topic; partition count bounds dispatcher parallelism since
// events are keyed by recipient.
type TopicSpec struct {
	Name              string
	NumPartitions     int
	ReplicationFactor int
	MaxWait           time.Duration
}

// EnsureTopic creates the topic on the cluster controller if it does not
// exist and waits until its partitions report a leader. Used at dispatcher
// startup and by cmd/kafka-init; both tolerate an already-existing topic.
func EnsureTopic(ctx context.Context, brokers []string, spec TopicSpec, log *zap.Logger) error {
	if log == nil {
		log = zap.L()
	}
	if spec.NumPartitions <= 0 {
		spec.NumPartitions = 1
	}
	if spec.ReplicationFactor <= 0 {
		spec.ReplicationFactor = 1
	}
	if spec.MaxWait <= 0 {
		spec.MaxWait = 5 * time.Second
	}

	conn, err := kafka.DialContext(ctx, "tcp", brokers[0])
	if err != nil {
		return fmt.Errorf("dial broker %s: %w", brokers[0], err)
	}
	defer conn.Close()

	if err := createOnController(ctx, conn, spec); err != nil {
		// Creation races with other instances; "already exists" is fine and
		// anything else still surfaces through the readiness wait below.
		log.Debug("create topic", zap.String("topic", spec.Name), zap.Error(err))
	}

	if err := waitTopicReady(ctx, conn, spec); err != nil {
		log.Warn("topic not confirmed ready", zap.String("topic", spec.Name), zap.Error(err))
		return nil
	}
	log.Info("topic ready", zap.String("topic", spec.Name))
	return nil
}

func createOnController(ctx context.Context, conn *kafka.Conn, spec TopicSpec) error {
	controller, err := conn.Controller()
	if err != nil {
		return fmt.Errorf("controller lookup: %w", err)
	}
	cc, err := kafka.DialContext(ctx, "tcp",
		net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		return fmt.Errorf("dial controller: %w", err)
	}
	defer cc.Close()

	err = cc.CreateTopics(kafka.TopicConfig{
		Topic:             spec.Name,
		NumPartitions:     spec.NumPartitions,
		ReplicationFactor: spec.ReplicationFactor,
	})
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		return err
	}
	return nil
}

func waitTopicReady(ctx context.Context, conn *kafka.Conn, spec TopicSpec) error {
	deadline := time.Now().Add(spec.MaxWait)
	for time.Now().Before(deadline) {
		ps, err := conn.ReadPartitions(spec.Name)
		if err == nil && len(ps) > 0 && allHaveLeader(ps) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(200 * time.Millisecond):
		}
	}
	return fmt.Errorf("topic %s not ready within %s", spec.Name, spec.MaxWait)
}

func allHaveLeader(ps []kafka.Partition) bool {
	for _, p := range ps {
		if p.Leader.ID == -1 {
			return false
		}
	}
	return true
}
