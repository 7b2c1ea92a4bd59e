package report

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/zeromicro/go-zero/core/errorx"
)

var ErrTarget = errors.New("invalid report target")

// Sink receives run summaries
type Sink interface {
	Publish(ctx context.Context, s Summary) error
	Close() error
}

// Open returns the sink for target:
//
//	kafka://broker1:9092,broker2:9092/topic
//	mongodb://host:27017 (or mongodb+srv://...), stored in julia.runs
//	anything else is a file path that receives indented JSON
func Open(ctx context.Context, target string) (Sink, error) {
	switch {
	case target == "":
		return nil, fmt.Errorf("%w: empty", ErrTarget)
	case strings.HasPrefix(target, "kafka://"):
		brokers, topic, ok := strings.Cut(strings.TrimPrefix(target, "kafka://"), "/")
		if !ok || brokers == "" || topic == "" {
			return nil, fmt.Errorf("%w: %s", ErrTarget, target)
		}
		return NewKafkaSink(strings.Split(brokers, ","), topic), nil
	case strings.HasPrefix(target, "mongodb://"), strings.HasPrefix(target, "mongodb+srv://"):
		sink, err := NewMongoSink(ctx, target)
		if err != nil {
			return nil, err
		}
		return sink, nil
	default:
		return FileSink(target), nil
	}
}

// Fanout publishes to every sink it holds
type Fanout []Sink

// OpenAll opens every target, closing the ones already opened if any fails
func OpenAll(ctx context.Context, targets []string) (Fanout, error) {
	sinks := make(Fanout, 0, len(targets))
	for _, target := range targets {
		sink, err := Open(ctx, target)
		if err != nil {
			_ = sinks.Close()
			return nil, err
		}
		sinks = append(sinks, sink)
	}
	return sinks, nil
}

func (sinks Fanout) Publish(ctx context.Context, s Summary) error {
	var batch errorx.BatchError
	for _, sink := range sinks {
		if err := sink.Publish(ctx, s); err != nil {
			batch.Add(err)
		}
	}
	return batch.Err()
}

func (sinks Fanout) Close() error {
	var batch errorx.BatchError
	for _, sink := range sinks {
		if err := sink.Close(); err != nil {
			batch.Add(err)
		}
	}
	return batch.Err()
}

// FileSink overwrites the named file with each summary
type FileSink string

func (path FileSink) Publish(_ context.Context, s Summary) error {
	data, err := sonic.ConfigStd.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(string(path), append(data, '\n'), 0o644)
}

func (path FileSink) Close() error {
	return nil
}
