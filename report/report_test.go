package report

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/segmentio/kafka-go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"uk.ac.bris.cs/juliaset/julia"
)

func TestNewSummary(t *testing.T) {
	grid, err := julia.Compute(32, 32, 4)
	if err != nil {
		t.Fatal(err)
	}
	s := NewSummary(grid, 4, 1500*time.Millisecond, julia.DefaultFractal)
	if s.Width != 32 || s.Height != 32 || s.Threads != 4 || s.ElapsedSeconds != 1.5 {
		t.Errorf("unexpected header %+v", s)
	}
	if s.Coefficient != [2]float64{-0.8, 0.156} || s.MaxIterations != 200 || s.Threshold != 1000 {
		t.Errorf("fractal parameters not recorded: %+v", s)
	}

	min, max, total, bounded := 1e9, -1.0, 0.0, 0
	for _, value := range grid.Cells() {
		min = minFloat(min, value)
		max = maxFloat(max, value)
		total += value
		if value == 200 {
			bounded++
		}
	}
	if s.Min != min || s.Max != max || s.Bounded != bounded {
		t.Errorf("statistics = (%v, %v, %d), want (%v, %v, %d)", s.Min, s.Max, s.Bounded, min, max, bounded)
	}
	if want := total / 1024; s.Mean != want {
		t.Errorf("Mean = %v, want %v", s.Mean, want)
	}
}

func minFloat(a, b float64) float64 {
	if b < a {
		return b
	}
	return a
}

func maxFloat(a, b float64) float64 {
	if b > a {
		return b
	}
	return a
}

func TestFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.json")
	want := Summary{Width: 4, Height: 4, Threads: 2, Max: 17, Files: []string{"out/julia.vti"}}
	sink := FileSink(path)
	if err := sink.Publish(context.Background(), want); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got Summary
	if err := sonic.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.Width != 4 || got.Threads != 2 || got.Max != 17 || len(got.Files) != 1 {
		t.Errorf("read back %+v", got)
	}
}

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.messages = append(w.messages, msgs...)
	return w.err
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaSink(t *testing.T) {
	writer := &fakeWriter{}
	sink := &KafkaSink{writer: writer}
	if err := sink.Publish(context.Background(), Summary{Width: 40, Height: 30, Threads: 8}); err != nil {
		t.Fatal(err)
	}
	if len(writer.messages) != 1 || string(writer.messages[0].Key) != "40x30-8" {
		t.Fatalf("messages = %v", writer.messages)
	}
	var got Summary
	if err := sonic.Unmarshal(writer.messages[0].Value, &got); err != nil || got.Width != 40 {
		t.Errorf("message value %s: %v", writer.messages[0].Value, err)
	}

	writer.err = errors.New("leader not available")
	if err := sink.Publish(context.Background(), Summary{}); !errors.Is(err, writer.err) {
		t.Errorf("error = %v, want wrapped writer error", err)
	}
	if err := sink.Close(); err != nil || !writer.closed {
		t.Errorf("Close did not close the writer")
	}
}

type fakeCollection struct {
	documents []interface{}
}

func (c *fakeCollection) InsertOne(_ context.Context, document interface{}, _ ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	c.documents = append(c.documents, document)
	return &mongo.InsertOneResult{InsertedID: len(c.documents)}, nil
}

func TestMongoSink(t *testing.T) {
	runs := &fakeCollection{}
	sink := &MongoSink{runs: runs}
	if err := sink.Publish(context.Background(), Summary{Width: 9}); err != nil {
		t.Fatal(err)
	}
	if len(runs.documents) != 1 || runs.documents[0].(Summary).Width != 9 {
		t.Errorf("documents = %v", runs.documents)
	}
	if err := sink.Close(); err != nil {
		t.Error(err)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		target string
		check  func(Sink) bool
	}{
		{"summary.json", func(s Sink) bool { _, ok := s.(FileSink); return ok }},
		{"kafka://localhost:9092,localhost:9093/julia-runs", func(s Sink) bool { _, ok := s.(*KafkaSink); return ok }},
		{"mongodb://127.0.0.1:27017", func(s Sink) bool { _, ok := s.(*MongoSink); return ok }},
	}
	for _, test := range tests {
		sink, err := Open(ctx, test.target)
		if err != nil {
			t.Fatalf("Open(%q) failed: %v", test.target, err)
		}
		if !test.check(sink) {
			t.Errorf("Open(%q) returned %T", test.target, sink)
		}
		_ = sink.Close()
	}

	for _, target := range []string{"", "kafka://localhost:9092", "kafka:///topic"} {
		if _, err := Open(ctx, target); !errors.Is(err, ErrTarget) {
			t.Errorf("Open(%q) error = %v, want ErrTarget", target, err)
		}
	}
}

type failingSink struct {
	name string
}

func (s failingSink) Publish(context.Context, Summary) error {
	return errors.New(s.name + " unavailable")
}

func (s failingSink) Close() error {
	return nil
}

func TestFanout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.json")
	sinks := Fanout{failingSink{"first"}, FileSink(path), failingSink{"second"}}
	err := sinks.Publish(context.Background(), Summary{Width: 1})
	if err == nil || !strings.Contains(err.Error(), "first") || !strings.Contains(err.Error(), "second") {
		t.Errorf("error = %v, want both failures", err)
	}
	if _, statErr := os.Stat(path); statErr != nil {
		t.Errorf("healthy sink skipped after a failure: %v", statErr)
	}
	if err := sinks.Close(); err != nil {
		t.Error(err)
	}

	if err := (Fanout{FileSink(path)}).Publish(context.Background(), Summary{}); err != nil {
		t.Errorf("single healthy sink returned %v", err)
	}
}

func TestOpenAll(t *testing.T) {
	sinks, err := OpenAll(context.Background(), []string{filepath.Join(t.TempDir(), "a.json"), "kafka://broker:9092/runs"})
	if err != nil {
		t.Fatal(err)
	}
	if len(sinks) != 2 {
		t.Fatalf("got %d sinks", len(sinks))
	}
	_ = sinks.Close()

	if _, err := OpenAll(context.Background(), []string{"a.json", ""}); !errors.Is(err, ErrTarget) {
		t.Errorf("error = %v, want ErrTarget", err)
	}
}
