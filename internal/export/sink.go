// Package export writes computed relation tables and daily aggregates to
// pluggable sinks: console, CSV, newline-delimited JSON, parquet (local or
// S3) and Kafka. Every sink consumes the same JSON messages, one per row.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/chrisdamba/deliverymap/internal/models"
	"github.com/chrisdamba/deliverymap/internal/pipeline"
)

type Sink interface {
	WriteMessage(topic string, msg []byte) error
	Close() error
}

// Publish writes one pipeline result to the sink: the annotated rows, the
// daily series, and a single summary message carrying the average.
func Publish(sink Sink, result pipeline.Result) error {
	for _, rec := range Relations(result.Rows) {
		if err := writeJSON(sink, TopicRelations, rec); err != nil {
			return err
		}
	}

	daily, summary := Daily(result.Summary)
	for _, rec := range daily {
		if err := writeJSON(sink, TopicDaily, rec); err != nil {
			return err
		}
	}
	return writeJSON(sink, TopicSummary, summary)
}

func writeJSON(sink Sink, topic string, v interface{}) error {
	msg, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to serialize %s record: %w", topic, err)
	}
	if err := sink.WriteMessage(topic, msg); err != nil {
		return fmt.Errorf("failed to write %s record: %w", topic, err)
	}
	return nil
}

// ForConfig picks the sink the way the config asks for it.
func ForConfig(cfg *models.Config) (Sink, error) {
	if cfg.KafkaEnabled {
		return NewKafkaSink(cfg)
	}
	if cfg.OutputPath != "" {
		switch cfg.OutputFormat {
		case "parquet":
			return NewParquetSink(cfg)
		case "json":
			return NewJSONSink(cfg.OutputPath, cfg.OutputFolder), nil
		case "csv":
			return NewCSVSink(cfg.OutputPath, cfg.OutputFolder), nil
		case "", "console":
			return &ConsoleSink{}, nil
		default:
			return nil, fmt.Errorf("unsupported output format: %s", cfg.OutputFormat)
		}
	}
	return &ConsoleSink{}, nil
}

type ConsoleSink struct{}

func (c *ConsoleSink) WriteMessage(topic string, msg []byte) error {
	output := fmt.Sprintf("[%s] %s\n", topic, string(msg))

	_, err := os.Stdout.Write([]byte(output))
	if err != nil {
		return fmt.Errorf("failed to write to stdout: %w", err)
	}
	_ = os.Stdout.Sync()

	return nil
}

func (c *ConsoleSink) Close() error { return nil }

// CSVSink writes one CSV file per topic. Headers are derived from the first
// message of the topic, sorted for a stable column order.
type CSVSink struct {
	basePath string
	folder   string
	files    map[string]*os.File
	writers  map[string]*csv.Writer
	headers  map[string][]string
}

func NewCSVSink(basePath, folder string) *CSVSink {
	return &CSVSink{
		basePath: basePath,
		folder:   folder,
		files:    make(map[string]*os.File),
		writers:  make(map[string]*csv.Writer),
		headers:  make(map[string][]string),
	}
}

func (c *CSVSink) WriteMessage(topic string, msg []byte) error {
	var record map[string]interface{}
	if err := json.Unmarshal(msg, &record); err != nil {
		return err
	}

	w, ok := c.writers[topic]
	if !ok {
		dir := filepath.Join(c.basePath, c.folder)
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return err
		}
		file, err := os.Create(filepath.Join(dir, topic+".csv"))
		if err != nil {
			return err
		}
		c.files[topic] = file
		w = csv.NewWriter(file)
		c.writers[topic] = w

		headers := sortedKeys(record)
		if err := w.Write(headers); err != nil {
			return err
		}
		c.headers[topic] = headers
	}

	row := make([]string, len(c.headers[topic]))
	for i, header := range c.headers[topic] {
		value, ok := record[header]
		if !ok || value == nil {
			row[i] = ""
		} else {
			row[i] = fmt.Sprintf("%v", value)
		}
	}

	if err := w.Write(row); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func (c *CSVSink) Close() error {
	for topic, w := range c.writers {
		w.Flush()
		if err := w.Error(); err != nil {
			return err
		}
		if err := c.files[topic].Close(); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys(record map[string]interface{}) []string {
	keys := make([]string, 0, len(record))
	for key := range record {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// JSONSink writes newline-delimited JSON, one file per topic.
type JSONSink struct {
	basePath string
	folder   string
	files    map[string]*os.File
}

func NewJSONSink(basePath, folder string) *JSONSink {
	return &JSONSink{
		basePath: basePath,
		folder:   folder,
		files:    make(map[string]*os.File),
	}
}

func (j *JSONSink) WriteMessage(topic string, msg []byte) error {
	file, ok := j.files[topic]
	if !ok {
		dir := filepath.Join(j.basePath, j.folder)
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return err
		}
		var err error
		file, err = os.Create(filepath.Join(dir, topic+".json"))
		if err != nil {
			return err
		}
		j.files[topic] = file
	}

	if _, err := file.Write(msg); err != nil {
		return err
	}
	_, err := file.WriteString("\n")
	return err
}

func (j *JSONSink) Close() error {
	for _, file := range j.files {
		if err := file.Close(); err != nil {
			return err
		}
	}
	return nil
}

// CloseQuietly closes a sink and logs instead of failing; used on the
// command paths where the export itself already succeeded or failed.
func CloseQuietly(sink Sink) {
	if err := sink.Close(); err != nil {
		log.Printf("failed to close output: %v", err)
	}
}
