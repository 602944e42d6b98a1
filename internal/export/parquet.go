package export

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/chrisdamba/deliverymap/internal/cloudwriter"
	"github.com/chrisdamba/deliverymap/internal/models"
)

// Parquet schemas per topic. Missing coordinates and distances are stored as
// NaN, which parquet DOUBLE carries natively.
type relationRow struct {
	OrderID        string  `parquet:"name=order_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	RestaurantID   string  `parquet:"name=restaurant_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	RestaurantName string  `parquet:"name=restaurant_name, type=BYTE_ARRAY, convertedtype=UTF8"`
	Zone           string  `parquet:"name=zone_name, type=BYTE_ARRAY, convertedtype=UTF8"`
	RestaurantLat  float64 `parquet:"name=restaurant_lat, type=DOUBLE"`
	RestaurantLon  float64 `parquet:"name=restaurant_lon, type=DOUBLE"`
	DeliveryLat    float64 `parquet:"name=delivery_lat, type=DOUBLE"`
	DeliveryLon    float64 `parquet:"name=delivery_long, type=DOUBLE"`
	OrderDate      string  `parquet:"name=order_date, type=BYTE_ARRAY, convertedtype=UTF8"`
	DistanceKm     float64 `parquet:"name=distance_km, type=DOUBLE"`
}

type dailyRow struct {
	Date   string `parquet:"name=date, type=BYTE_ARRAY, convertedtype=UTF8"`
	Orders int32  `parquet:"name=orders, type=INT32"`
}

type summaryRow struct {
	AvgDailyOrders float64 `parquet:"name=avg_daily_orders, type=DOUBLE"`
	Days           int32   `parquet:"name=days, type=INT32"`
	Orders         int32   `parquet:"name=orders, type=INT32"`
}

// ParquetSink writes one parquet file per topic, either on local disk or as
// an S3 object through the cloud writer.
type ParquetSink struct {
	basePath           string
	folder             string
	writers            map[string]*writer.ParquetWriter
	files              map[string]source.ParquetFile
	cloudWriterFactory cloudwriter.CloudWriterFactory
	cloudBucketName    string
}

func NewParquetSink(cfg *models.Config) (*ParquetSink, error) {
	p := &ParquetSink{
		basePath: cfg.OutputPath,
		folder:   cfg.OutputFolder,
		writers:  make(map[string]*writer.ParquetWriter),
		files:    make(map[string]source.ParquetFile),
	}

	if cfg.OutputDestination != "local" {
		switch cfg.CloudStorage.Provider {
		case "s3":
			factory, err := cloudwriter.NewS3WriterFactory(cfg.CloudStorage.Region)
			if err != nil {
				return nil, fmt.Errorf("failed to create cloud writer factory: %w", err)
			}
			p.cloudWriterFactory = factory
			p.cloudBucketName = cfg.CloudStorage.BucketName
		default:
			return nil, fmt.Errorf("unsupported cloud storage provider: %s", cfg.CloudStorage.Provider)
		}
	}

	return p, nil
}

func (p *ParquetSink) WriteMessage(topic string, msg []byte) error {
	pw, err := p.writer(topic)
	if err != nil {
		return err
	}

	row, err := parquetRow(topic, msg)
	if err != nil {
		return err
	}

	if err := pw.Write(row); err != nil {
		return fmt.Errorf("failed to write %s row: %w", topic, err)
	}
	return nil
}

func (p *ParquetSink) writer(topic string) (*writer.ParquetWriter, error) {
	if pw, ok := p.writers[topic]; ok {
		return pw, nil
	}

	objectPath := filepath.Join(p.folder, topic+".parquet")

	var fw source.ParquetFile
	if p.cloudWriterFactory != nil {
		cw, err := p.cloudWriterFactory.NewWriter(p.cloudBucketName, objectPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create cloud writer for %s: %w", topic, err)
		}
		fw = &cloudParquetFile{cloudWriter: cw}
	} else {
		fullPath := filepath.Join(p.basePath, objectPath)
		if err := os.MkdirAll(filepath.Dir(fullPath), os.ModePerm); err != nil {
			return nil, err
		}
		var err error
		fw, err = local.NewLocalFileWriter(fullPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create parquet file for %s: %w", topic, err)
		}
	}

	pw, err := writer.NewParquetWriter(fw, schemaFor(topic), 4)
	if err != nil {
		return nil, fmt.Errorf("failed to create parquet writer for %s: %w", topic, err)
	}

	p.files[topic] = fw
	p.writers[topic] = pw
	return pw, nil
}

func (p *ParquetSink) Close() error {
	for topic, pw := range p.writers {
		if err := pw.WriteStop(); err != nil {
			return fmt.Errorf("failed to finalize parquet file for %s: %w", topic, err)
		}
		if err := p.files[topic].Close(); err != nil {
			return fmt.Errorf("failed to close parquet file for %s: %w", topic, err)
		}
	}
	return nil
}

func schemaFor(topic string) interface{} {
	switch topic {
	case TopicDaily:
		return new(dailyRow)
	case TopicSummary:
		return new(summaryRow)
	default:
		return new(relationRow)
	}
}

func parquetRow(topic string, msg []byte) (interface{}, error) {
	switch topic {
	case TopicDaily:
		var rec DailyRecord
		if err := json.Unmarshal(msg, &rec); err != nil {
			return nil, err
		}
		return dailyRow{Date: rec.Date, Orders: int32(rec.Orders)}, nil
	case TopicSummary:
		var rec SummaryRecord
		if err := json.Unmarshal(msg, &rec); err != nil {
			return nil, err
		}
		return summaryRow{
			AvgDailyOrders: rec.AvgDailyOrders,
			Days:           int32(rec.Days),
			Orders:         int32(rec.Orders),
		}, nil
	default:
		var rec RelationRecord
		if err := json.Unmarshal(msg, &rec); err != nil {
			return nil, err
		}
		return relationRow{
			OrderID:        rec.OrderID,
			RestaurantID:   rec.RestaurantID,
			RestaurantName: rec.RestaurantName,
			Zone:           rec.Zone,
			RestaurantLat:  parquetFloat(rec.RestaurantLat),
			RestaurantLon:  parquetFloat(rec.RestaurantLon),
			DeliveryLat:    parquetFloat(rec.DeliveryLat),
			DeliveryLon:    parquetFloat(rec.DeliveryLon),
			OrderDate:      rec.OrderDate,
			DistanceKm:     parquetFloat(rec.DistanceKm),
		}, nil
	}
}

func parquetFloat(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

// cloudParquetFile adapts a CloudWriter to the parquet source interface.
// Cloud objects are write-once, so reads and seeks from the end are not
// supported.
type cloudParquetFile struct {
	cloudWriter cloudwriter.CloudWriter
	offset      int64
}

func (c *cloudParquetFile) Open(name string) (source.ParquetFile, error) {
	return c, nil
}

func (c *cloudParquetFile) Create(name string) (source.ParquetFile, error) {
	return c, nil
}

func (c *cloudParquetFile) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		c.offset = offset
	case io.SeekCurrent:
		c.offset += offset
	case io.SeekEnd:
		return 0, fmt.Errorf("seek from end not supported for cloud storage")
	}
	return c.offset, nil
}

func (c *cloudParquetFile) Read(p []byte) (n int, err error) {
	return 0, fmt.Errorf("read not supported for cloud storage")
}

func (c *cloudParquetFile) Write(p []byte) (n int, err error) {
	return c.cloudWriter.Write(p)
}

func (c *cloudParquetFile) Close() error {
	return c.cloudWriter.Close()
}
