// Package cloudwriter abstracts buffered object uploads so the parquet
// exporter can target local disk and cloud storage through the same writer
// shape.
package cloudwriter

type CloudWriter interface {
	Write(data []byte) (int, error)
	Close() error
}

type CloudWriterFactory interface {
	NewWriter(bucket, objectPath string) (CloudWriter, error)
}
