package cloudwriter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectKey(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"exports/delivery_relations.parquet", "exports/delivery_relations.parquet"},
		{"exports\\delivery_relations.parquet", "exports/delivery_relations.parquet"},
		{"/exports/daily_orders.parquet", "exports/daily_orders.parquet"},
		{"exports//daily_orders.parquet", "exports/daily_orders.parquet"},
		{"exports/./daily_summary.parquet", "exports/daily_summary.parquet"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, objectKey(c.in), "objectKey(%q)", c.in)
	}
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "application/vnd.apache.parquet", contentTypeFor("exports/delivery_relations.parquet"))
	assert.Equal(t, "application/json", contentTypeFor("exports/daily_orders.json"))
	assert.Equal(t, "text/csv", contentTypeFor("exports/daily_orders.csv"))
	assert.Equal(t, "application/octet-stream", contentTypeFor("exports/blob"))
}
