package report

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/spiffcs/ghinventory/internal/constants"
	"github.com/spiffcs/ghinventory/internal/format"
)

// Bucket is a last-accessed recency tier.
type Bucket int

const (
	Bucket30d Bucket = iota
	Bucket60d
	Bucket120d
	Bucket240d
	BucketOlder // more than 240 days, or unknown
)

// Buckets lists every bucket from most to least recently accessed.
var Buckets = []Bucket{Bucket30d, Bucket60d, Bucket120d, Bucket240d, BucketOlder}

var bucketLimits = []struct {
	maxDays int
	bucket  Bucket
}{
	{30, Bucket30d},
	{60, Bucket60d},
	{120, Bucket120d},
	{240, Bucket240d},
}

// Suffix is the bucket's file name suffix.
func (b Bucket) Suffix() string {
	switch b {
	case Bucket30d:
		return "30d"
	case Bucket60d:
		return "60d"
	case Bucket120d:
		return "120d"
	case Bucket240d:
		return "240d"
	default:
		return "gt-240d"
	}
}

func (b Bucket) String() string {
	if b == BucketOlder {
		return "> 240 days"
	}
	return "<= " + strings.TrimSuffix(b.Suffix(), "d") + " days"
}

// BucketFor places a last-accessed value relative to now. Values that don't
// parse, including "N/A", land in BucketOlder.
func BucketFor(lastAccessed string, now time.Time) Bucket {
	t, err := format.ParseTimestamp(lastAccessed)
	if err != nil {
		return BucketOlder
	}
	days := format.DaysSince(t, now)
	for _, l := range bucketLimits {
		if days <= l.maxDays {
			return l.bucket
		}
	}
	return BucketOlder
}

// BucketPath derives the file a bucket is written to from the output base:
// dir/base.ext becomes dir/results/base-<suffix>.ext.
func BucketPath(output string, b Bucket) string {
	dir := filepath.Dir(output)
	ext := filepath.Ext(output)
	base := strings.TrimSuffix(filepath.Base(output), ext)
	return filepath.Join(dir, constants.ResultsDir, base+"-"+b.Suffix()+ext)
}
