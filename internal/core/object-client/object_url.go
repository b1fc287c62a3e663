package objectclient

import (
	"fmt"
	"strings"
)

// ObjectURL is the virtual-hosted URL of key in bucket.
func ObjectURL(bucket, region, key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, key)
}

// ParseObjectURL extracts the bucket and key from a virtual-hosted S3 URL.
// ok is false for anything else, such as a local file path.
func ParseObjectURL(u string) (bucket, key string, ok bool) {
	rest, found := strings.CutPrefix(u, "https://")
	if !found {
		return "", "", false
	}
	host, key, _ := strings.Cut(rest, "/")
	if !strings.Contains(host, ".s3.") || key == "" {
		return "", "", false
	}
	bucket, _, _ = strings.Cut(host, ".")
	return bucket, key, true
}
