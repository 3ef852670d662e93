package config

// MinIOConfig carries connection details for the avatar object store.
// The store is optional: when MINIO_ENDPOINT is unset, avatar upload and
// removal respond with an upstream failure instead of crashing the server.
type MinIOConfig struct {
	Endpoint  string // host:port of the MinIO/S3 API
	AccessKey string // access key id
	SecretKey string // secret access key
	Bucket    string // bucket that holds avatar objects
	Region    string // bucket region, may be empty
	UseSSL    bool   // connect over TLS
	PublicURL string // base URL under which objects are publicly reachable
}

// LoadMinIOConfig reads the MINIO_* environment variables. Enabled() on the
// result tells callers whether a store should be constructed at all.
func LoadMinIOConfig() MinIOConfig {
	return MinIOConfig{
		Endpoint:  getenv("MINIO_ENDPOINT", ""),
		AccessKey: getenv("MINIO_ACCESS_KEY", ""),
		SecretKey: getenv("MINIO_SECRET_KEY", ""),
		Bucket:    getenv("MINIO_BUCKET", "avatars"),
		Region:    getenv("MINIO_REGION", ""),
		UseSSL:    envBool("MINIO_USE_SSL", false),
		PublicURL: getenv("MINIO_PUBLIC_URL", ""),
	}
}

// Enabled reports whether an object store endpoint was configured.
func (m MinIOConfig) Enabled() bool { return m.Endpoint != "" }
