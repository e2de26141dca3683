package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/notespal/internal/flagx"
	"github.com/dmitrijs2005/notespal/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations accept
// either "15m" or integer nanoseconds. Absent fields keep their current
// value, so a file may set only what it needs.
type JsonConfig struct {
	EndpointAddrGRPC string          `json:"endpoint_addr_grpc"`
	DatabaseDSN      string          `json:"database_dsn"`
	SecretKey        string          `json:"secret_key"`
	BindNoteID       *bool           `json:"bind_note_id"`
	LogLevel         string          `json:"log_level"`
	S3RootUser       string          `json:"s3_root_user"`
	S3RootPassword   string          `json:"s3_root_password"`
	S3Bucket         string          `json:"s3_bucket"`
	S3Region         string          `json:"s3_region"`
	S3BaseEndpoint   string          `json:"s3_base_endpoint"`
	PresignExpiry    *timex.Duration `json:"presign_expiry"`
}

func parseJson(config *Config) {
	path := flagx.ConfigPath()
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)

	if c.PresignExpiry != nil {
		config.PresignExpiry = c.PresignExpiry.Duration
	}
	if c.BindNoteID != nil {
		config.BindNoteID = *c.BindNoteID
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
