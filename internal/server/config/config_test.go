package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":50051", c.EndpointAddrGRPC)
	assert.Equal(t, ":8080", c.EndpointAddrHTTP)
	assert.Empty(t, c.DatabaseDSN)
	assert.Equal(t, "secretKey", c.SecretKey)
	assert.Equal(t, 60*time.Minute, c.TokenValidityDuration)
	assert.Equal(t, 5, c.LoginAttemptsPerMinute)
	assert.Equal(t, "avatars", c.S3Bucket)
	assert.Equal(t, "us-east-1", c.S3Region)
	assert.Empty(t, c.S3BaseEndpoint)
	assert.Equal(t, "info", c.LogLevel)
	assert.False(t, c.AvatarStorageEnabled())
}

func TestAvatarStorageEnabled(t *testing.T) {
	c := Config{S3BaseEndpoint: "http://minio:9000", S3Bucket: "avatars"}
	assert.True(t, c.AvatarStorageEnabled())

	c.S3Bucket = ""
	assert.False(t, c.AvatarStorageEnabled())
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	c := LoadConfig()
	require.NotNil(t, c)

	var want Config
	want.LoadDefaults()
	assert.Equal(t, want, *c)
}
