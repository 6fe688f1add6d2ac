package smsservices

import (
	"context"
	"testing"

	"github.com/propvista/backend/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSNSClientWithoutRegionIsDisabled(t *testing.T) {
	client := NewSNSClient(&config.Config{})

	err := client.SendSMS(context.Background(), "+911234567890", "hello")
	require.Error(t, err)
}

func TestNewSNSClientUsesStaticCredentialsFromConfig(t *testing.T) {
	client := NewSNSClient(&config.Config{
		AwsRegion:          "ap-south-1",
		AwsAccessKeyID:     "AKIAEXAMPLE",
		AwsSecretAccessKey: "secretexample",
		SmsSenderID:        "PROPVISTA",
	})

	require.NotNil(t, client.client)
	assert.Equal(t, "PROPVISTA", client.senderID)

	creds, err := client.client.Options().Credentials.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "AKIAEXAMPLE", creds.AccessKeyID)
}
