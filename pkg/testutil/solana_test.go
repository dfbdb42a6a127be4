package testutil

import (
	"bytes"
	"crypto/ed25519"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestGenerateSolanaKeys(t *testing.T) {
	keys := GenerateSolanaKeys(t, 3)
	assert.Len(t, keys, 3)
	for _, key := range keys {
		assert.Len(t, key, ed25519.PublicKeySize)
	}
	assert.NotEqual(t, keys[0], keys[1])

	keypair := GenerateSolanaKeypair(t)
	assert.Len(t, keypair, ed25519.PrivateKeySize)
	assert.Len(t, GenerateSolanaKey(t), ed25519.PublicKeySize)
}

func TestDisableLogging(t *testing.T) {
	var buf bytes.Buffer
	original := logrus.StandardLogger().Out
	logrus.SetOutput(&buf)
	defer logrus.SetOutput(original)

	reset := DisableLogging()
	logrus.Info("hidden")
	reset()
	logrus.Info("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
