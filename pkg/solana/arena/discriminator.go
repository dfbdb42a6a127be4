package mining_arena

import (
	"bytes"
	"crypto/sha256"
)

const discriminatorSize = 8

// InstructionDiscriminator is the Anchor sighash for an instruction:
// sha256("global:" + name)[:8], with name in snake_case.
func InstructionDiscriminator(name string) []byte {
	return namespacedDiscriminator("global", name)
}

// EventDiscriminator is the Anchor event tag: sha256("event:" + Name)[:8].
func EventDiscriminator(name string) []byte {
	return namespacedDiscriminator("event", name)
}

func namespacedDiscriminator(namespace, name string) []byte {
	h := sha256.Sum256([]byte(namespace + ":" + name))
	return h[:discriminatorSize]
}

func hasDiscriminator(data, discriminator []byte) bool {
	return len(data) >= discriminatorSize && bytes.Equal(data[:discriminatorSize], discriminator)
}
