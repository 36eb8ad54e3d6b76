package pubsub

// Pack is a message going through the broker. Key decides the partition, events of the same guild
// share the key so their order is kept.
type Pack struct {
	Key []byte
	Msg []byte
}
