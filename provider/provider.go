// Package provider implements the service-provider side of the OAuth
// 1.0/1.0a three-legged authorization flow (RFC 5849): issuing
// temporary request tokens, obtaining the user's authorization for
// them, and exchanging authorized tokens for access tokens, together
// with Problem Reporting error responses.
//
// The engine is storage-agnostic. Consumers, tokens, and verifiers are
// reached only through the issue/verify/validate callbacks supplied to
// each stage; the session collaborator holds in-flight authorization
// transactions.
package provider

import (
	"github.com/pkg/errors"
)

// ErrPass is returned by a serialization strategy to signal that it
// does not recognise the input and the next registered strategy should
// be tried.
var ErrPass = errors.New("oauth: pass to next serialization strategy")

// Configuration failures raised when a chain is exhausted without any
// strategy resolving.
var (
	ErrNoSerializer   = errors.New("failed to serialize client, register a serialization function using RegisterSerializer")
	ErrNoDeserializer = errors.New("failed to deserialize client, register a deserialization function using RegisterDeserializer")
)

// ClientSerializer converts a client object into a compact value that
// can live in the session. Returning (nil, nil) defers to the next
// strategy; returning ErrPass does the same explicitly.
type ClientSerializer func(client any) (obj any, err error)

// ClientDeserializer restores a client object from its session
// representation. Returning (nil, nil) means the serialized client
// existed when the session was established but has since been
// deauthorized; return ErrPass to defer to the next strategy.
type ClientDeserializer func(obj any) (client any, err error)

// Server is the OAuth service-provider engine. It owns the client
// serialization chains and constructs the protocol stages. Build one
// at startup, register serialization functions, and treat it as
// read-only once requests are being served: the chains are read
// concurrently and never locked.
type Server struct {
	serializers   []ClientSerializer
	deserializers []ClientDeserializer
}

// NewServer creates an OAuth service-provider engine.
func NewServer() *Server {
	return &Server{}
}

// RegisterSerializer appends a client serialization strategy.
func (s *Server) RegisterSerializer(fn ClientSerializer) {
	s.serializers = append(s.serializers, fn)
}

// RegisterDeserializer appends a client deserialization strategy.
func (s *Server) RegisterDeserializer(fn ClientDeserializer) {
	s.deserializers = append(s.deserializers, fn)
}

// SerializeClient walks the serialization chain in registration order
// and returns the first strategy's result. A strategy yielding neither
// a value nor an error defers to the next one; an exhausted chain is a
// configuration error.
func (s *Server) SerializeClient(client any) (any, error) {
	for _, layer := range s.serializers {
		obj, err := invokeSerializer(layer, client)
		if errors.Is(err, ErrPass) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if obj != nil {
			return obj, nil
		}
	}
	return nil, ErrNoSerializer
}

// DeserializeClient walks the deserialization chain in registration
// order. A nil client with no error is returned immediately rather
// than falling through: it means the client has been deauthorized
// since the session was established, which is a different condition
// from a strategy not recognising the stored format (ErrPass).
func (s *Server) DeserializeClient(obj any) (any, error) {
	for _, layer := range s.deserializers {
		client, err := invokeDeserializer(layer, obj)
		if errors.Is(err, ErrPass) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return client, nil
	}
	return nil, ErrNoDeserializer
}

func invokeSerializer(fn ClientSerializer, client any) (obj any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("client serializer panicked: %v", r)
		}
	}()
	return fn(client)
}

func invokeDeserializer(fn ClientDeserializer, obj any) (client any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("client deserializer panicked: %v", r)
		}
	}()
	return fn(obj)
}
