package provider_test

import (
	"testing"

	"github.com/oauthkit/go-oauth1-server/provider"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestSerializeClientFirstMatchWins(t *testing.T) {
	srv := provider.NewServer()
	var reached bool
	srv.RegisterSerializer(func(client any) (any, error) { return nil, provider.ErrPass })
	srv.RegisterSerializer(func(client any) (any, error) { return "x", nil })
	srv.RegisterSerializer(func(client any) (any, error) {
		reached = true
		return "never", nil
	})

	obj, err := srv.SerializeClient(struct{}{})
	require.NoError(t, err)
	require.Equal(t, "x", obj)
	require.False(t, reached, "chain must short-circuit on first resolution")
}

func TestSerializeClientNilResultDefers(t *testing.T) {
	srv := provider.NewServer()
	srv.RegisterSerializer(func(client any) (any, error) { return nil, nil })
	srv.RegisterSerializer(func(client any) (any, error) { return "id-1", nil })

	obj, err := srv.SerializeClient(struct{}{})
	require.NoError(t, err)
	require.Equal(t, "id-1", obj)
}

func TestSerializeClientEmptyChain(t *testing.T) {
	srv := provider.NewServer()
	_, err := srv.SerializeClient(struct{}{})
	require.ErrorIs(t, err, provider.ErrNoSerializer)
}

func TestSerializeClientErrorStopsChain(t *testing.T) {
	srv := provider.NewServer()
	boom := errors.New("boom")
	srv.RegisterSerializer(func(client any) (any, error) { return nil, boom })
	srv.RegisterSerializer(func(client any) (any, error) { return "x", nil })

	_, err := srv.SerializeClient(struct{}{})
	require.ErrorIs(t, err, boom)
}

func TestSerializeClientPanicBecomesError(t *testing.T) {
	srv := provider.NewServer()
	srv.RegisterSerializer(func(client any) (any, error) { panic("kaboom") })

	_, err := srv.SerializeClient(struct{}{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "kaboom")
}

func TestDeserializeClient(t *testing.T) {
	srv := provider.NewServer()
	srv.RegisterDeserializer(func(obj any) (any, error) { return nil, provider.ErrPass })
	srv.RegisterDeserializer(func(obj any) (any, error) {
		id, _ := obj.(string)
		return map[string]string{"id": id}, nil
	})

	client, err := srv.DeserializeClient("c-1")
	require.NoError(t, err)
	require.Equal(t, map[string]string{"id": "c-1"}, client)
}

func TestDeserializeClientGoneReturnsImmediately(t *testing.T) {
	srv := provider.NewServer()
	var reached bool
	srv.RegisterDeserializer(func(obj any) (any, error) { return nil, nil })
	srv.RegisterDeserializer(func(obj any) (any, error) {
		reached = true
		return "client", nil
	})

	client, err := srv.DeserializeClient("c-1")
	require.NoError(t, err)
	require.Nil(t, client, "deauthorized client must resolve to nil, not fall through")
	require.False(t, reached)
}

func TestDeserializeClientEmptyChain(t *testing.T) {
	srv := provider.NewServer()
	_, err := srv.DeserializeClient("c-1")
	require.ErrorIs(t, err, provider.ErrNoDeserializer)
}

func TestDeserializeClientPanicBecomesError(t *testing.T) {
	srv := provider.NewServer()
	srv.RegisterDeserializer(func(obj any) (any, error) { panic(errors.New("bad state")) })

	_, err := srv.DeserializeClient("c-1")
	require.Error(t, err)
	require.Contains(t, err.Error(), "bad state")
}
