package validate

import (
	"github.com/go-playground/locales/en"
	"github.com/stretchr/testify/require"
	"testing"
)

type request struct {
	Addresses []string `validate:"required,min=1,dive,eth_addr"`
}

func TestRun(t *testing.T) {
	require.NoError(t, Run(request{Addresses: []string{"0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"}}, nil))

	err := Run(request{}, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Addresses")

	err = Run(request{Addresses: []string{"0x123"}}, map[string]string{"Addresses[0].eth_addr": "bad address"})
	require.EqualError(t, err, "bad address")
}

func TestNew(t *testing.T) {
	err := New(request{Addresses: []string{}}, map[string]string{"Addresses.min": "need one"}, en.New(), "en")
	require.EqualError(t, err, "need one")
}
