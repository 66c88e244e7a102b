package vault

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemData_MarshalRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		data ItemData
	}{
		{"credential", &Credential{Name: "GitHub", Username: "octo", Password: "Tr0ub4dor&3xyz!", Website: "https://github.com", Notes: "work account"}},
		{"payment card", &PaymentCard{Name: "Visa", CardNumber: "4111111111111111", ExpiryDate: "12/27", CVV: "123", CardholderName: "A. User"}},
		{"secure note", &SecureNote{Name: "Wi-Fi", Notes: "the router password is on the box"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			plaintext, err := MarshalItemData(tc.data)
			require.NoError(t, err)

			decoded, err := UnmarshalItemData(plaintext)
			require.NoError(t, err)
			assert.Equal(t, tc.data, decoded)
			assert.Equal(t, tc.data.ItemType(), decoded.ItemType())
		})
	}
}

func TestUnmarshalItemData_Malformed(t *testing.T) {
	cases := []struct {
		name      string
		plaintext string
	}{
		{"not json", "not json at all"},
		{"unknown type", `{"type":"api-key","data":{}}`},
		{"bad data payload", `{"type":"credential","data":"not an object"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := UnmarshalItemData([]byte(tc.plaintext))
			assert.ErrorIs(t, err, ErrMalformedItem)
		})
	}
}

func TestValidateItemData(t *testing.T) {
	assert.Error(t, validateItemData(nil))
	assert.NoError(t, validateItemData(&Credential{Name: "ok"}))

	long := make([]byte, MaxFieldLength+1)
	for i := range long {
		long[i] = 'a'
	}
	assert.Error(t, validateItemData(&SecureNote{Name: "n", Notes: string(long)}))
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, validateEmail("user@example.com"))
	assert.Error(t, validateEmail(""))
	assert.Error(t, validateEmail("no-at-sign"))
	assert.Error(t, validateEmail("@example.com"))
	assert.Error(t, validateEmail("user@"))
}
