// Package vault implements the client-side vault: the typed item model, the
// item cipher boundary and the authenticated session that owns the derived
// symmetric key.
package vault

import (
	"encoding/json"
	"fmt"
	"time"
)

// ItemType identifies the kind of secret a vault item holds.
type ItemType string

const (
	ItemTypeCredential  ItemType = "credential"
	ItemTypePaymentCard ItemType = "payment-card"
	ItemTypeSecureNote  ItemType = "secure-note"
)

// ItemData is the closed set of vault item payloads. Exactly one
// implementation exists per ItemType; payloads never carry fields of another
// type.
type ItemData interface {
	ItemType() ItemType
	// Label is the user-facing name of the item.
	Label() string

	isItemData()
}

// Credential is a username/password entry for a site or service.
type Credential struct {
	Name     string `json:"name"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	Website  string `json:"website,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

func (*Credential) ItemType() ItemType { return ItemTypeCredential }
func (c *Credential) Label() string    { return c.Name }
func (*Credential) isItemData()        {}

// PaymentCard is a stored payment card.
type PaymentCard struct {
	Name           string `json:"name"`
	CardNumber     string `json:"card_number,omitempty"`
	ExpiryDate     string `json:"expiry_date,omitempty"`
	CVV            string `json:"cvv,omitempty"`
	CardholderName string `json:"cardholder_name,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

func (*PaymentCard) ItemType() ItemType { return ItemTypePaymentCard }
func (p *PaymentCard) Label() string    { return p.Name }
func (*PaymentCard) isItemData()        {}

// SecureNote is free-form secret text.
type SecureNote struct {
	Name  string `json:"name"`
	Notes string `json:"notes,omitempty"`
}

func (*SecureNote) ItemType() ItemType { return ItemTypeSecureNote }
func (n *SecureNote) Label() string    { return n.Name }
func (*SecureNote) isItemData()        {}

// DecryptedItem is the ephemeral plaintext view of one vault item. It is
// reconstructed on demand and never persisted.
type DecryptedItem struct {
	ID        string
	Type      ItemType
	Data      ItemData
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SkippedItem records a vault item that could not be decrypted during a bulk
// read. The caller decides the policy for such items; the core never deletes
// them.
type SkippedItem struct {
	ID  string
	Err error
}

// payloadEnvelope is the serialized plaintext form protected by the cipher.
type payloadEnvelope struct {
	Type ItemType        `json:"type"`
	Data json.RawMessage `json:"data"`
}

// MarshalItemData serializes an item payload into the plaintext envelope.
func MarshalItemData(data ItemData) ([]byte, error) {
	if data == nil {
		return nil, fmt.Errorf("item data must not be nil")
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encoding item data: %w", err)
	}
	return json.Marshal(payloadEnvelope{Type: data.ItemType(), Data: raw})
}

// UnmarshalItemData deserializes a plaintext envelope into its typed payload.
func UnmarshalItemData(plaintext []byte) (ItemData, error) {
	var env payloadEnvelope
	if err := json.Unmarshal(plaintext, &env); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedItem, err)
	}

	var data ItemData
	switch env.Type {
	case ItemTypeCredential:
		data = &Credential{}
	case ItemTypePaymentCard:
		data = &PaymentCard{}
	case ItemTypeSecureNote:
		data = &SecureNote{}
	default:
		return nil, fmt.Errorf("%w: unknown item type %q", ErrMalformedItem, env.Type)
	}

	if err := json.Unmarshal(env.Data, data); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedItem, err)
	}
	return data, nil
}
