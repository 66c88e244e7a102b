package accountapi

import "time"

// Profile is the account record returned by the service. The service never
// sees plaintext vault data; VaultItemsCount is server-side bookkeeping.
type Profile struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	BiometricEnabled bool      `json:"biometric_enabled"`
	VaultItemsCount  int       `json:"vault_items_count"`
	IsPremium        bool      `json:"is_premium"`
	CreatedAt        time.Time `json:"created_at"`
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	AccessToken string  `json:"access_token"`
	User        Profile `json:"user"`
}

// VaultItem is a stored vault record. EncryptedData is opaque to the service;
// only the owning client can decrypt it.
type VaultItem struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	ItemType      string    `json:"item_type"`
	EncryptedData string    `json:"encrypted_data"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type registerRequest struct {
	Email              string `json:"email"`
	MasterPasswordHash string `json:"master_password_hash"`
	BiometricEnabled   bool   `json:"biometric_enabled"`
}

type loginRequest struct {
	Email              string `json:"email"`
	MasterPasswordHash string `json:"master_password_hash"`
}

type createItemRequest struct {
	ItemType      string `json:"item_type"`
	EncryptedData string `json:"encrypted_data"`
}

type updateItemRequest struct {
	EncryptedData string `json:"encrypted_data"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}
