//go:build darwin

// Package keychain provides a securestore.Store backed by the macOS Keychain.
// Items are device-local (never synced to iCloud) and readable only while the
// device is unlocked, which is the most restrictive storage available to a
// desktop client without a Secure Enclave entitlement.
package keychain

import (
	"fmt"

	gokeychain "github.com/keybase/go-keychain"

	"github.com/nexakey/nexakey/securestore"
)

const defaultService = "com.nexakey.securestore"

// Store implements securestore.Store on top of macOS Keychain generic
// password items. Each store key maps to the Keychain account attribute.
type Store struct {
	service string
	label   string
}

var _ securestore.Store = (*Store)(nil)

// New returns a Keychain-backed Store. An empty service uses the default.
func New(service string) (*Store, error) {
	if service == "" {
		service = defaultService
	}
	return &Store{service: service, label: "NexaKey secure storage"}, nil
}

func (s *Store) Get(key string) ([]byte, error) {
	data, err := gokeychain.GetGenericPassword(s.service, key, "", "")
	if err != nil {
		return nil, fmt.Errorf("keychain read %q: %w", key, err)
	}
	if data == nil {
		return nil, fmt.Errorf("%s: %w", key, securestore.ErrNotFound)
	}
	return data, nil
}

func (s *Store) Set(key string, value []byte) error {
	item := gokeychain.NewGenericPassword(s.service, key, s.label, value, "")
	item.SetSynchronizable(gokeychain.SynchronizableNo)
	item.SetAccessible(gokeychain.AccessibleWhenUnlockedThisDeviceOnly)

	if err := gokeychain.AddItem(item); err != nil {
		if err == gokeychain.ErrorDuplicateItem {
			query := gokeychain.NewGenericPassword(s.service, key, "", nil, "")
			update := gokeychain.NewItem()
			update.SetData(value)
			if err := gokeychain.UpdateItem(query, update); err != nil {
				return fmt.Errorf("keychain update %q: %w", key, err)
			}
			return nil
		}
		return fmt.Errorf("keychain add %q: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(key string) error {
	query := gokeychain.NewGenericPassword(s.service, key, "", nil, "")
	if err := gokeychain.DeleteItem(query); err != nil {
		if err == gokeychain.ErrorItemNotFound {
			return fmt.Errorf("%s: %w", key, securestore.ErrNotFound)
		}
		return fmt.Errorf("keychain delete %q: %w", key, err)
	}
	return nil
}
