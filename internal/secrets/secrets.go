package secrets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/JFdC77/job-search-assistant/internal/config"
)

const (
	// "Service" groups the app's secrets in the OS keychain.
	KeyringService = "job-search-assistant"
)

var ErrNotFound = errors.New("secret not found in keychain")

func Get(account string) (string, error) {
	if strings.TrimSpace(account) == "" {
		return "", errors.New("keyring account name is empty")
	}
	v, err := keyring.Get(KeyringService, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, account)
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(v) == "" {
		return "", fmt.Errorf("%w: %s", ErrNotFound, account)
	}
	return v, nil
}

func Set(account, value string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(value) == "" {
		return errors.New("secret is empty")
	}
	return keyring.Set(KeyringService, account, value)
}

func Delete(account string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	err := keyring.Delete(KeyringService, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

// Account returns the keychain account holding the credential of src:
// the IMAP password for mail sources, the bearer token for api sources.
func Account(src config.Source) (string, error) {
	switch src.Kind {
	case config.KindMail:
		return fmt.Sprintf("imap:%s@%s", src.Mail.Username, src.Mail.IMAPHost), nil
	case config.KindAPI:
		return "api:" + src.Name, nil
	default:
		return "", fmt.Errorf("source %q (%s) has no credentials", src.Name, src.Kind)
	}
}

// ForSource reads the credential of src from the keychain.
func ForSource(src config.Source) (string, error) {
	acct, err := Account(src)
	if err != nil {
		return "", err
	}
	return Get(acct)
}
