package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	authService "github.com/allisson/gatekeeper/internal/auth/service"
)

// RunHashAPIKey prints the argon2id hash of an API key for use as API_KEY. When key is empty
// the first line of the reader is used, so the key need not appear in shell history.
func RunHashAPIKey(streams IOTuple, key string) error {
	if key == "" {
		line, err := bufio.NewReader(streams.Reader).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to read api key: %w", err)
		}
		key = strings.TrimSpace(line)
	}
	if key == "" {
		return errors.New("api key is required")
	}

	hash, err := authService.HashAPIKey(key)
	if err != nil {
		return fmt.Errorf("failed to hash api key: %w", err)
	}

	_, _ = fmt.Fprintf(streams.Writer, "API_KEY='%s'\n", hash)
	return nil
}
