package utils

import (
	"os"
	"testing"

	"conduit/config"
)

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "utils-test-secret")
	config.Load()
	os.Exit(m.Run())
}
